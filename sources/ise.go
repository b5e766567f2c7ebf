package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"dev.lkm.one/crosscheck/common"
)

// ActiveSessionList - Wire format of the session source's active session listing.
type ActiveSessionList struct {
	XMLName  xml.Name        `xml:"activeList"`
	Sessions []ActiveSession `xml:"activeSession"`
}

// ActiveSession - One active session entry. The calling station ID is not
// guaranteed to be a MAC address.
type ActiveSession struct {
	UserName         string `xml:"user_name"`
	CallingStationID string `xml:"calling_station_id"`
}

// AuthStatusOutput - Wire format of the per-MAC auth status history.
type AuthStatusOutput struct {
	XMLName  xml.Name            `xml:"authStatusOutputList"`
	Elements []AuthStatusElement `xml:"authStatusList>authStatusElements"`
}

// AuthStatusElement - One authentication event. Every field may be absent.
type AuthStatusElement struct {
	ACSTimestamp         string `xml:"acs_timestamp"`
	PostureStatus        string `xml:"posture_status"`
	IdentityGroup        string `xml:"identity_group"`
	AuthenticationMethod string `xml:"authentication_method"`
	NACPolicyCompliance  string `xml:"nac_policy_compliance"`
	OtherAttributes      string `xml:"other_attr_string"`
	Failed               string `xml:"failed"`
	FailureReason        string `xml:"failure_reason"`
}

// ISEClient - Session source client using the monitoring REST API with basic auth.
type ISEClient struct {
	baseURL         string
	username        string
	password        string
	lookbackSeconds int
	httpClient      *http.Client
}

var _ SessionSource = (*ISEClient)(nil)

// NewISEClient - Create a session source client from decrypted credentials.
func NewISEClient(credentials *common.Credentials, config *common.Config) *ISEClient {
	return &ISEClient{
		baseURL:         credentials.ISEURL + "/admin/API/mnt",
		username:        credentials.ISEUsername,
		password:        credentials.ISEPassword,
		lookbackSeconds: config.LookbackSeconds,
		httpClient:      newHTTPClient(time.Duration(config.RequestTimeoutSeconds * float64(time.Second))),
	}
}

func (client *ISEClient) getXML(ctx context.Context, url string, destination interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/xml")
	request.SetBasicAuth(client.username, client.password)

	body, err := doRequest(client.httpClient, request)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(body, destination); err != nil {
		return fmt.Errorf("malformed session source payload: %w", err)
	}
	return nil
}

// ActiveSessions - Fetch all active sessions. This is the single call the
// whole run depends on, its failure is fatal to the caller.
func (client *ISEClient) ActiveSessions(ctx context.Context) (*ActiveSessionList, error) {
	log.Trace("Fetching active session list")
	var list ActiveSessionList
	if err := client.getXML(ctx, client.baseURL+"/Session/ActiveList", &list); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"session_count": len(list.Sessions),
	}).Trace("Fetched active session list")
	return &list, nil
}

// AuthStatus - Fetch the auth status history for one MAC over the configured
// lookback window.
func (client *ISEClient) AuthStatus(ctx context.Context, mac string) (*AuthStatusOutput, error) {
	log.WithFields(log.Fields{
		"mac": mac,
	}).Trace("Fetching auth status history")
	url := fmt.Sprintf("%v/AuthStatus/MACAddress/%v/%v/0/All", client.baseURL, mac, client.lookbackSeconds)
	var output AuthStatusOutput
	if err := client.getXML(ctx, url, &output); err != nil {
		return nil, err
	}
	return &output, nil
}
