package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"dev.lkm.one/crosscheck/common"
)

// ClientDetail - Wire format of the per-MAC client detail payload.
type ClientDetail struct {
	Detail ClientDetailBody `json:"detail"`
}

// ClientDetailBody - Client detail fields. All optional record-to-record, hence pointers.
type ClientDetailBody struct {
	ID               *string                   `json:"id"`
	ConnectionStatus *string                   `json:"connectionStatus"`
	HostType         *string                   `json:"hostType"`
	UserID           *string                   `json:"userId"`
	Identifier       *string                   `json:"identifier"`
	HostName         *string                   `json:"hostName"`
	HostOS           *string                   `json:"hostOs"`
	HostVersion      *string                   `json:"hostVersion"`
	SubType          *string                   `json:"subType"`
	FirmwareVersion  *string                   `json:"firmwareVersion"`
	DeviceVendor     *string                   `json:"deviceVendor"`
	LastUpdated      *int64                    `json:"lastUpdated"`
	HealthScore      []common.HealthScoreEntry `json:"healthScore"`
	HostMAC          *string                   `json:"hostMac"`
	HostIPv4         *string                   `json:"hostIpV4"`
	AuthType         *string                   `json:"authType"`
	SSID             *string                   `json:"ssid"`
	Location         *string                   `json:"location"`
	ClientConnection *string                   `json:"clientConnection"`
	IssueCount       interface{}               `json:"issueCount"`
	AuthDoneTime     *int64                    `json:"authDoneTime"`
	OnboardingTime   *int64                    `json:"onboardingTime"`
	ConnectionInfo   interface{}               `json:"connectionInfo"`
}

// IssueResponse - Wire format of the per-MAC issue listing.
type IssueResponse struct {
	Version    interface{} `json:"version"`
	TotalCount interface{} `json:"totalCount"`
	Response   []RawIssue  `json:"response"`
}

// RawIssue - One issue entry; the last occurrence is epoch milliseconds.
type RawIssue struct {
	IssueID            *string `json:"issueId"`
	Name               *string `json:"name"`
	ClientMAC          *string `json:"clientMac"`
	Status             *string `json:"status"`
	Priority           *string `json:"priority"`
	Category           *string `json:"category"`
	LastOccurrenceTime *int64  `json:"last_occurence_time"`
}

type enrichmentEntry struct {
	UserDetails struct {
		HostMac *string `json:"hostMac"`
	} `json:"userDetails"`
}

type tokenResponse struct {
	Token string `json:"Token"`
}

// DNACClient - Health source client. Basic auth for the token endpoint, bearer
// token for everything else.
type DNACClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

var _ HealthSource = (*DNACClient)(nil)

// NewDNACClient - Create a health source client from decrypted credentials.
func NewDNACClient(credentials *common.Credentials, config *common.Config) *DNACClient {
	return &DNACClient{
		baseURL:    credentials.DNACURL,
		username:   credentials.DNACUsername,
		password:   credentials.DNACPassword,
		httpClient: newHTTPClient(time.Duration(config.RequestTimeoutSeconds * float64(time.Second))),
	}
}

func (client *DNACClient) getJSON(ctx context.Context, url string, token string, extraHeaders map[string]string, destination interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	request.Header.Set("X-Auth-Token", token)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	for name, value := range extraHeaders {
		request.Header.Set(name, value)
	}

	body, err := doRequest(client.httpClient, request)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, destination); err != nil {
		return fmt.Errorf("malformed health source payload: %w", err)
	}
	return nil
}

// Authenticate - POST for a bearer token using basic auth.
func (client *DNACClient) Authenticate(ctx context.Context) (string, error) {
	log.Trace("Fetching health source token")
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+"/dna/system/api/v1/auth/token", nil)
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")
	request.SetBasicAuth(client.username, client.password)

	body, err := doRequest(client.httpClient, request)
	if err != nil {
		return "", err
	}
	var response tokenResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("malformed token payload: %w", err)
	}
	if response.Token == "" {
		return "", fmt.Errorf("empty token in health source response")
	}
	return response.Token, nil
}

// EnrichIdentity - Resolve the wireless MAC addresses associated with an identity.
// An identity with no wireless endpoint yields an empty list, not an error.
func (client *DNACClient) EnrichIdentity(ctx context.Context, token string, identity string) ([]string, error) {
	log.WithFields(log.Fields{
		"identity": identity,
	}).Trace("Fetching identity enrichment")

	var entries []enrichmentEntry
	headers := map[string]string{
		"entity_type":  "network_user_id",
		"entity_value": identity,
	}
	if err := client.getJSON(ctx, client.baseURL+"/dna/intent/api/v1/user-enrichment-details", token, headers, &entries); err != nil {
		return nil, err
	}

	macs := make([]string, 0, 1)
	for _, entry := range entries {
		if entry.UserDetails.HostMac != nil && *entry.UserDetails.HostMac != "" {
			macs = append(macs, *entry.UserDetails.HostMac)
		}
	}
	return macs, nil
}

// ClientHealth - Fetch the client detail record for one MAC.
func (client *DNACClient) ClientHealth(ctx context.Context, token string, mac string) (*ClientDetail, error) {
	log.WithFields(log.Fields{
		"mac": mac,
	}).Trace("Fetching client health")
	var detail ClientDetail
	endpoint := client.baseURL + "/dna/intent/api/v1/client-detail?macAddress=" + url.QueryEscape(mac)
	if err := client.getJSON(ctx, endpoint, token, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ClientIssues - Fetch the issue listing for one MAC.
func (client *DNACClient) ClientIssues(ctx context.Context, token string, mac string) (*IssueResponse, error) {
	log.WithFields(log.Fields{
		"mac": mac,
	}).Trace("Fetching client issues")
	var response IssueResponse
	endpoint := client.baseURL + "/dna/intent/api/v1/issues?macAddress=" + url.QueryEscape(mac)
	if err := client.getJSON(ctx, endpoint, token, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
