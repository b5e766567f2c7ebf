// Package sources holds the HTTP clients for the two upstream systems: the
// authentication/session manager (ISE) and the wireless/client-health manager
// (DNAC). Payload structs here mirror the wire formats; the normalize package
// turns them into report records.
package sources

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SessionSource - Capability set of the authentication/session manager.
type SessionSource interface {
	ActiveSessions(ctx context.Context) (*ActiveSessionList, error)
	AuthStatus(ctx context.Context, mac string) (*AuthStatusOutput, error)
}

// HealthSource - Capability set of the wireless/client-health manager.
type HealthSource interface {
	Authenticate(ctx context.Context) (string, error)
	EnrichIdentity(ctx context.Context, token string, identity string) ([]string, error)
	ClientHealth(ctx context.Context, token string, mac string) (*ClientDetail, error)
	ClientIssues(ctx context.Context, token string, mac string) (*IssueResponse, error)
}

// newHTTPClient - Shared client for both upstreams. Certificate validation is
// disabled by policy, the managers ship self-signed certificates.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

// doRequest - Issue a request and return the body, treating non-2xx as an error.
func doRequest(client *http.Client, request *http.Request) ([]byte, error) {
	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %v for %v", response.StatusCode, request.URL.Path)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
