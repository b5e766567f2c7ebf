package common

// NullValue - Sentinel used for fields absent or malformed in an upstream payload.
const NullValue = "null"

// FailureDetail - Resolved failure-catalog entry attached to a session record.
type FailureDetail struct {
	Code       string `json:"code"`
	Cause      string `json:"cause"`
	Resolution string `json:"resolution"`
}

// SessionRecord - One normalized authentication event for a MAC.
type SessionRecord struct {
	Timestamp            string          `json:"timestamp"`
	AuthenticationMethod string          `json:"authentication_method"`
	PostureStatus        string          `json:"posture_status"`
	IdentityGroup        string          `json:"identity_group"`
	AuthorizationPolicy  string          `json:"authorisation_policy"`
	AuthenticationPolicy string          `json:"authentication_policy"`
	NACCompliance        string          `json:"nac_compliance"`
	Failures             []FailureDetail `json:"failures"`
}

// HealthScoreEntry - One health score element from the client detail payload.
type HealthScoreEntry struct {
	HealthType string `json:"healthType"`
	Reason     string `json:"reason"`
	Score      int    `json:"score"`
}

// HealthRecord - Normalized wireless client detail for a MAC.
// Every field is individually optional upstream and defaults to the null sentinel.
type HealthRecord struct {
	ID               string             `json:"id"`
	ConnectionStatus string             `json:"connection_status"`
	HostType         string             `json:"host_type"`
	UserID           string             `json:"user_id"`
	Identifier       string             `json:"identifier"`
	HostName         string             `json:"host_name"`
	HostOS           string             `json:"host_os"`
	HostVersion      string             `json:"host_version"`
	SubType          string             `json:"sub_type"`
	FirmwareVersion  string             `json:"firmware_version"`
	DeviceVendor     string             `json:"device_vendor"`
	LastUpdated      string             `json:"last_updated"`
	HealthScore      []HealthScoreEntry `json:"health_score"`
	HostMAC          string             `json:"host_mac"`
	HostIPv4         string             `json:"host_ipv4"`
	AuthType         string             `json:"auth_type"`
	SSID             string             `json:"ssid"`
	Location         string             `json:"location"`
	ClientConnection string             `json:"client_connection"`
	IssueCount       string             `json:"issue_count"`
	AuthDoneTime     string             `json:"auth_done_time"`
	OnboardingTime   string             `json:"onboarding_time"`
	ConnectionInfo   interface{}        `json:"connection_info"`
}

// IssueEntry - One detected issue from the health source.
type IssueEntry struct {
	IssueID        string `json:"issue_id"`
	Name           string `json:"name"`
	ClientMAC      string `json:"client_mac"`
	Status         string `json:"status"`
	Priority       string `json:"priority"`
	Category       string `json:"category"`
	LastOccurrence string `json:"last_occurence_time"`
}

// IssueRecord - Normalized per-MAC issue listing.
type IssueRecord struct {
	Version    string       `json:"version"`
	TotalCount int          `json:"total_count"`
	Entries    []IssueEntry `json:"response"`
}

// WirelessSummary - Health and issue detail for one wireless MAC.
type WirelessSummary struct {
	Health *HealthRecord `json:"client_health,omitempty"`
	Issues *IssueRecord  `json:"client_issues,omitempty"`
}
