package normalize

import (
	"strings"
	"testing"

	"dev.lkm.one/crosscheck/common"
	"dev.lkm.one/crosscheck/failures"
	"dev.lkm.one/crosscheck/sources"
)

func testStore() *failures.Store {
	return failures.NewStaticStore(map[int]common.FailureDetail{
		11007: {Code: "EAP_TIMEOUT", Cause: "supplicant unresponsive", Resolution: "check NIC driver"},
	})
}

func TestExtractFailureID(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		wantID int
		wantOK bool
	}{
		{"five digits with text", "11007 Could not locate the supplicant", 11007, true},
		{"six digits with text", "123456 some text", 123456, true},
		{"seven digits takes first six", "1234567 trailing", 123456, true},
		{"four digits only", "1234 too short", 0, false},
		{"no leading digits", "EAP timeout 11007", 0, false},
		{"empty", "", 0, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			id, ok := ExtractFailureID(test.reason)
			if ok != test.wantOK || id != test.wantID {
				t.Errorf("ExtractFailureID(%q) = (%v, %v), want (%v, %v)", test.reason, id, ok, test.wantID, test.wantOK)
			}
		})
	}
}

func TestSessionKeyFromTimestamp(t *testing.T) {
	element := sources.AuthStatusElement{ACSTimestamp: "2023-04-12T09:15:01.123"}
	key1, record := Session(element, testStore())
	key2, _ := Session(element, testStore())

	if key1 != ".123" {
		t.Errorf("key = %q, want last 4 characters of the timestamp", key1)
	}
	if key1 != key2 {
		t.Errorf("same timestamp produced different keys: %q vs %q", key1, key2)
	}
	if record.Timestamp != "2023-04-12  09:15:01.123" {
		t.Errorf("timestamp = %q, want T rewritten to two spaces", record.Timestamp)
	}
}

func TestSessionFallbackKey(t *testing.T) {
	element := sources.AuthStatusElement{}
	key, record := Session(element, testStore())

	if len(key) != FallbackKeyLength {
		t.Errorf("fallback key %q has length %v, want %v", key, len(key), FallbackKeyLength)
	}
	// Timestamp-derived keys are 4 characters, fallback keys must never collide with them
	if len(key) == 4 {
		t.Errorf("fallback key %q has same length as timestamp keys", key)
	}
	if record.Timestamp != common.NullValue {
		t.Errorf("timestamp = %q, want null sentinel", record.Timestamp)
	}
}

func TestSessionDefaultsMissingFields(t *testing.T) {
	_, record := Session(sources.AuthStatusElement{}, testStore())

	for field, value := range map[string]string{
		"timestamp":             record.Timestamp,
		"authentication_method": record.AuthenticationMethod,
		"posture_status":        record.PostureStatus,
		"identity_group":        record.IdentityGroup,
		"authorisation_policy":  record.AuthorizationPolicy,
		"authentication_policy": record.AuthenticationPolicy,
		"nac_compliance":        record.NACCompliance,
	} {
		if value != common.NullValue {
			t.Errorf("%v = %q, want null sentinel", field, value)
		}
	}
	if record.Failures == nil || len(record.Failures) != 0 {
		t.Errorf("failures = %v, want empty non-nil list", record.Failures)
	}
}

func TestSessionPolicyAttributes(t *testing.T) {
	element := sources.AuthStatusElement{
		OtherAttributes: "AuthorizationPolicyMatchedRule=Allow-Corp:!:ISEPolicySetName=Wired-Dot1X:!:Other=x",
	}
	_, record := Session(element, testStore())

	if record.AuthorizationPolicy != "Allow-Corp" {
		t.Errorf("authorization policy = %q, want Allow-Corp", record.AuthorizationPolicy)
	}
	if record.AuthenticationPolicy != "Wired-Dot1X" {
		t.Errorf("authentication policy = %q, want Wired-Dot1X", record.AuthenticationPolicy)
	}
}

func TestSessionFailureLookup(t *testing.T) {
	tests := []struct {
		name         string
		element      sources.AuthStatusElement
		wantFailures int
	}{
		{
			"failed with known id",
			sources.AuthStatusElement{Failed: "true", FailureReason: "11007 Could not locate the supplicant"},
			1,
		},
		{
			"failed with unknown id",
			sources.AuthStatusElement{Failed: "true", FailureReason: "99999 unknown"},
			0,
		},
		{
			"failed without leading id",
			sources.AuthStatusElement{Failed: "true", FailureReason: "no digits here"},
			0,
		},
		{
			"not failed",
			sources.AuthStatusElement{Failed: "false", FailureReason: "11007 Could not locate the supplicant"},
			0,
		},
		{
			"failed without reason",
			sources.AuthStatusElement{Failed: "true"},
			0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, record := Session(test.element, testStore())
			if len(record.Failures) != test.wantFailures {
				t.Fatalf("failures = %v, want %v entries", record.Failures, test.wantFailures)
			}
			if test.wantFailures == 1 {
				failure := record.Failures[0]
				if failure.Code != "EAP_TIMEOUT" || failure.Cause != "supplicant unresponsive" || !strings.Contains(failure.Resolution, "NIC") {
					t.Errorf("unexpected failure detail: %+v", failure)
				}
			}
		})
	}
}
