package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"dev.lkm.one/crosscheck/common"
)

func sessionRecord(timestamp string) common.SessionRecord {
	return common.SessionRecord{
		Timestamp:            timestamp,
		AuthenticationMethod: common.NullValue,
		PostureStatus:        common.NullValue,
		IdentityGroup:        common.NullValue,
		AuthorizationPolicy:  common.NullValue,
		AuthenticationPolicy: common.NullValue,
		NACCompliance:        common.NullValue,
		Failures:             []common.FailureDetail{},
	}
}

func TestSessionSetInsertionOrder(t *testing.T) {
	set := NewSessionSet()
	set.Add("zzzz", sessionRecord("t1"))
	set.Add("aaaa", sessionRecord("t2"))
	set.Add("mmmm", sessionRecord("t3"))

	want := []string{"zzzz", "aaaa", "mmmm"}
	for i, key := range set.Keys() {
		if key != want[i] {
			t.Fatalf("Keys() = %v, want %v", set.Keys(), want)
		}
	}

	payload, err := json.Marshal(set)
	if err != nil {
		t.Fatal(err)
	}
	// Insertion order must survive marshalling, not be sorted
	zIndex := bytes.Index(payload, []byte(`"zzzz"`))
	aIndex := bytes.Index(payload, []byte(`"aaaa"`))
	mIndex := bytes.Index(payload, []byte(`"mmmm"`))
	if zIndex < 0 || aIndex < 0 || mIndex < 0 || !(zIndex < aIndex && aIndex < mIndex) {
		t.Errorf("marshalled set lost insertion order: %s", payload)
	}
}

func TestSessionSetOverwriteKeepsPosition(t *testing.T) {
	set := NewSessionSet()
	set.Add("k1", sessionRecord("t1"))
	set.Add("k2", sessionRecord("t2"))
	set.Add("k1", sessionRecord("t3"))

	if set.Len() != 2 {
		t.Fatalf("Len = %v, want 2", set.Len())
	}
	if record, _ := set.Get("k1"); record.Timestamp != "t3" {
		t.Errorf("overwritten record timestamp = %q, want t3", record.Timestamp)
	}
	if set.Keys()[0] != "k1" {
		t.Errorf("overwritten key moved: %v", set.Keys())
	}
}

func TestReportMarshalWithoutWireless(t *testing.T) {
	result := New()
	result.AddMAC("00:11:22:33:44:55")

	payload, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v\n%s", err, payload)
	}
	if _, found := decoded["ise_information"]; !found {
		t.Error("payload missing ise_information")
	}
	// The key must be absent entirely, not null
	if _, found := decoded["dnac_information"]; found {
		t.Errorf("dnac_information present without a wireless endpoint: %s", payload)
	}
}

func TestReportMarshalMACOrder(t *testing.T) {
	result := New()
	result.AddMAC("66:77:88:99:AA:BB")
	result.AddMAC("00:11:22:33:44:55")
	result.SetWireless("00:11:22:33:44:55", common.WirelessSummary{})

	payload, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}
	first := bytes.Index(payload, []byte(`"66:77:88:99:AA:BB"`))
	second := bytes.Index(payload, []byte(`"00:11:22:33:44:55"`))
	if first < 0 || second < 0 || first > second {
		t.Errorf("MAC discovery order lost: %s", payload)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v\n%s", err, payload)
	}
	if _, found := decoded["dnac_information"]; !found {
		t.Error("payload missing dnac_information")
	}
}

func TestRenderTextNoData(t *testing.T) {
	result := New()
	result.AddMAC("00:11:22:33:44:55")

	var buffer bytes.Buffer
	result.RenderText(&buffer)
	output := buffer.String()

	if !strings.Contains(output, "00:11:22:33:44:55") {
		t.Errorf("missing MAC header in output:\n%v", output)
	}
	if !strings.Contains(output, "No data found") {
		t.Errorf("missing no-data marker in output:\n%v", output)
	}
	if strings.Contains(output, "INFO GATHERED ON DNAC") {
		t.Errorf("wireless section rendered without wireless data:\n%v", output)
	}
}

func TestRenderTextSessionsAndFailures(t *testing.T) {
	record := sessionRecord("2023-04-12  09:15:01.123")
	record.Failures = []common.FailureDetail{
		{Code: "EAP_TIMEOUT", Cause: "supplicant unresponsive", Resolution: "check NIC driver"},
	}
	set := NewSessionSet()
	set.Add(".123", record)

	result := New()
	result.SetSessions("00:11:22:33:44:55", set)

	var buffer bytes.Buffer
	result.RenderText(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Time: 2023-04-12  09:15:01.123",
		"Failure code: EAP_TIMEOUT",
		"Cause: supplicant unresponsive",
		"Resolution: check NIC driver",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%v", want, output)
		}
	}
}
