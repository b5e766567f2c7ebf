// Package report assembles the final diagnostic report. MAC iteration order is
// the discovery order and session keys keep their insertion order, so the
// rendered output and JSON payload are stable regardless of which concurrent
// call finished first.
package report

import (
	"bytes"
	"encoding/json"

	"dev.lkm.one/crosscheck/common"
)

// SessionSet - Insertion-ordered mapping of session key to session record.
type SessionSet struct {
	keys    []string
	records map[string]common.SessionRecord
}

// NewSessionSet - Create an empty session set.
func NewSessionSet() *SessionSet {
	return &SessionSet{records: make(map[string]common.SessionRecord)}
}

// Add - Insert a session record. A repeated key overwrites in place and keeps
// its original position.
func (set *SessionSet) Add(key string, record common.SessionRecord) {
	if _, found := set.records[key]; !found {
		set.keys = append(set.keys, key)
	}
	set.records[key] = record
}

// Keys - Session keys in insertion order.
func (set *SessionSet) Keys() []string {
	return set.keys
}

// Get - Look up a session record by key.
func (set *SessionSet) Get(key string) (common.SessionRecord, bool) {
	record, found := set.records[key]
	return record, found
}

// Len - Number of session records.
func (set *SessionSet) Len() int {
	return len(set.keys)
}

// MarshalJSON - Marshal as a JSON object preserving insertion order.
func (set *SessionSet) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for i, key := range set.keys {
		if i > 0 {
			buffer.WriteByte(',')
		}
		if err := writeOrderedEntry(&buffer, key, set.records[key]); err != nil {
			return nil, err
		}
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// DiagnosticReport - Final correlation output. The wireless section exists
// only when the identity resolved to a wireless endpoint.
type DiagnosticReport struct {
	macs     []string
	sessions map[string]*SessionSet

	wirelessMACs []string
	wireless     map[string]common.WirelessSummary
}

// New - Create an empty diagnostic report.
func New() *DiagnosticReport {
	return &DiagnosticReport{
		sessions: make(map[string]*SessionSet),
	}
}

// AddMAC - Register a discovered MAC with an empty session set. Every
// discovered MAC gets an entry no matter how its detail call went.
func (report *DiagnosticReport) AddMAC(mac string) *SessionSet {
	if set, found := report.sessions[mac]; found {
		return set
	}
	set := NewSessionSet()
	report.macs = append(report.macs, mac)
	report.sessions[mac] = set
	return set
}

// SetSessions - Attach a session set to a MAC, registering the MAC if needed.
func (report *DiagnosticReport) SetSessions(mac string, set *SessionSet) {
	if _, found := report.sessions[mac]; !found {
		report.macs = append(report.macs, mac)
	}
	report.sessions[mac] = set
}

// MACs - Discovered MACs in discovery order.
func (report *DiagnosticReport) MACs() []string {
	return report.macs
}

// Sessions - Session set for a MAC.
func (report *DiagnosticReport) Sessions(mac string) (*SessionSet, bool) {
	set, found := report.sessions[mac]
	return set, found
}

// SetWireless - Attach the wireless summary for a MAC. First call makes the
// wireless section present in the payload.
func (report *DiagnosticReport) SetWireless(mac string, summary common.WirelessSummary) {
	if report.wireless == nil {
		report.wireless = make(map[string]common.WirelessSummary)
	}
	if _, found := report.wireless[mac]; !found {
		report.wirelessMACs = append(report.wirelessMACs, mac)
	}
	report.wireless[mac] = summary
}

// WirelessMACs - Wireless MACs in discovery order, nil when no wireless endpoint resolved.
func (report *DiagnosticReport) WirelessMACs() []string {
	return report.wirelessMACs
}

// Wireless - Wireless summary for a MAC.
func (report *DiagnosticReport) Wireless(mac string) (common.WirelessSummary, bool) {
	summary, found := report.wireless[mac]
	return summary, found
}

// HasWireless - Whether the wireless section is present.
func (report *DiagnosticReport) HasWireless() bool {
	return report.wireless != nil
}

// MarshalJSON - Structured payload for programmatic use. The dnac_information
// key is omitted entirely when no wireless endpoint was resolved.
func (report *DiagnosticReport) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteString(`{"ise_information":{`)
	for i, mac := range report.macs {
		if i > 0 {
			buffer.WriteByte(',')
		}
		if err := writeOrderedEntry(&buffer, mac, report.sessions[mac]); err != nil {
			return nil, err
		}
	}
	buffer.WriteByte('}')

	if report.wireless != nil {
		buffer.WriteString(`,"dnac_information":{`)
		for i, mac := range report.wirelessMACs {
			if i > 0 {
				buffer.WriteByte(',')
			}
			if err := writeOrderedEntry(&buffer, mac, report.wireless[mac]); err != nil {
				return nil, err
			}
		}
		buffer.WriteByte('}')
	}

	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

func writeOrderedEntry(buffer *bytes.Buffer, key string, value interface{}) error {
	encodedKey, err := json.Marshal(key)
	if err != nil {
		return err
	}
	encodedValue, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buffer.Write(encodedKey)
	buffer.WriteByte(':')
	buffer.Write(encodedValue)
	return nil
}
