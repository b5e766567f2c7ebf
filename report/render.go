package report

import (
	"fmt"
	"io"
	"strings"
)

const sectionRule = "===================="
const subsectionRule = "=========="

// RenderText - Human-readable console listing: one block per MAC, "No data
// found" for MACs whose detail call came back empty, then the wireless section
// when present.
func (report *DiagnosticReport) RenderText(writer io.Writer) {
	for _, mac := range report.macs {
		fmt.Fprintf(writer, "%v\n %v\n\n", mac, sectionRule)

		set := report.sessions[mac]
		if set.Len() == 0 {
			fmt.Fprintln(writer, "No data found")
			continue
		}

		for _, key := range set.Keys() {
			record, _ := set.Get(key)
			fmt.Fprintf(writer, "Session: %v\n", key)
			fmt.Fprintf(writer, "Time: %v\n", record.Timestamp)
			fmt.Fprintf(writer, "Posture Status: %v\n", record.PostureStatus)
			fmt.Fprintf(writer, "Identity Group: %v\n", record.IdentityGroup)
			fmt.Fprintf(writer, "Authorisation Policy: %v\n", record.AuthorizationPolicy)
			fmt.Fprintf(writer, "Authentication Policy: %v\n", record.AuthenticationPolicy)
			fmt.Fprintf(writer, "NAC Compliance: %v\n", record.NACCompliance)
			if len(record.Failures) > 0 {
				failure := record.Failures[0]
				fmt.Fprintf(writer, "Failure code: %v\n", failure.Code)
				fmt.Fprintf(writer, "Cause: %v\n", failure.Cause)
				fmt.Fprintf(writer, "Resolution: %v\n\n", failure.Resolution)
			} else {
				fmt.Fprint(writer, "No failures found\n\n")
			}
		}
	}

	if report.wireless == nil {
		return
	}

	fmt.Fprintln(writer, "INFO GATHERED ON DNAC:")
	for _, mac := range report.wirelessMACs {
		fmt.Fprintf(writer, "%v\n %v\n\n", mac, sectionRule)
		summary := report.wireless[mac]

		if summary.Health != nil {
			health := summary.Health
			fmt.Fprintf(writer, "Identifier on DNA: %v\n", health.ID)
			fmt.Fprintf(writer, "Connection Status: %v\n", health.ConnectionStatus)
			fmt.Fprintf(writer, "Host Type: %v\n", health.HostType)
			fmt.Fprintf(writer, "User ID: %v\n", health.UserID)
			fmt.Fprintf(writer, "Identifier: %v\n", health.Identifier)
			fmt.Fprintf(writer, "Device Hostname: %v\n", health.HostName)
			fmt.Fprintf(writer, "Device Details:\n %v\n", subsectionRule)
			fmt.Fprintf(writer, "Host OS: %v, Version: %v\n", health.HostOS, health.HostVersion)
			fmt.Fprintf(writer, "Host SubType: %v, Firmware Version: %v\n", health.SubType, health.FirmwareVersion)
			fmt.Fprintf(writer, "Device Vendor: %v\n %v\n", health.DeviceVendor, subsectionRule)
			fmt.Fprintf(writer, "Last Updated: %v\n", health.LastUpdated)
			fmt.Fprintf(writer, "Health Info:\n %v\n", subsectionRule)
			for _, score := range health.HealthScore {
				fmt.Fprintf(writer, "healthType: %v\n", score.HealthType)
				fmt.Fprintf(writer, "reason: %v\n", score.Reason)
				fmt.Fprintf(writer, "score: %v\n", score.Score)
			}
			fmt.Fprintf(writer, "%v\n", subsectionRule)
			fmt.Fprintf(writer, "Host MAC Address: %v\n", health.HostMAC)
			fmt.Fprintf(writer, "Host IPv4 Address: %v\n", health.HostIPv4)
			fmt.Fprintf(writer, "Authentication Type: %v\n", health.AuthType)
			fmt.Fprintf(writer, "SSID: %v\n", health.SSID)
			fmt.Fprintf(writer, "Region: %v\n", health.Location)
			fmt.Fprintf(writer, "Client Connected Device: %v\n", health.ClientConnection)
			fmt.Fprintf(writer, "Detected Issues: %v\n", health.IssueCount)
			fmt.Fprintf(writer, "Authentication Done Time: %v\n", health.AuthDoneTime)
			fmt.Fprintf(writer, "Onboarding Time: %v\n", health.OnboardingTime)
			fmt.Fprintf(writer, "Connection Info: %v\n\n", health.ConnectionInfo)
		} else {
			fmt.Fprintln(writer, "No data found")
		}
	}

	fmt.Fprintln(writer, "Issues found on DNAC:")
	for _, mac := range report.wirelessMACs {
		fmt.Fprintf(writer, "%v\n %v\n\n", mac, sectionRule)
		summary := report.wireless[mac]
		if summary.Issues == nil || len(summary.Issues.Entries) == 0 {
			fmt.Fprintln(writer, "No data found")
			continue
		}

		issues := summary.Issues
		fmt.Fprintf(writer, "Version: %v\n", issues.Version)
		fmt.Fprintf(writer, "Total Count: %v\n", issues.TotalCount)
		fmt.Fprintln(writer, "Details:")
		for _, entry := range issues.Entries {
			parts := []string{
				"issue_id: " + entry.IssueID,
				"name: " + entry.Name,
				"client_mac: " + entry.ClientMAC,
				"status: " + entry.Status,
				"priority: " + entry.Priority,
				"category: " + entry.Category,
				"last_occurence_time: " + entry.LastOccurrence,
			}
			fmt.Fprintln(writer, strings.Join(parts, "\n"))
		}
	}
}
