package normalize

import (
	"fmt"
	"strconv"
	"time"

	"dev.lkm.one/crosscheck/common"
	"dev.lkm.one/crosscheck/sources"
)

// epochMillisToLocal - Convert an epoch-millisecond field to a local timestamp string.
func epochMillisToLocal(millis int64) string {
	return time.Unix(millis/1000, 0).Format("2006-01-02 15:04:05")
}

// Health - Normalize a client detail payload. Nil input (a degraded call)
// yields a record of null sentinels.
func Health(detail *sources.ClientDetail) common.HealthRecord {
	record := common.HealthRecord{
		ID:               common.NullValue,
		ConnectionStatus: common.NullValue,
		HostType:         common.NullValue,
		UserID:           common.NullValue,
		Identifier:       common.NullValue,
		HostName:         common.NullValue,
		HostOS:           common.NullValue,
		HostVersion:      common.NullValue,
		SubType:          common.NullValue,
		FirmwareVersion:  common.NullValue,
		DeviceVendor:     common.NullValue,
		LastUpdated:      common.NullValue,
		HealthScore:      []common.HealthScoreEntry{},
		HostMAC:          common.NullValue,
		HostIPv4:         common.NullValue,
		AuthType:         common.NullValue,
		SSID:             common.NullValue,
		Location:         common.NullValue,
		ClientConnection: common.NullValue,
		IssueCount:       common.NullValue,
		AuthDoneTime:     common.NullValue,
		OnboardingTime:   common.NullValue,
		ConnectionInfo:   common.NullValue,
	}
	if detail == nil {
		return record
	}

	body := detail.Detail
	record.ID = ptrOrNull(body.ID)
	record.ConnectionStatus = ptrOrNull(body.ConnectionStatus)
	record.HostType = ptrOrNull(body.HostType)
	record.UserID = ptrOrNull(body.UserID)
	record.Identifier = ptrOrNull(body.Identifier)
	record.HostName = ptrOrNull(body.HostName)
	record.HostOS = ptrOrNull(body.HostOS)
	record.HostVersion = ptrOrNull(body.HostVersion)
	record.SubType = ptrOrNull(body.SubType)
	record.FirmwareVersion = ptrOrNull(body.FirmwareVersion)
	record.DeviceVendor = ptrOrNull(body.DeviceVendor)
	record.HostMAC = ptrOrNull(body.HostMAC)
	record.HostIPv4 = ptrOrNull(body.HostIPv4)
	record.AuthType = ptrOrNull(body.AuthType)
	record.SSID = ptrOrNull(body.SSID)
	record.Location = ptrOrNull(body.Location)
	record.ClientConnection = ptrOrNull(body.ClientConnection)

	if body.LastUpdated != nil {
		record.LastUpdated = epochMillisToLocal(*body.LastUpdated)
	}
	if body.OnboardingTime != nil {
		record.OnboardingTime = epochMillisToLocal(*body.OnboardingTime)
	}
	if body.AuthDoneTime != nil {
		// Not a display timestamp upstream, kept as the raw value
		record.AuthDoneTime = strconv.FormatInt(*body.AuthDoneTime, 10)
	}
	if body.HealthScore != nil {
		record.HealthScore = body.HealthScore
	}
	if body.IssueCount != nil {
		// Comes back as a number or a string depending on upstream version
		record.IssueCount = strconv.Itoa(coerceCount(body.IssueCount))
	}
	if body.ConnectionInfo != nil {
		record.ConnectionInfo = body.ConnectionInfo
	}

	return record
}

// Issues - Normalize an issue listing payload. Nil input yields an empty record.
func Issues(response *sources.IssueResponse) common.IssueRecord {
	record := common.IssueRecord{
		Version: common.NullValue,
		Entries: []common.IssueEntry{},
	}
	if response == nil {
		return record
	}

	if response.Version != nil {
		record.Version = fmt.Sprintf("%v", response.Version)
	}
	record.TotalCount = coerceCount(response.TotalCount)

	for _, raw := range response.Response {
		entry := common.IssueEntry{
			IssueID:        ptrOrNull(raw.IssueID),
			Name:           ptrOrNull(raw.Name),
			ClientMAC:      ptrOrNull(raw.ClientMAC),
			Status:         ptrOrNull(raw.Status),
			Priority:       ptrOrNull(raw.Priority),
			Category:       ptrOrNull(raw.Category),
			LastOccurrence: common.NullValue,
		}
		if raw.LastOccurrenceTime != nil {
			entry.LastOccurrence = epochMillisToLocal(*raw.LastOccurrenceTime)
		}
		record.Entries = append(record.Entries, entry)
	}

	return record
}

func coerceCount(value interface{}) int {
	switch count := value.(type) {
	case float64:
		return int(count)
	case string:
		parsed, err := strconv.Atoi(count)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func ptrOrNull(value *string) string {
	if value == nil || *value == "" {
		return common.NullValue
	}
	return *value
}
