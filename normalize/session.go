// Package normalize converts the heterogeneous upstream payloads into the
// uniform record types used by the report. Missing or malformed fields always
// degrade to the null sentinel, never to an error.
package normalize

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"dev.lkm.one/crosscheck/common"
	"dev.lkm.one/crosscheck/failures"
	"dev.lkm.one/crosscheck/sources"
)

// All failure IDs are 5-6 digits at the start of the failure reason text.
var failureIDRegex = regexp.MustCompile(`^(\d{5,6})`)

const fallbackKeyChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// FallbackKeyLength - Length of randomly generated session keys. Longer than
// the 4 characters taken from a timestamp, so the two key classes can never
// collide with each other.
const FallbackKeyLength = 8

// Session - Normalize one auth status element into a session record plus its
// session key. Keys derive from the last 4 characters of the timestamp when
// one is present, otherwise a random fallback key is generated.
func Session(element sources.AuthStatusElement, store *failures.Store) (string, common.SessionRecord) {
	record := common.SessionRecord{
		Timestamp:            common.NullValue,
		AuthenticationMethod: orNull(element.AuthenticationMethod),
		PostureStatus:        orNull(element.PostureStatus),
		IdentityGroup:        orNull(element.IdentityGroup),
		AuthorizationPolicy:  common.NullValue,
		AuthenticationPolicy: common.NullValue,
		NACCompliance:        orNull(element.NACPolicyCompliance),
		Failures:             []common.FailureDetail{},
	}

	key := randomSessionKey()
	if element.ACSTimestamp != "" {
		// Keep the raw timestamp for the key, rewrite the T separator for display
		key = sessionKeyFromTimestamp(element.ACSTimestamp)
		record.Timestamp = strings.ReplaceAll(element.ACSTimestamp, "T", "  ")
	}

	if element.OtherAttributes != "" {
		attributes := ParseAttributes(element.OtherAttributes)
		record.AuthorizationPolicy = AttributeOrNull(attributes, AttrAuthorizationPolicy)
		record.AuthenticationPolicy = AttributeOrNull(attributes, AttrPolicySetName)
	}

	if element.Failed == "true" && element.FailureReason != "" {
		if failureID, found := ExtractFailureID(element.FailureReason); found {
			if detail, known := store.Lookup(failureID); known {
				record.Failures = append(record.Failures, detail)
			} else {
				log.WithFields(log.Fields{
					"failure_id": failureID,
				}).Trace("No failure catalog entry")
			}
		}
	}

	return key, record
}

// ExtractFailureID - Extract the leading 5-6 digit failure ID from a failure
// reason string. No leading digit run means no lookup attempt.
func ExtractFailureID(failureReason string) (int, bool) {
	match := failureIDRegex.FindStringSubmatch(failureReason)
	if match == nil {
		return 0, false
	}
	failureID, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return failureID, true
}

func sessionKeyFromTimestamp(timestamp string) string {
	if len(timestamp) <= 4 {
		return timestamp
	}
	return timestamp[len(timestamp)-4:]
}

func randomSessionKey() string {
	key := make([]byte, FallbackKeyLength)
	for i := range key {
		key[i] = fallbackKeyChars[rand.Intn(len(fallbackKeyChars))]
	}
	return string(key)
}

func orNull(value string) string {
	if value == "" {
		return common.NullValue
	}
	return value
}
