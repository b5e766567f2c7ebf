package normalize

import (
	"strings"

	"dev.lkm.one/crosscheck/common"
)

// Attribute labels extracted from the composite attribute blob.
const (
	AttrAuthorizationPolicy = "AuthorizationPolicyMatchedRule"
	AttrPolicySetName       = "ISEPolicySetName"
)

// ParseAttributes - Parse the session source's composite attribute blob into a
// label to value map. The blob is a sequence of label=value pairs separated by
// the literal "!:" delimiter run, e.g. "A=x:!:B=y". Pairs without a value are
// dropped.
func ParseAttributes(raw string) map[string]string {
	attributes := make(map[string]string)
	if raw == "" {
		return attributes
	}

	// The upstream mixes "=" and ":" as its pair separator depending on
	// version, normalize to one before splitting.
	raw = strings.ReplaceAll(raw, "=", ":")

	for _, pair := range strings.Split(raw, ":!:") {
		label, value, found := strings.Cut(pair, ":")
		if !found || label == "" {
			continue
		}
		attributes[label] = value
	}
	return attributes
}

// AttributeOrNull - Look up a label, returning the null sentinel when absent or empty.
func AttributeOrNull(attributes map[string]string, label string) string {
	if value, found := attributes[label]; found && value != "" {
		return value
	}
	return common.NullValue
}
