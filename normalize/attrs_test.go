package normalize

import (
	"testing"

	"dev.lkm.one/crosscheck/common"
)

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{
			"equals separated pairs",
			"A=1:!:B=2",
			map[string]string{"A": "1", "B": "2"},
		},
		{
			"colon separated pairs",
			"A:1:!:B:2",
			map[string]string{"A": "1", "B": "2"},
		},
		{
			"value containing colons kept whole",
			"Rule=Allow:Corp:!:Set=Wired",
			map[string]string{"Rule": "Allow:Corp", "Set": "Wired"},
		},
		{
			"pair without value dropped",
			"A=1:!:Broken",
			map[string]string{"A": "1"},
		},
		{
			"empty blob",
			"",
			map[string]string{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ParseAttributes(test.raw)
			if len(got) != len(test.want) {
				t.Fatalf("ParseAttributes(%q) = %v, want %v", test.raw, got, test.want)
			}
			for label, value := range test.want {
				if got[label] != value {
					t.Errorf("attribute %q = %q, want %q", label, got[label], value)
				}
			}
		})
	}
}

func TestAttributeOrNull(t *testing.T) {
	attributes := map[string]string{"Present": "value", "Empty": ""}

	if got := AttributeOrNull(attributes, "Present"); got != "value" {
		t.Errorf("present label = %q, want value", got)
	}
	if got := AttributeOrNull(attributes, "Empty"); got != common.NullValue {
		t.Errorf("empty label = %q, want null sentinel", got)
	}
	if got := AttributeOrNull(attributes, "Missing"); got != common.NullValue {
		t.Errorf("missing label = %q, want null sentinel", got)
	}
}
