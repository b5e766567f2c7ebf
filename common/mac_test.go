package common

import (
	"reflect"
	"testing"
)

func TestValidMAC(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"00:11:22:33:44:55", true},
		{"AA-BB-CC-DD-EE-FF", true},
		{"0011.2233.4455", true},
		{"jdoe", false},
		{"10.0.0.1", false},
		{"00:11:22:33:44", false},
		{"", false},
		// 64-bit addresses never come from these upstreams
		{"00:11:22:33:44:55:66:77", false},
	}
	for _, test := range tests {
		if got := ValidMAC(test.value); got != test.want {
			t.Errorf("ValidMAC(%q) = %v, want %v", test.value, got, test.want)
		}
	}
}

func TestFilterMACs(t *testing.T) {
	values := []string{
		"00:11:22:33:44:55",
		"host-1234",
		"66:77:88:99:AA:BB",
		"192.168.1.20",
		"00:11:22:33:44:55", // duplicate
	}
	want := []string{"00:11:22:33:44:55", "66:77:88:99:AA:BB"}

	got := FilterMACs(values)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterMACs = %v, want %v", got, want)
	}
}

func TestFilterMACsEmpty(t *testing.T) {
	if got := FilterMACs(nil); len(got) != 0 {
		t.Errorf("FilterMACs(nil) = %v, want empty", got)
	}
}
