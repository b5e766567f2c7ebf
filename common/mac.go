package common

import (
	"net"

	log "github.com/sirupsen/logrus"
)

// ValidMAC - Report whether a calling-station-id value is a 48-bit hardware address.
// The session source does not guarantee the field holds a MAC at all.
func ValidMAC(value string) bool {
	hardwareAddress, err := net.ParseMAC(value)
	if err != nil {
		return false
	}
	return len(hardwareAddress) == 6
}

// FilterMACs - Keep only valid MAC addresses, preserving order and dropping duplicates.
func FilterMACs(values []string) []string {
	macs := make([]string, 0, len(values))
	seen := make(map[string]bool)
	for _, value := range values {
		if !ValidMAC(value) {
			log.WithFields(log.Fields{
				"calling_station_id": value,
			}).Trace("Dropping non-MAC calling station ID")
			continue
		}
		if seen[value] {
			continue
		}
		seen[value] = true
		macs = append(macs, value)
	}
	return macs
}
