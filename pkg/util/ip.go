package util

import (
	"fmt"
	"net"
	"strings"
)

// ValidIPv4 reports whether s is a well-formed IPv4 address.
func ValidIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}

// NetmaskPrefixLen converts a dotted-quad netmask (e.g. 255.255.255.0)
// to its prefix length. Non-contiguous masks are rejected.
func NetmaskPrefixLen(netmask string) (int, error) {
	ip := net.ParseIP(netmask)
	if ip == nil || ip.To4() == nil {
		return 0, fmt.Errorf("invalid netmask: %s", netmask)
	}
	mask := net.IPMask(ip.To4())
	ones, bits := mask.Size()
	if bits != 32 || (ones == 0 && netmask != "0.0.0.0") {
		return 0, fmt.Errorf("non-contiguous netmask: %s", netmask)
	}
	return ones, nil
}

// ValidNetmask reports whether s is a contiguous IPv4 netmask.
func ValidNetmask(s string) bool {
	_, err := NetmaskPrefixLen(s)
	return err == nil
}

// FormatMACAddress normalizes a MAC address given with colons, dashes,
// dots, or no separators into the canonical XX:XX:XX:XX:XX:XX form.
// Returns an error if the input is not 12 hex digits.
func FormatMACAddress(mac string) (string, error) {
	r := strings.NewReplacer(":", "", "-", "", ".", "", " ", "")
	hex := strings.ToUpper(r.Replace(mac))
	if len(hex) != 12 {
		return "", fmt.Errorf("invalid MAC address: %s", mac)
	}
	for _, c := range hex {
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return "", fmt.Errorf("invalid MAC address: %s", mac)
		}
	}
	parts := make([]string, 6)
	for i := 0; i < 6; i++ {
		parts[i] = hex[i*2 : i*2+2]
	}
	return strings.Join(parts, ":"), nil
}
