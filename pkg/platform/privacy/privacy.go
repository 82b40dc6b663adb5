// Package privacy holds helpers that keep personal data out of logs.
package privacy

import (
	"net/netip"
	"strings"
)

// AnonymizeIP truncates an IP address so logs never carry a full caller
// address. IPv4 keeps the first two octets, IPv6 keeps the first two groups.
// Non-IP identifiers (e.g. the "unknown" fallback) pass through unchanged.
func AnonymizeIP(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ip
	}

	if addr.Is4() {
		parts := strings.Split(addr.String(), ".")
		return parts[0] + "." + parts[1] + ".x.x"
	}

	groups := strings.Split(addr.StringExpanded(), ":")
	return groups[0] + ":" + groups[1] + "::x"
}
