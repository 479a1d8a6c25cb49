// Package privacy provides helpers for reducing identifying data before it
// reaches logs. Raw client IPs are never logged; use AnonymizeIP and log the
// result under an ip_prefix key.
package privacy

import "net/netip"

// AnonymizeIP truncates an IP address to a network prefix suitable for
// logging. IPv4 addresses keep the first three octets, IPv6 addresses keep
// the first 48 bits. Unparseable input returns "invalid" so callers never
// log the raw value by accident.
func AnonymizeIP(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}

	if addr.Is4() || addr.Is4In6() {
		prefix, err := addr.Unmap().Prefix(24)
		if err != nil {
			return "invalid"
		}
		return prefix.String()
	}

	prefix, err := addr.Prefix(48)
	if err != nil {
		return "invalid"
	}
	return prefix.String()
}
