package sensors

import (
	"context"
	"strings"
)

// readNetwork resolves the outbound route with `ip route get` and formats
// the egress interface and source IP. Interface name prefix picks the icon:
// wl* wireless, en*/eth* wired, anything else with an IP a generic link.
func (r *Reader) readNetwork(ctx context.Context) (Reading, error) {
	out, err := r.probeOutput(ctx, Network, "ip", "route", "get", r.routeTarget)
	if err != nil {
		return Reading{}, err
	}

	iface, src := parseRoute(out)

	var text string
	switch {
	case src != "" && strings.HasPrefix(iface, "wl"):
		text = r.icons.Wireless + " " + src
	case src != "" && wiredInterface(iface):
		text = r.icons.Wired + " " + src
	case src != "":
		text = r.icons.Link + " " + src
	default:
		// Route resolved but no source address reported.
		text = r.icons.Wired + " Connected"
	}

	return Reading{Kind: Network, Text: text}, nil
}

// wiredInterface reports whether iface looks like an ethernet device. Both
// the predictable en* names and the classic eth* names count.
func wiredInterface(iface string) bool {
	return strings.HasPrefix(iface, "en") || strings.HasPrefix(iface, "eth")
}

// parseRoute extracts the egress interface ("dev X") and source address
// ("src Y") from `ip route get` output. Missing tokens yield empty strings.
func parseRoute(out string) (iface, src string) {
	fields := strings.Fields(out)
	for i, f := range fields {
		switch f {
		case "dev":
			if i+1 < len(fields) {
				iface = fields[i+1]
			}
		case "src":
			if i+1 < len(fields) {
				src = fields[i+1]
			}
		}
	}
	return iface, src
}
