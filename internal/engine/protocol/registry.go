package protocol

import (
	"FlowTagger/internal/errors"
	"sort"
	"strconv"
	"strings"

	"github.com/google/gopacket/layers"
)

// IPProtocolL2TP is L2TPv3 over IP; gopacket has no constant for it.
const IPProtocolL2TP layers.IPProtocol = 115

// protocolNames maps the supported IANA protocol numbers to their canonical names.
var protocolNames = map[layers.IPProtocol]string{
	layers.IPProtocolICMPv4: "ICMP",
	layers.IPProtocolTCP:    "TCP",
	layers.IPProtocolUDP:    "UDP",
	layers.IPProtocolIPv6:   "IPv6",
	layers.IPProtocolESP:    "ESP",
	layers.IPProtocolAH:     "AH",
	layers.IPProtocolICMPv6: "ICMPv6",
	IPProtocolL2TP:          "L2TP",
}

// Registry resolves protocol numbers as they appear in flow logs to canonical names.
// The zero value is ready to use and safe for concurrent reads.
type Registry struct{}

// DefaultRegistry is the fixed registry used by classifiers.
var DefaultRegistry = Registry{}

// Resolve returns the canonical name for a protocol number given as text, e.g. "6" -> "TCP".
func (r Registry) Resolve(number string) (string, error) {
	raw := strings.TrimSpace(number)
	n, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return "", errors.Attr(
			errors.Errorf(errors.KindUnknownProtocol, "unknown protocol %q: not a protocol number", raw),
			"protocol", raw)
	}
	return r.ResolveNumber(layers.IPProtocol(n))
}

// ResolveNumber returns the canonical name for a typed protocol number.
func (Registry) ResolveNumber(p layers.IPProtocol) (string, error) {
	if name, ok := protocolNames[p]; ok {
		return name, nil
	}
	return "", errors.Attr(
		errors.Errorf(errors.KindUnknownProtocol, "unknown protocol \"%d\"", uint8(p)),
		"protocol", strconv.Itoa(int(p)))
}

// Names returns the registered protocol names ordered by protocol number.
func (Registry) Names() []string {
	numbers := make([]int, 0, len(protocolNames))
	for p := range protocolNames {
		numbers = append(numbers, int(p))
	}
	sort.Ints(numbers)
	names := make([]string, len(numbers))
	for i, n := range numbers {
		names[i] = protocolNames[layers.IPProtocol(n)]
	}
	return names
}
