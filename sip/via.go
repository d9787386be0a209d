package sip

import (
	"fmt"
	"net/netip"
	"strconv"

	"github.com/ghettovoice/sipreg/internal/util"
)

// ViaHop represents a single hop in the Via header.
// Only the fields consumed by registration handling are modeled:
// the transport, the sent-by address and the hop parameters carrying
// the registrar-observed source address ("received") and port ("rport").
type ViaHop struct {
	Transport TransportProto
	Addr      Addr
	Params    Values
}

// String returns the string representation of the ViaHop.
func (hop ViaHop) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	fmt.Fprint(sb, "SIP/2.0/", hop.Transport, " ", hop.Addr)
	for k, vs := range hop.Params {
		for _, v := range vs {
			sb.WriteString(";")
			sb.WriteString(k)
			if v != "" {
				sb.WriteString("=")
				sb.WriteString(v)
			}
		}
	}
	return sb.String()
}

// IsZero checks whether the ViaHop is empty.
func (hop ViaHop) IsZero() bool {
	return hop.Transport == "" && hop.Addr.IsZero() && len(hop.Params) == 0
}

// Clone returns a copy of the ViaHop.
func (hop ViaHop) Clone() ViaHop {
	hop.Addr = hop.Addr.Clone()
	hop.Params = hop.Params.Clone()
	return hop
}

func (hop ViaHop) Branch() (string, bool) {
	return hop.Params.Last("branch")
}

var zeroAddr netip.Addr

// Received returns the address the registrar observed the request arrive from,
// when it reported one through the "received" parameter.
func (hop ViaHop) Received() (netip.Addr, bool) {
	val, ok := hop.Params.Last("received")
	if !ok {
		return zeroAddr, false
	}
	addr, err := netip.ParseAddr(val)
	if err != nil {
		return zeroAddr, false
	}
	return addr, true
}

// RPort returns the source port reported by the registrar through the "rport"
// parameter. A present but empty or zero rport means the peer advertised
// support without filling the value; that is reported as absent.
func (hop ViaHop) RPort() (uint16, bool) {
	val, ok := hop.Params.Last("rport")
	if !ok {
		return 0, false
	}
	port, err := strconv.ParseUint(val, 10, 16)
	if err != nil || port == 0 {
		return 0, false
	}
	return uint16(port), true
}

// GenerateBranch returns a new branch parameter value with the RFC 3261 magic cookie.
func GenerateBranch() string {
	return "z9hG4bK." + util.RandString(16)
}
