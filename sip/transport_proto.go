package sip

import "github.com/ghettovoice/sipreg/internal/util"

// TransportProto is a SIP transport protocol name.
type TransportProto string

const (
	TransportUDP TransportProto = "UDP"
	TransportTCP TransportProto = "TCP"
	TransportTLS TransportProto = "TLS"
)

const (
	// DefaultPort is the default port for unencrypted SIP transports.
	DefaultPort uint16 = 5060
	// DefaultTLSPort is the default port for SIP over TLS.
	DefaultTLSPort uint16 = 5061
)

func (p TransportProto) ToUpper() TransportProto { return util.UCase(p) }

func (p TransportProto) ToLower() TransportProto { return util.LCase(p) }

// IsSecure reports whether the transport provides encryption.
func (p TransportProto) IsSecure() bool { return util.EqFold(p, TransportTLS) }

// DefaultPort returns the default port for the transport type.
func (p TransportProto) DefaultPort() uint16 {
	if p.IsSecure() {
		return DefaultTLSPort
	}
	return DefaultPort
}

func (p TransportProto) Equal(val any) bool {
	var other TransportProto
	switch v := val.(type) {
	case TransportProto:
		other = v
	case *TransportProto:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(p, other)
}
