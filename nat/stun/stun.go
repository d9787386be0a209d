// Package stun discovers the externally visible address of a local
// socket through a STUN server (RFC 5389 binding requests).
package stun

import (
	"context"
	"net"
	"time"

	"braces.dev/errtrace"
	"github.com/pion/stun"

	"github.com/ghettovoice/sipreg/internal/errorutil"
	"github.com/ghettovoice/sipreg/sip"
)

const (
	// DefaultPort is the registered STUN server port.
	DefaultPort uint16 = 3478

	defTimeout = 5 * time.Second
)

const (
	ErrNoServer       errorutil.Error = "no STUN server configured"
	ErrNoMappedAddr   errorutil.Error = "no mapped address in STUN response"
	ErrQueryFailed    errorutil.Error = "STUN query failed"
	errInvalidMessage errorutil.Error = "invalid STUN message"
)

// Resolver queries STUN servers for the reflexive transport address.
type Resolver struct {
	// Timeout bounds a single query, 5s when zero.
	Timeout time.Duration
}

// ReflexiveAddr sends a binding request to server:port from the given local
// address and returns the server-reflexive address it reports.
// The local address may be zero to let the kernel pick a source.
func (r *Resolver) ReflexiveAddr(ctx context.Context, local sip.Addr, server string, port uint16) (sip.Addr, error) {
	if server == "" {
		return sip.Addr{}, errtrace.Wrap(ErrNoServer)
	}
	if port == 0 {
		port = DefaultPort
	}

	raddr, err := net.ResolveUDPAddr("udp", sip.HostPort(server, port).String())
	if err != nil {
		return sip.Addr{}, errtrace.Wrap(errorutil.NewWrapperError(ErrQueryFailed, err))
	}

	var laddr *net.UDPAddr
	if !local.IsZero() && local.IP() != nil {
		laddr = &net.UDPAddr{IP: local.IP(), Port: int(local.PortOr(0))}
	}

	conn, err := net.DialUDP("udp", laddr, raddr)
	if err != nil {
		return sip.Addr{}, errtrace.Wrap(errorutil.NewWrapperError(ErrQueryFailed, err))
	}
	defer conn.Close()

	deadline := time.Now().Add(r.timeout())
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetDeadline(deadline) //nolint:errcheck

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	msg, err := stun.Build(stun.TransactionID, stun.BindingRequest)
	if err != nil {
		return sip.Addr{}, errtrace.Wrap(errorutil.NewWrapperError(ErrQueryFailed, err))
	}
	if _, err := msg.WriteTo(conn); err != nil {
		return sip.Addr{}, errtrace.Wrap(errorutil.NewWrapperError(ErrQueryFailed, err))
	}

	buf := make([]byte, 1500)
	n, err := conn.Read(buf)
	if err != nil {
		if ctx.Err() != nil {
			return sip.Addr{}, errtrace.Wrap(ctx.Err())
		}
		return sip.Addr{}, errtrace.Wrap(errorutil.NewWrapperError(ErrQueryFailed, err))
	}

	res := new(stun.Message)
	res.Raw = buf[:n]
	if err := res.Decode(); err != nil {
		return sip.Addr{}, errtrace.Wrap(errorutil.NewWrapperError(errInvalidMessage, err))
	}

	var xorAddr stun.XORMappedAddress
	if err := xorAddr.GetFrom(res); err == nil {
		return sip.HostPort(xorAddr.IP.String(), uint16(xorAddr.Port)), nil
	}

	// Classic STUN servers only fill MAPPED-ADDRESS.
	var mapped stun.MappedAddress
	if err := mapped.GetFrom(res); err != nil {
		return sip.Addr{}, errtrace.Wrap(errorutil.NewWrapperError(ErrNoMappedAddr, err))
	}
	return sip.HostPort(mapped.IP.String(), uint16(mapped.Port)), nil
}

func (r *Resolver) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return defTimeout
}

// ParseServer splits a "host[:port]" STUN server spec, applying the
// default port when none is given.
func ParseServer(s string) (host string, port uint16) {
	addr, err := sip.ParseAddr(s)
	if err != nil {
		return s, DefaultPort
	}
	return addr.Host(), addr.PortOr(DefaultPort)
}
