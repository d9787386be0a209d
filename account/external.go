package account

//go:generate mockgen -destination ../internal/testutil/regmock/mocks.go -package regmock . TransportHandle,TransportBroker,TLSListener,NameResolver,StunResolver,UpnpController,EventSink

import (
	"context"

	"github.com/ghettovoice/sipreg/nat/upnp"
	"github.com/ghettovoice/sipreg/sip"
)

// TransportStateInfo describes a transport liveness change delivered to
// state listeners.
type TransportStateInfo struct {
	Alive bool
	// Status carries the failure code when the transport is not alive,
	// or zero/200 while it is.
	Status sip.StatusCode
	Reason string
}

// TransportHandle is a live SIP transport obtained from a [TransportBroker].
// A handle is exclusively owned by one account at a time.
type TransportHandle interface {
	Proto() sip.TransportProto
	// Secure reports whether the transport encrypts traffic (TLS).
	Secure() bool
	Alive() bool
	LocalAddr() sip.Addr
	// Send hands the request over for transmission to dest. It returns once
	// the message is accepted by the transport; done is invoked exactly once
	// from a transport goroutine with the terminal response or an error.
	Send(req *sip.Request, dest sip.Addr, done func(*sip.Response, error)) error
	// AddStateListener registers fn to observe liveness changes under id.
	AddStateListener(id uint64, fn func(TransportStateInfo))
	RemoveStateListener(id uint64)
	Close() error
}

// TLSListener is an opaque handle of a TLS listening socket whose lifetime
// the account controls.
type TLSListener interface {
	Close() error
}

// TransportBroker hands out transports bound to local addresses.
type TransportBroker interface {
	UDPTransport(bind sip.Addr) (TransportHandle, error)
	TLSListener(bind sip.Addr, settings *TLSSettings) (TLSListener, error)
	TLSTransport(ls TLSListener, remote sip.Addr, serverName string) (TransportHandle, error)
}

// NameResolver resolves a registrar name into dialable addresses for a
// transport. An empty result is reported as an error.
// Satisfied by [github.com/ghettovoice/sipreg/dns.Resolver].
type NameResolver interface {
	ResolveService(ctx context.Context, name string, proto sip.TransportProto) ([]sip.Addr, error)
}

// StunResolver discovers the server-reflexive address of a local socket.
// Satisfied by [github.com/ghettovoice/sipreg/nat/stun.Resolver].
type StunResolver interface {
	ReflexiveAddr(ctx context.Context, local sip.Addr, server string, port uint16) (sip.Addr, error)
}

// UpnpController reserves and releases router port mappings.
// Satisfied by [upnp.Controller].
type UpnpController interface {
	ReserveMapping(ctx context.Context, protocol string, internalPort, externalHint uint16) (*upnp.Mapping, error)
	ReleaseMapping(ctx context.Context, m *upnp.Mapping) error
}

// EventSink receives account notifications. Implementations must not block:
// calls are fire-and-forget from account goroutines.
type EventSink interface {
	RegistrationStateChanged(state RegistrationState, code sip.StatusCode, detail string)
	VolatileDetailsChanged(details map[string]string)
	StunStatusFailed()
}

// NoopSink is an [EventSink] that drops all notifications.
type NoopSink struct{}

func (NoopSink) RegistrationStateChanged(RegistrationState, sip.StatusCode, string) {}

func (NoopSink) VolatileDetailsChanged(map[string]string) {}

func (NoopSink) StunStatusFailed() {}
