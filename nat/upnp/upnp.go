// Package upnp reserves router port mappings through UPnP IGD
// (WANIPConnection v1/v2) so a SIP account behind a home NAT can
// advertise a reachable contact address.
package upnp

import (
	"context"
	"net"
	"net/url"
	"sync"
	"time"

	"braces.dev/errtrace"
	"github.com/huin/goupnp/dcps/internetgateway1"
	"github.com/huin/goupnp/dcps/internetgateway2"

	"github.com/ghettovoice/sipreg/internal/errorutil"
	"github.com/ghettovoice/sipreg/sip"
)

const (
	ErrNoGateway     errorutil.Error = "no UPnP gateway found"
	ErrMappingFailed errorutil.Error = "port mapping failed"
)

// MappingState reports the progress of a reserved mapping.
type MappingState int

const (
	// MappingFailed means the mapping could not be established.
	MappingFailed MappingState = iota
	// MappingInProgress means the gateway accepted the request but the
	// mapping is not confirmed open yet.
	MappingInProgress
	// MappingOpen means the mapping is confirmed on the gateway.
	MappingOpen
)

func (s MappingState) String() string {
	switch s {
	case MappingOpen:
		return "open"
	case MappingInProgress:
		return "in-progress"
	default:
		return "failed"
	}
}

// Mapping describes a port mapping reserved on the gateway.
type Mapping struct {
	Protocol     string
	InternalPort uint16
	ExternalPort uint16
	ExternalIP   net.IP
	State        MappingState
}

// igdClient is the subset of the WANIPConnection service used here,
// satisfied by both the v1 and v2 generated clients.
type igdClient interface {
	GetExternalIPAddressCtx(ctx context.Context) (string, error)
	AddPortMappingCtx(ctx context.Context, remoteHost string, externalPort uint16, protocol string,
		internalPort uint16, internalClient string, enabled bool, description string, leaseDuration uint32) error
	DeletePortMappingCtx(ctx context.Context, remoteHost string, externalPort uint16, protocol string) error
}

// Controller discovers an IGD on the local network and manages mappings on it.
// The zero value is ready to use; discovery runs lazily on first reservation.
type Controller struct {
	// Description labels mappings on the gateway.
	Description string
	// LeaseDuration bounds a mapping's lifetime on the gateway,
	// one hour when zero.
	LeaseDuration time.Duration

	mu       sync.Mutex
	client   igdClient
	localIP  net.IP
	location *url.URL
}

// Discover locates an internet gateway device, preferring WANIPConnection2.
func (c *Controller) Discover(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return nil
	}

	if clients, _, err := internetgateway2.NewWANIPConnection2ClientsCtx(ctx); err == nil && len(clients) > 0 {
		c.client = clients[0]
		c.location = clients[0].Location
		return errtrace.Wrap(c.resolveLocalIP())
	}
	if clients, _, err := internetgateway1.NewWANIPConnection1ClientsCtx(ctx); err == nil && len(clients) > 0 {
		c.client = clients[0]
		c.location = clients[0].Location
		return errtrace.Wrap(c.resolveLocalIP())
	}
	return errtrace.Wrap(ErrNoGateway)
}

// resolveLocalIP learns which local interface routes to the gateway.
// Called with c.mu held.
func (c *Controller) resolveLocalIP() error {
	if c.location == nil {
		return errtrace.Wrap(ErrNoGateway)
	}
	conn, err := net.Dial("udp", net.JoinHostPort(c.location.Hostname(), "1900"))
	if err != nil {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrNoGateway, err))
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		c.localIP = addr.IP
	}
	return nil
}

// ExternalIP returns the gateway's external address.
func (c *Controller) ExternalIP(ctx context.Context) (sip.Addr, error) {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return sip.Addr{}, errtrace.Wrap(ErrNoGateway)
	}

	s, err := client.GetExternalIPAddressCtx(ctx)
	if err != nil {
		return sip.Addr{}, errtrace.Wrap(err)
	}
	return sip.Host(s), nil
}

// ReserveMapping maps internalPort on this host to an external port on the
// gateway, trying externalHint first and scanning forward on conflicts.
// The returned mapping is in [MappingOpen] state on success.
func (c *Controller) ReserveMapping(ctx context.Context, protocol string, internalPort, externalHint uint16) (*Mapping, error) {
	if err := c.Discover(ctx); err != nil {
		return &Mapping{Protocol: protocol, InternalPort: internalPort, State: MappingFailed}, errtrace.Wrap(err)
	}

	c.mu.Lock()
	client := c.client
	localIP := c.localIP
	c.mu.Unlock()

	if externalHint == 0 {
		externalHint = internalPort
	}

	lease := uint32(time.Hour / time.Second)
	if c.LeaseDuration > 0 {
		lease = uint32(c.LeaseDuration / time.Second)
	}
	desc := c.Description
	if desc == "" {
		desc = "sipreg"
	}

	var lastErr error
	for port, n := externalHint, 0; n < 20; port, n = port+1, n+1 {
		err := client.AddPortMappingCtx(ctx, "", port, protocol, internalPort, localIP.String(), true, desc, lease)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		m := &Mapping{
			Protocol:     protocol,
			InternalPort: internalPort,
			ExternalPort: port,
			State:        MappingOpen,
		}
		if ext, err := client.GetExternalIPAddressCtx(ctx); err == nil {
			m.ExternalIP = net.ParseIP(ext)
		}
		return m, nil
	}

	return &Mapping{Protocol: protocol, InternalPort: internalPort, State: MappingFailed},
		errtrace.Wrap(errorutil.NewWrapperError(ErrMappingFailed, lastErr))
}

// ReleaseMapping removes a previously reserved mapping from the gateway.
func (c *Controller) ReleaseMapping(ctx context.Context, m *Mapping) error {
	if m == nil || m.State != MappingOpen {
		return nil
	}

	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return errtrace.Wrap(ErrNoGateway)
	}

	m.State = MappingFailed
	return errtrace.Wrap(client.DeletePortMappingCtx(ctx, "", m.ExternalPort, m.Protocol))
}
