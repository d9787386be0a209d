// Package dns resolves registrar names to transport addresses.
// Besides plain A/AAAA lookups it follows the RFC 3263 chain
// NAPTR -> SRV -> address records, so a registrar hostname yields
// ready-to-dial host:port pairs for the selected transport.
package dns

import (
	"cmp"
	"context"
	"net"
	"slices"
	"time"

	"braces.dev/errtrace"
	"github.com/miekg/dns"

	"github.com/ghettovoice/sipreg/sip"
)

// Resolver wraps net.Resolver with the DNS lookups used for SIP
// registrar resolution.
type Resolver struct {
	net.Resolver

	// NameServer specifies the DNS server address (e.g., "8.8.8.8:53").
	// If empty, the system's default resolver configuration is used.
	NameServer string
	// Timeout specifies the timeout for DNS queries.
	// If zero, defaults to 5 seconds.
	Timeout time.Duration
}

func (r *Resolver) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	ips, err := r.Resolver.LookupIP(ctx, network, host)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	for i, ip := range ips {
		if ip4 := ip.To4(); ip4 != nil {
			ips[i] = ip4
		}
	}
	return ips, nil
}

type SRV = net.SRV

func (r *Resolver) LookupSRV(ctx context.Context, service, proto, host string) ([]*SRV, error) {
	_, srvs, err := r.Resolver.LookupSRV(ctx, service, proto, host)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return srvs, nil
}

// NAPTR represents a NAPTR DNS record as defined in RFC 3403.
// NAPTR records are used in SIP (RFC 3263) for discovering transport
// protocols and services of a domain.
type NAPTR struct {
	// Order specifies the order in which NAPTR records must be processed.
	// Lower values are processed first.
	Order uint16
	// Preference specifies the preference for records with equal Order values.
	// Lower values are preferred.
	Preference uint16
	// Flags control aspects of the rewriting and interpretation of fields.
	// Common flags: "s" (SRV lookup), "a" (A/AAAA lookup), "u" (terminal URI).
	Flags string
	// Service specifies the service and protocol available.
	// For SIP: "SIP+D2U" (UDP), "SIP+D2T" (TCP), "SIPS+D2T" (TLS).
	Service string
	// Regexp is a substitution expression applied to the original string.
	Regexp string
	// Replacement is the next domain name to query.
	Replacement string
}

// LookupNAPTR queries NAPTR records for the given host.
// Returns records sorted by Order (ascending), then by Preference (ascending).
func (r *Resolver) LookupNAPTR(ctx context.Context, host string) ([]*NAPTR, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), dns.TypeNAPTR)
	m.RecursionDesired = true

	nameserver, err := r.nameserver()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	client := &dns.Client{Timeout: r.timeout()}
	resp, _, err := client.ExchangeContext(ctx, m, nameserver)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	if resp.Rcode != dns.RcodeSuccess {
		return nil, errtrace.Wrap(&net.DNSError{
			Err:        dns.RcodeToString[resp.Rcode],
			Name:       host,
			IsNotFound: resp.Rcode == dns.RcodeNameError,
		})
	}

	recs := make([]*NAPTR, 0, len(resp.Answer))
	for _, ans := range resp.Answer {
		if rr, ok := ans.(*dns.NAPTR); ok {
			recs = append(recs, &NAPTR{
				Order:       rr.Order,
				Preference:  rr.Preference,
				Flags:       rr.Flags,
				Service:     rr.Service,
				Regexp:      rr.Regexp,
				Replacement: rr.Replacement,
			})
		}
	}

	// Sort by Order, then by Preference (RFC 3403)
	slices.SortFunc(recs, func(a, b *NAPTR) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.Preference, b.Preference)
	})

	return recs, nil
}

func (r *Resolver) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return 5 * time.Second
}

func (r *Resolver) nameserver() (string, error) {
	if r.NameServer != "" {
		if _, _, err := net.SplitHostPort(r.NameServer); err != nil {
			return net.JoinHostPort(r.NameServer, "53"), nil //nolint:nilerr
		}
		return r.NameServer, nil
	}

	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	if len(conf.Servers) == 0 {
		return "", errtrace.Wrap(&net.DNSError{
			Err:  "no DNS servers configured",
			Name: "resolv.conf",
		})
	}

	return net.JoinHostPort(conf.Servers[0], conf.Port), nil
}

var defResolver = &Resolver{}

func DefaultResolver() *Resolver { return defResolver }

// ResolveService resolves a registrar name into dialable addresses for the
// given transport, following NAPTR and SRV indirections when the domain
// publishes them and falling back to plain address records otherwise.
// Addresses resolved through SRV carry the SRV port; plain address records
// are returned without a port so the caller applies the transport default.
// An empty result without an error does not happen: failure to find any
// address is reported as an error.
func (r *Resolver) ResolveService(ctx context.Context, name string, proto sip.TransportProto) ([]sip.Addr, error) {
	// An IP literal needs no resolution.
	if ip := net.ParseIP(name); ip != nil {
		return []sip.Addr{sip.Host(name)}, nil
	}

	if srvName, ok := r.naptrService(ctx, name, proto); ok {
		if addrs, err := r.resolveSRV(ctx, srvName); err == nil && len(addrs) > 0 {
			return addrs, nil
		}
	}

	// Direct SRV per RFC 3263 section 4.2.
	service, protoLabel := srvService(proto)
	if addrs, err := r.resolveSRV(ctx, "_"+service+"._"+protoLabel+"."+name); err == nil && len(addrs) > 0 {
		return addrs, nil
	}

	ips, err := r.LookupIP(ctx, "ip", name)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	addrs := make([]sip.Addr, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, sip.Host(ip.String()))
	}
	if len(addrs) == 0 {
		return nil, errtrace.Wrap(&net.DNSError{
			Err:        "no addresses found",
			Name:       name,
			IsNotFound: true,
		})
	}
	return addrs, nil
}

// naptrService finds the NAPTR replacement target matching the transport.
func (r *Resolver) naptrService(ctx context.Context, name string, proto sip.TransportProto) (string, bool) {
	recs, err := r.LookupNAPTR(ctx, name)
	if err != nil {
		return "", false
	}
	want := naptrServiceTag(proto)
	for _, rec := range recs {
		if rec.Flags == "s" && rec.Service == want && rec.Replacement != "" {
			return rec.Replacement, true
		}
	}
	return "", false
}

// resolveSRV resolves the SRV record name to addresses carrying the SRV port.
func (r *Resolver) resolveSRV(ctx context.Context, name string) ([]sip.Addr, error) {
	_, srvs, err := r.Resolver.LookupSRV(ctx, "", "", name)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	var addrs []sip.Addr
	for _, srv := range srvs {
		ips, err := r.LookupIP(ctx, "ip", srv.Target)
		if err != nil {
			continue
		}
		for _, ip := range ips {
			addrs = append(addrs, sip.HostPort(ip.String(), srv.Port))
		}
	}
	return addrs, nil
}

func srvService(proto sip.TransportProto) (service, label string) {
	if proto.IsSecure() {
		return "sips", "tcp"
	}
	return "sip", "udp"
}

func naptrServiceTag(proto sip.TransportProto) string {
	if proto.IsSecure() {
		return "SIPS+D2T"
	}
	return "SIP+D2U"
}
