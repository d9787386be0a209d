package dns

import (
	"context"
	"testing"

	"github.com/ghettovoice/sipreg/sip"
)

func TestResolveService_IPLiteral(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
	}{
		{"IPv4", "203.0.113.5"},
		{"IPv6", "2001:db8::9:1"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			r := &Resolver{}
			addrs, err := r.ResolveService(context.Background(), c.in, sip.TransportUDP)
			if err != nil {
				t.Fatalf("ResolveService(%q) = %v", c.in, err)
			}
			if len(addrs) != 1 || !addrs[0].Equal(sip.Host(c.in)) {
				t.Errorf("ResolveService(%q) = %v, want [%v]", c.in, addrs, sip.Host(c.in))
			}
			if _, ok := addrs[0].Port(); ok {
				t.Error("IP literal result carries a port, want none")
			}
		})
	}
}

func TestNameserver(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		server string
		want   string
	}{
		{"host and port", "8.8.8.8:5353", "8.8.8.8:5353"},
		{"host only", "8.8.8.8", "8.8.8.8:53"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			r := &Resolver{NameServer: c.server}
			got, err := r.nameserver()
			if err != nil {
				t.Fatalf("nameserver() = %v", err)
			}
			if got != c.want {
				t.Errorf("nameserver() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestSRVService(t *testing.T) {
	t.Parallel()

	if svc, label := srvService(sip.TransportUDP); svc != "sip" || label != "udp" {
		t.Errorf("srvService(UDP) = (%q, %q), want (sip, udp)", svc, label)
	}
	if svc, label := srvService(sip.TransportTLS); svc != "sips" || label != "tcp" {
		t.Errorf("srvService(TLS) = (%q, %q), want (sips, tcp)", svc, label)
	}
	if got := naptrServiceTag(sip.TransportUDP); got != "SIP+D2U" {
		t.Errorf("naptrServiceTag(UDP) = %q, want SIP+D2U", got)
	}
	if got := naptrServiceTag(sip.TransportTLS); got != "SIPS+D2T" {
		t.Errorf("naptrServiceTag(TLS) = %q, want SIPS+D2T", got)
	}
}
