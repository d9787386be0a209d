package sip_test

import (
	"net"
	"testing"

	"github.com/ghettovoice/sipreg/sip"
)

func TestHost(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		host string
	}{
		{"empty", ""},
		{"domain", "ExAmplE.COM"},
		{"IPv4", "192.168.0.1"},
		{"IPv6", "2001:db8::9:1"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			addr := sip.Host(c.host)
			if got, want := addr.Host(), c.host; got != want {
				t.Errorf("addr.Host() = %q, want %q", got, want)
			}
			if want := net.ParseIP(c.host); want != nil {
				if got := addr.IP(); !got.Equal(want) {
					t.Errorf("addr.IP() = %v, want %v", got, want)
				}
			}
			if got, ok := addr.Port(); ok {
				t.Errorf("addr.Port() = (%v, %v), want (0, false)", got, ok)
			}
		})
	}
}

func TestParseAddr(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    sip.Addr
		wantErr bool
	}{
		{"empty", "", sip.Addr{}, true},
		{"domain", "example.com", sip.Host("example.com"), false},
		{"domain with port", "example.com:5060", sip.HostPort("example.com", 5060), false},
		{"IPv4", "192.168.0.1", sip.Host("192.168.0.1"), false},
		{"IPv4 with port", "192.168.0.1:5060", sip.HostPort("192.168.0.1", 5060), false},
		{"IPv6 with port", "[2001:db8::9:1]:5060", sip.HostPort("2001:db8::9:1", 5060), false},
		{"port overflow", "example.com:99999", sip.Addr{}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := sip.ParseAddr(c.in)
			if c.wantErr {
				if err == nil {
					t.Fatalf("ParseAddr(%q) = %v, want error", c.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAddr(%q) = %v", c.in, err)
			}
			if !got.Equal(c.want) {
				t.Errorf("ParseAddr(%q) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestAddr_String(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		addr sip.Addr
		want string
	}{
		{"zero", sip.Addr{}, ""},
		{"domain", sip.Host("example.com"), "example.com"},
		{"domain with port", sip.HostPort("example.com", 5060), "example.com:5060"},
		{"IPv4 with port", sip.HostPort("192.168.0.1", 5060), "192.168.0.1:5060"},
		{"IPv6", sip.Host("2001:db8::9:1"), "[2001:db8::9:1]"},
		{"IPv6 with port", sip.HostPort("2001:db8::9:1", 5060), "[2001:db8::9:1]:5060"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := c.addr.String(), c.want; got != want {
				t.Errorf("addr.String() = %q, want %q", got, want)
			}
		})
	}
}

func TestAddr_Equal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		addr sip.Addr
		val  any
		want bool
	}{
		{"nil", sip.Addr{}, nil, false},
		{"both zero", sip.Addr{}, sip.Addr{}, true},
		{"nil pointer", sip.Addr{}, (*sip.Addr)(nil), false},
		{"port presence", sip.HostPort("example.com", 0), sip.Host("example.com"), false},
		{"domain case", sip.HostPort("example.com", 5060), sip.HostPort("EXAMPLE.COM", 5060), true},
		{"IPv4", sip.HostPort("192.0.2.128", 5060), sip.HostPort("192.0.2.128", 5060), true},
		{"IPv4-mapped IPv6", sip.HostPort("192.0.2.128", 5060), sip.HostPort("::ffff:192.0.2.128", 5060), true},
		{"IPv6 hex case", sip.HostPort("2001:db8::9:1", 5060), sip.HostPort("2001:db8::9:01", 5060), true},
		{"name vs IP", sip.HostPort("localhost", 5060), sip.HostPort("127.0.0.1", 5060), false},
		{"different port", sip.HostPort("192.0.2.128", 5060), sip.HostPort("192.0.2.128", 5062), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := c.addr.Equal(c.val), c.want; got != want {
				t.Errorf("addr.Equal(val) = %v, want %v", got, want)
			}
		})
	}
}

func TestAddr_IsPrivate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		addr sip.Addr
		want bool
	}{
		{"RFC1918 10/8", sip.Host("10.0.0.4"), true},
		{"RFC1918 192.168/16", sip.Host("192.168.1.10"), true},
		{"loopback", sip.Host("127.0.0.1"), true},
		{"link-local", sip.Host("169.254.1.1"), true},
		{"public", sip.Host("203.0.113.5"), false},
		{"ULA IPv6", sip.Host("fd00::1"), true},
		{"hostname", sip.Host("example.com"), false},
		{"zero", sip.Addr{}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := c.addr.IsPrivate(), c.want; got != want {
				t.Errorf("addr.IsPrivate() = %v, want %v", got, want)
			}
		})
	}
}

func TestAddr_PortOr(t *testing.T) {
	t.Parallel()

	if got := sip.Host("example.com").PortOr(5060); got != 5060 {
		t.Errorf("PortOr(5060) = %d, want default 5060", got)
	}
	if got := sip.HostPort("example.com", 5080).PortOr(5060); got != 5080 {
		t.Errorf("PortOr(5060) = %d, want set 5080", got)
	}
}

func TestAddr_TextRoundTrip(t *testing.T) {
	t.Parallel()

	want := sip.HostPort("2001:db8::9:1", 5061)
	text, err := want.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() = %v", err)
	}

	var got sip.Addr
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText(%q) = %v", text, err)
	}
	if !got.Equal(want) {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}
