package stun_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ghettovoice/sipreg/nat/stun"
	"github.com/ghettovoice/sipreg/sip"
)

func TestParseServer(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in       string
		wantHost string
		wantPort uint16
	}{
		{"stun.example.com", "stun.example.com", 3478},
		{"stun.example.com:19302", "stun.example.com", 19302},
		{"192.0.2.5", "192.0.2.5", 3478},
		{"[2001:db8::1]:3479", "2001:db8::1", 3479},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			t.Parallel()

			host, port := stun.ParseServer(c.in)
			if host != c.wantHost || port != c.wantPort {
				t.Errorf("ParseServer(%q) = (%q, %d), want (%q, %d)",
					c.in, host, port, c.wantHost, c.wantPort)
			}
		})
	}
}

func TestReflexiveAddr_NoServer(t *testing.T) {
	t.Parallel()

	var r stun.Resolver
	_, err := r.ReflexiveAddr(context.Background(), sip.Addr{}, "", 0)
	if !errors.Is(err, stun.ErrNoServer) {
		t.Errorf("ReflexiveAddr() = %v, want %v", err, stun.ErrNoServer)
	}
}
