package account

import (
	"strconv"
	"strings"
	"testing"

	"github.com/ghettovoice/sipreg/internal/log"
	"github.com/ghettovoice/sipreg/sip"
)

func natTestAccount(contactHost string, contactPort uint16) *Account {
	acc := &Account{
		log: log.Noop,
		cfg: Config{
			Username:             "alice",
			Hostname:             "example.com",
			PublishedSameAsLocal: true,
			AllowIPAutoRewrite:   true,
		},
	}
	addr := sip.HostPort(contactHost, contactPort)
	acc.contact.set(addr, sip.FormatContact(sip.ContactSpec{User: "alice", Addr: addr}))
	return acc
}

func observedResponse(received string, rport uint16) *sip.Response {
	params := sip.Values{}
	if received != "" {
		params.Set("received", received)
	}
	if rport != 0 {
		params.Set("rport", strconv.Itoa(int(rport)))
	}
	return &sip.Response{
		Status: sip.StatusOK,
		Via: sip.ViaHop{
			Transport: sip.TransportUDP,
			Addr:      sip.HostPort("192.168.1.10", 5060),
			Params:    params,
		},
		Source: sip.Host("198.51.100.7"),
	}
}

func TestCheckNATAddress_ExactMatchUnchanged(t *testing.T) {
	t.Parallel()

	acc := natTestAccount("203.0.113.5", 5060)
	res := observedResponse("203.0.113.5", 5060)

	if acc.checkNATAddressLocked(res) {
		t.Error("checkNATAddressLocked() = true for matching contact, want false")
	}
	if got := acc.contact.address(); !got.Equal(sip.HostPort("203.0.113.5", 5060)) {
		t.Errorf("contact = %v, want untouched 203.0.113.5:5060", got)
	}
}

func TestCheckNATAddress_PublicDivergenceRewrites(t *testing.T) {
	t.Parallel()

	acc := natTestAccount("203.0.113.5", 5060)
	res := observedResponse("203.0.113.9", 5062)

	if !acc.checkNATAddressLocked(res) {
		t.Fatal("checkNATAddressLocked() = false, want rewrite")
	}
	if got, want := acc.contact.address(), sip.HostPort("203.0.113.9", 5062); !got.Equal(want) {
		t.Errorf("contact = %v, want %v", got, want)
	}
	if got := acc.contact.headerValue(); !strings.Contains(got, "203.0.113.9:5062") {
		t.Errorf("contact header = %q, missing observed address", got)
	}
}

func TestCheckNATAddress_Idempotent(t *testing.T) {
	t.Parallel()

	acc := natTestAccount("203.0.113.5", 5060)
	res := observedResponse("203.0.113.9", 5062)

	if !acc.checkNATAddressLocked(res) {
		t.Fatal("first call: checkNATAddressLocked() = false, want rewrite")
	}
	if acc.checkNATAddressLocked(res) {
		t.Error("second call with identical input rewrote again, want unchanged")
	}
}

func TestCheckNATAddress_PrivateObservedSuppressed(t *testing.T) {
	t.Parallel()

	// Public contact, public registrar source, but the via reports a private
	// address: a mangling middlebox, not a real rebinding.
	acc := natTestAccount("203.0.113.5", 5060)
	res := observedResponse("10.0.0.4", 5062)

	if acc.checkNATAddressLocked(res) {
		t.Error("checkNATAddressLocked() = true for private observed address, want suppressed")
	}
	if got := acc.contact.address(); !got.Equal(sip.HostPort("203.0.113.5", 5060)) {
		t.Errorf("contact = %v, want untouched", got)
	}
}

func TestCheckNATAddress_PortOnlyPrivateSuppressed(t *testing.T) {
	t.Parallel()

	acc := natTestAccount("10.0.0.4", 5060)
	res := observedResponse("10.0.0.4", 5062)
	res.Source = sip.Host("10.0.0.1")

	if acc.checkNATAddressLocked(res) {
		t.Error("checkNATAddressLocked() = true for port-only private divergence, want suppressed")
	}
}

func TestCheckNATAddress_PrivateToPrivateRewrites(t *testing.T) {
	t.Parallel()

	acc := natTestAccount("10.0.0.4", 5060)
	res := observedResponse("10.0.0.9", 5060)
	res.Source = sip.Host("10.0.0.1")

	if !acc.checkNATAddressLocked(res) {
		t.Fatal("checkNATAddressLocked() = false for private host change, want rewrite")
	}
	if got, want := acc.contact.address(), sip.HostPort("10.0.0.9", 5060); !got.Equal(want) {
		t.Errorf("contact = %v, want %v", got, want)
	}
}

func TestCheckNATAddress_SentByFallback(t *testing.T) {
	t.Parallel()

	// No received/rport parameters: the sent-by host and port are observed.
	acc := natTestAccount("203.0.113.5", 5060)
	res := &sip.Response{
		Status: sip.StatusOK,
		Via: sip.ViaHop{
			Transport: sip.TransportUDP,
			Addr:      sip.HostPort("203.0.113.9", 5070),
			Params:    sip.Values{},
		},
		Source: sip.Host("198.51.100.7"),
	}

	if !acc.checkNATAddressLocked(res) {
		t.Fatal("checkNATAddressLocked() = false, want rewrite from sent-by")
	}
	if got, want := acc.contact.address(), sip.HostPort("203.0.113.9", 5070); !got.Equal(want) {
		t.Errorf("contact = %v, want %v", got, want)
	}
}

func TestCheckNATAddress_RecordsViaOverride(t *testing.T) {
	t.Parallel()

	acc := natTestAccount("203.0.113.5", 5060)
	res := observedResponse("203.0.113.9", 5062)

	acc.checkNATAddressLocked(res)

	if got, want := acc.viaAddr, sip.HostPort("203.0.113.9", 5062); !got.Equal(want) {
		t.Errorf("viaAddr = %v, want %v", got, want)
	}
	if acc.cfg.PublishedSameAsLocal {
		t.Error("PublishedSameAsLocal still set after observation")
	}
	if got := acc.cfg.PublishedAddress; got != "203.0.113.9" {
		t.Errorf("PublishedAddress = %q, want %q", got, "203.0.113.9")
	}
}

func TestCheckNATAddress_TransportChangeRefreshesOverride(t *testing.T) {
	t.Parallel()

	acc := natTestAccount("203.0.113.5", 5060)
	oldTP := &staticTransport{local: sip.HostPort("192.168.1.10", 5060)}
	newTP := &staticTransport{local: sip.HostPort("192.168.1.10", 5060)}
	acc.viaAddr = sip.HostPort("198.51.100.20", 5060)
	acc.viaProto = sip.TransportUDP
	acc.viaTP = oldTP
	acc.tp = newTP

	// Contact already matches, yet the override belongs to the replaced
	// transport and must be relearned.
	if acc.checkNATAddressLocked(observedResponse("203.0.113.5", 5060)) {
		t.Error("checkNATAddressLocked() = true for matching contact, want false")
	}
	if got, want := acc.viaAddr, sip.HostPort("203.0.113.5", 5060); !got.Equal(want) {
		t.Errorf("viaAddr = %v, want refreshed %v", got, want)
	}
	if acc.viaTP != TransportHandle(newTP) {
		t.Error("via override not owned by the current transport")
	}

	// A later observation on the same transport keeps the recorded override.
	acc.checkNATAddressLocked(observedResponse("203.0.113.9", 5062))
	if got, want := acc.viaAddr, sip.HostPort("203.0.113.5", 5060); !got.Equal(want) {
		t.Errorf("viaAddr = %v, want unchanged %v", got, want)
	}
}
