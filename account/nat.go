package account

import (
	"github.com/ghettovoice/sipreg/internal/util"
	"github.com/ghettovoice/sipreg/sip"
)

// checkNATAddressLocked compares the address the registrar observed in the
// topmost via of res with the contact the account is advertising, and
// rewrites the contact when they diverge. Returns true when the contact was
// rewritten and the binding should be refreshed with the corrected value.
//
// Deterministic and non-blocking: everything it needs is in the response and
// the account state.
func (acc *Account) checkNATAddressLocked(res *sip.Response) bool {
	via := res.Via
	if via.IsZero() {
		return false
	}

	proto := sip.TransportUDP
	if acc.tp != nil {
		proto = acc.tp.Proto()
	}

	port, hasRPort := via.RPort()
	if !hasRPort {
		port = via.Addr.PortOr(proto.DefaultPort())
	}
	host := via.Addr.Host()
	if recv, ok := via.Received(); ok {
		host = recv.String()
	}
	if host == "" {
		return false
	}
	observed := sip.HostPort(host, port)

	// The registrar must keep seeing the observed sent-by in future
	// requests, even when the contact itself stays untouched. An override
	// learned on a previous transport does not carry over.
	if acc.viaAddr.IsZero() || acc.viaTP != acc.tp {
		acc.viaAddr = observed
		acc.viaProto = proto
		acc.viaTP = acc.tp
	}
	acc.cfg.PublishedSameAsLocal = false
	acc.cfg.PublishedAddress = observed.Host()
	acc.cfg.PublishedPort = port

	contact := acc.contact.address()
	contactPort := contact.PortOr(proto.DefaultPort())
	hostMatch := sameHost(contact, observed)

	if hostMatch && contactPort == port {
		return false
	}

	if observed.IsPrivate() {
		// A public contact reached a public registrar yet the via reports a
		// private address: a middlebox mangled the header, keep the contact.
		if !contact.IsPrivate() && !res.Source.IsZero() && !res.Source.IsPrivate() {
			acc.log.Debug("ignoring private via address from public registrar",
				"observed", observed, "contact", contact)
			return false
		}
		// Port-only divergence on a private network is routine (symmetric
		// NAT port randomization), not a reason to churn the binding.
		if hostMatch {
			acc.log.Debug("ignoring port-only via divergence on private network",
				"observed", observed, "contact", contact)
			return false
		}
	}

	acc.log.Info("IP address change detected by registrar, updating contact",
		"old", contact, "new", observed)

	acc.contact.set(observed, acc.contact.headerValue())
	acc.updateContactHeaderLocked()
	if acc.reg != nil {
		acc.reg.contact = acc.contact.headerValue()
	}
	return true
}

// sameHost compares the host parts of two addresses: structured when both
// parse as IPs, case-insensitive string otherwise.
func sameHost(a, b sip.Addr) bool {
	if a.IsIP() && b.IsIP() {
		return a.IP().Equal(b.IP())
	}
	return util.EqFold(a.Host(), b.Host())
}
