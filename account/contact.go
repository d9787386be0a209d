package account

import (
	"context"
	"sync"

	"github.com/ghettovoice/sipreg/nat/stun"
	"github.com/ghettovoice/sipreg/nat/upnp"
	"github.com/ghettovoice/sipreg/sip"
)

// contactManager holds the contact address and its rendered header value
// under a dedicated lock, so readers never contend with the account's
// registration lock.
type contactManager struct {
	mu     sync.RWMutex
	addr   sip.Addr
	header string
}

func (cm *contactManager) get() (sip.Addr, string) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.addr, cm.header
}

func (cm *contactManager) address() sip.Addr {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.addr
}

func (cm *contactManager) headerValue() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.header
}

func (cm *contactManager) set(addr sip.Addr, header string) {
	cm.mu.Lock()
	cm.addr = addr
	cm.header = header
	cm.mu.Unlock()
}

// setTransportLocked swaps the account's transport, detaching the state
// listener of the previous one and reinitializing the contact from the new
// local socket. Passing the current transport is a no-op.
func (acc *Account) setTransportLocked(tp TransportHandle) {
	if tp == acc.tp {
		return
	}
	if acc.tp != nil {
		acc.tp.RemoveStateListener(acc.listenerID)
		if err := acc.tp.Close(); err != nil {
			acc.log.Debug("closing previous transport", "error", err)
		}
	}
	acc.tp = tp
	if tp == nil {
		return
	}

	acc.listenerID = nextListenerID.Add(1)
	tp.AddStateListener(acc.listenerID, acc.onTransportState)

	acc.initContactAddressLocked()
	acc.updateContactHeaderLocked()
}

// initContactAddressLocked selects the address to advertise in the contact
// header. Sources are tried in fixed priority order: an open UPnP mapping,
// the explicitly published address, a STUN reflexive address, a previously
// observed via correction, and finally the transport's local socket.
func (acc *Account) initContactAddressLocked() {
	var local sip.Addr
	if acc.tp != nil {
		local = acc.tp.LocalAddr()
	}
	addr := local

	switch {
	case acc.cfg.UpnpEnabled && acc.mapping != nil &&
		acc.mapping.State == upnp.MappingOpen && acc.mapping.ExternalIP != nil:
		addr = sip.HostPort(acc.mapping.ExternalIP.String(), acc.mapping.ExternalPort)
		// The registrar must see the mapped address in the topmost via too,
		// or its responses are routed back to the unmapped socket.
		acc.viaAddr = addr
		acc.viaProto = acc.transportProtoLocked()
		acc.viaTP = acc.tp
	case !acc.cfg.PublishedSameAsLocal && acc.cfg.PublishedAddress != "":
		addr = sip.HostPort(acc.cfg.PublishedAddress, acc.cfg.PublishedPort)
	case acc.cfg.StunEnabled && acc.stun != nil:
		server, port := stun.ParseServer(acc.cfg.StunServer)
		refl, err := acc.stun.ReflexiveAddr(context.Background(), local, server, port)
		switch {
		case err != nil:
			acc.log.Warn("STUN resolution failed, falling back to local address",
				"server", acc.cfg.StunServer, "error", err)
			acc.sink.StunStatusFailed()
		case !refl.IsZero():
			addr = refl
		}
	case !acc.viaAddr.IsZero():
		addr = acc.viaAddr
	}

	acc.contact.set(addr, acc.contact.headerValue())
}

// updateContactHeaderLocked re-renders the contact header from the current
// contact address. A render failure keeps the previous header so an existing
// binding is not silently dropped.
func (acc *Account) updateContactHeaderLocked() {
	addr, prev := acc.contact.get()

	secure := acc.cfg.TLS.Enable || (acc.tp != nil && acc.tp.Secure())
	header := sip.FormatContact(sip.ContactSpec{
		User:        acc.cfg.Username,
		DisplayName: acc.cfg.DisplayName,
		Addr:        addr,
		Secure:      secure,
		DeviceKey:   acc.cfg.DeviceKey,
	})
	if header == "" {
		acc.log.Warn("no usable contact address, keeping previous contact header",
			"contact", prev)
		return
	}

	acc.contact.set(addr, header)
}

// onTransportState reacts to liveness changes of the bound transport.
// A lost transport moves the account into a generic error state and detaches
// the handle; the registrar binding is refreshed on the next register cycle.
func (acc *Account) onTransportState(info TransportStateInfo) {
	acc.mu.Lock()

	prevStatus := acc.tpStatus
	newStatus := info.Status
	if info.Alive {
		newStatus = sip.StatusOK
		acc.tpStatus = sip.StatusOK
		acc.tpError = ""
		acc.mu.Unlock()
	} else {
		acc.tpStatus = info.Status
		acc.tpError = info.Reason
		acc.log.Warn("transport lost", "status", info.Status, "reason", info.Reason)

		if acc.tp != nil {
			acc.tp.RemoveStateListener(acc.listenerID)
			acc.tp = nil
		}
		acc.sched.cancel()
		acc.fsm.SetDetailed(StateErrorGeneric, info.Status, ErrTransportLost.Error())
		acc.mu.Unlock()
	}

	if prevStatus != newStatus {
		acc.sink.VolatileDetailsChanged(acc.VolatileDetails())
	}
}
