// Package account implements the registration control plane of a SIP user
// agent: establishing and maintaining an account's binding at a registrar
// across unreliable transports and changing network conditions.
//
// An [Account] owns one transport at a time, computes the externally visible
// contact address from local configuration, UPnP mappings, STUN discovery and
// registrar-observed corrections, answers digest authentication challenges,
// and retries failed registrations on a jittered timer. Wire rendering,
// parsing and socket management belong to the [TransportBroker]
// collaborator, not to this package.
package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"braces.dev/errtrace"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/ghettovoice/sipreg/internal/errorutil"
	"github.com/ghettovoice/sipreg/internal/log"
	"github.com/ghettovoice/sipreg/internal/util"
	"github.com/ghettovoice/sipreg/nat/upnp"
	"github.com/ghettovoice/sipreg/sip"
)

const (
	defaultUserAgent = "sipreg"

	resolveTimeout = 10 * time.Second
	upnpTimeout    = 5 * time.Second
)

var nextListenerID atomic.Uint64

// registration is the bookkeeping of a live registrar binding, shared by
// all refreshes of the same registration dialog.
type registration struct {
	callID  string
	seq     uint32
	contact string
	routes  []string
}

// Deps collects the account's collaborators. Broker and Resolver are
// required; the rest have working defaults.
type Deps struct {
	Broker   TransportBroker
	Resolver NameResolver
	// Stun is consulted when STUN is enabled in the config.
	Stun StunResolver
	// Upnp is consulted when UPnP is enabled in the config.
	Upnp UpnpController
	// Sink receives account notifications, [NoopSink] when nil.
	Sink EventSink
	// Clock drives the retry scheduler, the wall clock when nil.
	Clock clock.Clock
	Log   *slog.Logger
	// RandSeed seeds the retry jitter. Zero means seed from the clock.
	RandSeed int64
}

// Account is a SIP account's registration controller. All exported methods
// are safe for concurrent use.
type Account struct {
	log      *slog.Logger
	sink     EventSink
	broker   TransportBroker
	resolver NameResolver
	stun     StunResolver
	upnp     UpnpController

	enabled atomic.Bool
	closed  atomic.Bool

	// contact has its own lock: the signaling path reads it frequently
	// while the NAT reconciler writes it.
	contact contactManager

	sched *reregScheduler
	wg    sync.WaitGroup

	mu         sync.Mutex
	cfg        Config
	creds      credentialStore
	fsm        *regStateMachine
	tp         TransportHandle
	listenerID uint64
	tlsLS      TLSListener
	// viaAddr overrides the via sent-by once an external address is known,
	// either from a UPnP mapping or a registrar received/rport report.
	// viaTP records which transport the override was learned on, so a
	// replacement transport gets a fresh observation.
	viaAddr  sip.Addr
	viaProto sip.TransportProto
	viaTP    TransportHandle
	// hostAddr is the resolved registrar destination.
	hostAddr sip.Addr
	reg      *registration
	mapping  *upnp.Mapping
	tpStatus sip.StatusCode
	tpError  string
	// gen invalidates in-flight register cycles when a newer one starts.
	gen uint64
}

// New creates an enabled account in the unregistered state.
func New(cfg Config, deps Deps) (*Account, error) {
	if deps.Broker == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("nil transport broker"))
	}
	if deps.Resolver == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("nil name resolver"))
	}

	cfg.normalize()

	logger := deps.Log
	if logger == nil {
		logger = log.Noop
	}
	sink := deps.Sink
	if sink == nil {
		sink = NoopSink{}
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}
	seed := deps.RandSeed
	if seed == 0 {
		seed = clk.Now().UnixNano()
	}

	acc := &Account{
		log:      logger.With("account", cfg.Username+"@"+cfg.Hostname),
		sink:     sink,
		broker:   deps.Broker,
		resolver: deps.Resolver,
		stun:     deps.Stun,
		upnp:     deps.Upnp,
		cfg:      cfg,
	}
	acc.fsm = newRegStateMachine(acc.onRegStateChange)
	acc.sched = newReregScheduler(clk, seed, acc.canSchedule, acc.onRetryTimer)
	acc.enabled.Store(true)

	if len(cfg.Credentials) > 0 {
		if err := acc.creds.set(cfg.Credentials, cfg.HashCredentials); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	return acc, nil
}

func (acc *Account) onRegStateChange(state RegistrationState, code sip.StatusCode, detail string) {
	acc.sink.RegistrationStateChanged(state, code, detail)
}

func (acc *Account) canSchedule() bool {
	return acc.enabled.Load() && !acc.closed.Load()
}

func (acc *Account) onRetryTimer() {
	acc.log.Debug("re-registration timer fired", "attempt", acc.sched.attemptCount())
	if err := acc.Register(); err != nil {
		acc.log.Warn("re-registration attempt failed", "error", err)
		acc.sched.schedule()
	}
}

// Register starts or refreshes the registrar binding. The call returns once
// the register cycle is started; the outcome arrives through the event sink.
// Calling it again while a cycle is in flight supersedes that cycle.
func (acc *Account) Register() error {
	if acc.closed.Load() {
		return errtrace.Wrap(ErrAccountClosed)
	}
	if !acc.enabled.Load() {
		return errtrace.Wrap(ErrAccountDisabled)
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()

	// A fresh cycle supersedes any scheduled retry.
	acc.sched.cancel()
	acc.gen++
	gen := acc.gen

	if acc.cfg.Hostname == "" {
		// Direct-IP profile: no registrar to bind at, the account is
		// immediately usable for outgoing signaling.
		acc.fsm.Set(StateRegistered, sip.StatusOK)
		return nil
	}

	acc.fsm.SetDetailed(StateTrying, 0, "registration in progress")

	acc.wg.Add(1)
	go acc.runRegister(gen)
	return nil
}

// runRegister performs the blocking steps of a register cycle off the
// account lock: UPnP port mapping and registrar name resolution.
func (acc *Account) runRegister(gen uint64) {
	defer acc.wg.Done()

	acc.mu.Lock()
	upnpEnabled := acc.cfg.UpnpEnabled && acc.upnp != nil
	host := acc.cfg.Hostname
	proto := acc.transportProtoLocked()
	port := acc.localPortLocked()
	acc.mu.Unlock()

	if upnpEnabled {
		acc.mapPortUPnP(gen, proto, port)
	}

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	addrs, err := acc.resolver.ResolveService(ctx, host, proto)
	cancel()

	acc.mu.Lock()
	defer acc.mu.Unlock()
	if gen != acc.gen || acc.closed.Load() {
		return
	}

	if err != nil || len(addrs) == 0 {
		acc.log.Warn("registrar host resolution failed", "host", host, "error", err)
		acc.fsm.SetDetailed(StateErrorHost, sip.StatusNotFound, ErrHostResolution.Error())
		return
	}

	dest := addrs[0]
	if _, ok := dest.Port(); !ok {
		dest = dest.WithPort(proto.DefaultPort())
	}
	acc.hostAddr = dest
	acc.log.Debug("registrar resolved", "host", host, "dest", dest)

	if err := acc.ensureTransportLocked(dest); err != nil {
		acc.log.Warn("transport creation failed", "dest", dest, "error", err)
		acc.fsm.SetDetailed(StateErrorGeneric, 0, ErrTransportCreation.Error())
		return
	}

	expire := acc.cfg.RegistrationExpire
	if err := acc.sendRegisterLocked(expire, func(ok bool, res *sip.Response, err error) {
		acc.onRegisterResult(gen, expire, ok, res, err)
	}); err != nil {
		acc.log.Warn("sending REGISTER failed", "error", err)
		acc.fsm.SetDetailed(StateErrorGeneric, 0, err.Error())
	}
}

// mapPortUPnP reserves a router port mapping for the local signaling port
// and adopts the mapped external address. Mapping failure is not fatal,
// registration proceeds with the unmapped address.
func (acc *Account) mapPortUPnP(gen uint64, proto sip.TransportProto, port uint16) {
	natProto := "UDP"
	if !proto.Equal(sip.TransportUDP) {
		natProto = "TCP"
	}

	hint := port
	acc.mu.Lock()
	if acc.mapping != nil && acc.mapping.State == upnp.MappingOpen {
		hint = acc.mapping.ExternalPort
	}
	acc.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), upnpTimeout)
	m, err := acc.upnp.ReserveMapping(ctx, natProto, port, hint)
	cancel()
	if err != nil {
		acc.log.Warn("UPnP port mapping failed", "port", port, "error", err)
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()
	if gen != acc.gen || acc.closed.Load() {
		return
	}
	acc.mapping = m
	if m != nil && m.State == upnp.MappingOpen {
		acc.log.Info("UPnP port mapping open",
			"external", m.ExternalIP, "external_port", m.ExternalPort, "internal_port", m.InternalPort)
		acc.initContactAddressLocked()
		acc.updateContactHeaderLocked()
	}
}

// ensureTransportLocked makes sure a live transport toward dest exists,
// creating one from the broker when the current one is missing or dead.
func (acc *Account) ensureTransportLocked(dest sip.Addr) error {
	if acc.tp != nil && acc.tp.Alive() {
		return nil
	}

	bind := sip.HostPort(acc.cfg.BindAddress, acc.localPortLocked())

	var (
		tp  TransportHandle
		err error
	)
	if acc.cfg.TLS.Enable {
		if acc.tlsLS == nil {
			ls, lsErr := acc.broker.TLSListener(sip.HostPort(acc.cfg.BindAddress, acc.tlsPortLocked()), &acc.cfg.TLS)
			if lsErr != nil {
				return errtrace.Wrap(errorutil.NewWrapperError(ErrTransportCreation, lsErr))
			}
			acc.tlsLS = ls
		}
		serverName := acc.cfg.TLS.ServerName
		if serverName == "" {
			serverName = acc.cfg.Hostname
		}
		tp, err = acc.broker.TLSTransport(acc.tlsLS, dest, serverName)
	} else {
		tp, err = acc.broker.UDPTransport(bind)
	}
	if err != nil {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrTransportCreation, err))
	}

	acc.setTransportLocked(tp)
	return nil
}

// sendRegisterLocked builds and transmits a REGISTER with the given binding
// lifetime through the current transport. Zero expire removes the binding.
func (acc *Account) sendRegisterLocked(expire uint32, done func(bool, *sip.Response, error)) error {
	if acc.tp == nil {
		return errtrace.Wrap(ErrTransportCreation)
	}

	contact := acc.contact.headerValue()
	if contact == "" {
		return errtrace.Wrap(ErrInvalidContactAddress)
	}

	if acc.reg == nil {
		acc.reg = &registration{
			callID: uuid.NewString(),
			routes: acc.serviceRoutesLocked(),
		}
	}
	acc.reg.seq++
	acc.reg.contact = contact

	scheme := "sip"
	if acc.tp.Secure() {
		scheme = "sips"
	}
	aor := "<" + scheme + ":" + acc.cfg.Username + "@" + acc.cfg.Hostname + ">"

	via := sip.ViaHop{
		Transport: acc.tp.Proto(),
		Addr:      acc.viaSentByLocked(),
		Params:    sip.Values{}.Set("branch", sip.GenerateBranch()).Set("rport", ""),
	}

	req := &sip.Request{
		Method:  sip.MethodRegister,
		RURI:    scheme + ":" + acc.cfg.Hostname,
		From:    aor,
		To:      aor,
		CallID:  acc.reg.callID,
		CSeq:    sip.CSeq{SeqNo: acc.reg.seq, Method: sip.MethodRegister},
		Via:     via,
		Contact: contact,
		Expires: expire,
		Routes:  acc.reg.routes,
		Headers: sip.Values{}.Set("User-Agent", acc.userAgentLocked()),
	}

	acc.log.Debug("sending REGISTER",
		"dest", acc.hostAddr, "expire", expire, "cseq", req.CSeq, "contact", contact)

	return errtrace.Wrap(acc.sendWithAuth(acc.tp, req, acc.hostAddr, done))
}

// onRegisterResult handles the terminal outcome of a register cycle.
func (acc *Account) onRegisterResult(gen uint64, expire uint32, ok bool, res *sip.Response, err error) {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	if gen != acc.gen || acc.closed.Load() {
		return
	}

	if err != nil {
		acc.log.Warn("registration failed", "error", err)
		acc.reg = nil
		if errors.Is(err, ErrAuthChallengeExhausted) || errors.Is(err, ErrNoCredentials) {
			acc.fsm.SetDetailed(StateErrorAuth, statusOf(res), err.Error())
		} else {
			acc.fsm.SetDetailed(StateErrorGeneric, statusOf(res), err.Error())
		}
		return
	}

	if !ok {
		acc.log.Warn("registrar rejected registration", "status", res.Status)
		acc.reg = nil
		// Arm the retry before notifying observers, so anyone reacting to
		// the state change already sees a pending retry.
		if shouldRetryRegistration(res.Status) {
			acc.sched.schedule()
		}
		acc.fsm.SetDetailed(registrationErrorState(res.Status), res.Status,
			errorutil.NewWrapperError(ErrRegistrarRejected, res.Status.String()).Error())
		return
	}

	granted := res.Expires
	if granted < 0 {
		granted = int(expire)
	}
	if granted < 1 {
		// The registrar honored a binding removal.
		acc.reg = nil
		acc.sched.cancel()
		acc.fsm.Set(StateUnregistered, res.Status)
		return
	}

	if uint32(granted) != expire {
		// The local expiration stays authoritative for refresh timing.
		acc.log.Debug("registrar granted different expiration",
			"requested", expire, "granted", granted)
	}

	if routes := res.Headers.Get("Service-Route"); len(routes) > 0 && acc.reg != nil {
		acc.reg.routes = append([]string(nil), routes...)
	}
	if acc.cfg.AllowIPAutoRewrite {
		acc.checkNATAddressLocked(res)
	}

	acc.sched.cancel()
	acc.sched.reset()
	acc.fsm.Set(StateRegistered, res.Status)
}

// Unregister removes the registrar binding, then releases the transport and
// TLS listener and resets the retry state. Without an active binding it
// completes immediately and without network traffic. cb, when non-nil,
// reports whether the transport was freed.
func (acc *Account) Unregister(cb func(ok bool)) error {
	if acc.closed.Load() {
		return errtrace.Wrap(ErrAccountClosed)
	}

	acc.mu.Lock()
	acc.sched.reset()

	state := acc.fsm.State()
	if acc.reg == nil || (state != StateRegistered && state != StateTrying) {
		acc.gen++
		acc.releaseTransportLocked()
		acc.fsm.Set(StateUnregistered, 0)
		acc.mu.Unlock()
		if cb != nil {
			cb(true)
		}
		return nil
	}

	acc.gen++
	gen := acc.gen
	err := acc.sendRegisterLocked(0, func(ok bool, res *sip.Response, err error) {
		acc.onUnregisterResult(gen, cb, ok, res, err)
	})
	acc.mu.Unlock()

	if err != nil {
		if cb != nil {
			cb(false)
		}
		return errtrace.Wrap(err)
	}
	return nil
}

func (acc *Account) onUnregisterResult(gen uint64, cb func(bool), ok bool, res *sip.Response, err error) {
	released := false
	acc.mu.Lock()
	if gen == acc.gen && !acc.closed.Load() {
		acc.reg = nil
		switch {
		case err != nil:
			acc.log.Warn("unregistration failed", "error", err)
			acc.fsm.SetDetailed(StateErrorGeneric, statusOf(res), err.Error())
		case !ok:
			acc.log.Warn("registrar rejected unregistration", "status", res.Status)
			acc.fsm.Set(registrationErrorState(res.Status), res.Status)
		default:
			acc.fsm.Set(StateUnregistered, res.Status)
		}
		// The transport is freed regardless of how the registrar answered.
		acc.releaseTransportLocked()
		released = true
	}
	acc.mu.Unlock()

	if cb != nil {
		cb(released)
	}
}

// SendMessage sends a SIP MESSAGE carrying one body per content type to the
// given URI through the account's transport, answering authentication
// challenges the same way registration does. done receives the delivery
// outcome keyed by the returned message id.
func (acc *Account) SendMessage(to string, payloads map[string]string, done func(id string, ok bool, status sip.StatusCode)) (string, error) {
	if acc.closed.Load() {
		return "", errtrace.Wrap(ErrAccountClosed)
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()

	if acc.tp == nil || acc.hostAddr.IsZero() {
		return "", errtrace.Wrap(ErrTransportCreation)
	}

	id := uuid.NewString()
	scheme := "sip"
	if acc.tp.Secure() {
		scheme = "sips"
	}

	req := &sip.Request{
		Method: sip.MethodMessage,
		RURI:   to,
		From:   "<" + scheme + ":" + acc.cfg.Username + "@" + acc.cfg.Hostname + ">",
		To:     "<" + to + ">",
		CallID: id,
		CSeq:   sip.CSeq{SeqNo: 1, Method: sip.MethodMessage},
		Via: sip.ViaHop{
			Transport: acc.tp.Proto(),
			Addr:      acc.viaSentByLocked(),
			Params:    sip.Values{}.Set("branch", sip.GenerateBranch()).Set("rport", ""),
		},
		Routes: acc.serviceRoutesLocked(),
		Headers: sip.Values{}.
			Set("User-Agent", acc.userAgentLocked()).
			Set("Date", time.Now().UTC().Format(time.RFC1123)),
		Payloads: payloads,
	}

	err := acc.sendWithAuth(acc.tp, req, acc.hostAddr, func(ok bool, res *sip.Response, err error) {
		if err != nil {
			acc.log.Warn("message delivery failed", "message_id", id, "error", err)
		}
		if done != nil {
			done(id, ok, statusOf(res))
		}
	})
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return id, nil
}

// ConnectivityChanged drops the current transport and address knowledge and
// starts a fresh register cycle. Call it when the host's network attachment
// changes.
func (acc *Account) ConnectivityChanged() {
	if acc.closed.Load() {
		return
	}

	acc.mu.Lock()
	acc.sched.cancel()
	acc.setTransportLocked(nil)
	acc.viaAddr = sip.Addr{}
	acc.viaProto = ""
	acc.viaTP = nil
	acc.hostAddr = sip.Addr{}
	acc.mapping = nil
	acc.reg = nil
	acc.mu.Unlock()

	if acc.enabled.Load() {
		if err := acc.Register(); err != nil {
			acc.log.Warn("re-registration after connectivity change failed", "error", err)
		}
	}
}

// SetEnabled toggles the account. Disabling cancels pending retries and
// removes the registrar binding.
func (acc *Account) SetEnabled(enabled bool) {
	if acc.closed.Load() || acc.enabled.Load() == enabled {
		return
	}
	acc.enabled.Store(enabled)
	if !enabled {
		acc.sched.cancel()
		if err := acc.Unregister(nil); err != nil {
			acc.log.Warn("unregistration on disable failed", "error", err)
		}
	}
}

// SetPushNotificationToken replaces the device key advertised in the contact
// header and refreshes the binding when one is active.
func (acc *Account) SetPushNotificationToken(token string) {
	acc.mu.Lock()
	if acc.cfg.DeviceKey == token {
		acc.mu.Unlock()
		return
	}
	acc.cfg.DeviceKey = token
	acc.updateContactHeaderLocked()
	registered := acc.fsm.State() == StateRegistered
	acc.mu.Unlock()

	if registered {
		if err := acc.Register(); err != nil {
			acc.log.Warn("re-registration after token change failed", "error", err)
		}
	}
}

// SetCredentials replaces the account's credentials. An empty list is
// rejected and the previous credentials stay in effect.
func (acc *Account) SetCredentials(creds []Credential) error {
	acc.mu.Lock()
	defer acc.mu.Unlock()

	if err := acc.creds.set(creds, acc.cfg.HashCredentials); err != nil {
		return errtrace.Wrap(err)
	}
	acc.cfg.Credentials = append([]Credential(nil), creds...)
	return nil
}

// GetCredentials returns the configured credential triples with cleartext
// passwords, for configuration export.
func (acc *Account) GetCredentials() []Credential {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	return acc.creds.list()
}

// MatchRank grades how well an incoming request's user and host match this
// account.
type MatchRank int

const (
	MatchNone MatchRank = iota
	// MatchPartial means the username matches but the host does not.
	MatchPartial
	MatchFull
)

// Matches ranks ownership of the given username/hostname pair.
func (acc *Account) Matches(username, hostname string) MatchRank {
	acc.mu.Lock()
	defer acc.mu.Unlock()

	if !util.EqFold(username, acc.cfg.Username) || acc.cfg.Username == "" {
		return MatchNone
	}
	if util.EqFold(hostname, acc.cfg.Hostname) {
		return MatchFull
	}
	return MatchPartial
}

// State returns the current registration state.
func (acc *Account) State() RegistrationState {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	return acc.fsm.State()
}

// ContactHeader returns the rendered contact header value currently
// advertised, empty when none was computed yet.
func (acc *Account) ContactHeader() string { return acc.contact.headerValue() }

// VolatileDetails exports the runtime state as a string map, complementing
// [Config.Details].
func (acc *Account) VolatileDetails() map[string]string {
	acc.mu.Lock()
	defer acc.mu.Unlock()
	return acc.volatileDetailsLocked()
}

func (acc *Account) volatileDetailsLocked() map[string]string {
	state := acc.fsm.State()
	code, detail := acc.fsm.Status()
	return map[string]string{
		DetailRegistrationStatus:  string(state),
		DetailRegistrationCode:    code.String(),
		DetailRegistrationDetail:  detail,
		DetailTransportStatusCode: acc.tpStatus.String(),
		DetailTransportStatusDesc: acc.tpError,
	}
}

// Close releases the account: cancels retries, drops the transport, closes
// the TLS listener and releases any UPnP mapping. The account is unusable
// afterwards. Close does not unregister; call [Account.Unregister] first
// when a clean registrar shutdown is wanted.
func (acc *Account) Close() error {
	if !acc.closed.CompareAndSwap(false, true) {
		return nil
	}

	acc.sched.cancel()

	acc.mu.Lock()
	acc.gen++
	acc.releaseTransportLocked()
	mapping := acc.mapping
	acc.mapping = nil
	acc.reg = nil
	acc.fsm.Set(StateUnregistered, 0)
	acc.mu.Unlock()

	if mapping != nil && acc.upnp != nil {
		ctx, cancel := context.WithTimeout(context.Background(), upnpTimeout)
		if err := acc.upnp.ReleaseMapping(ctx, mapping); err != nil {
			acc.log.Debug("releasing UPnP mapping", "error", err)
		}
		cancel()
	}

	acc.wg.Wait()
	return nil
}

// releaseTransportLocked drops the transport handle and closes the TLS
// listener when one is held.
func (acc *Account) releaseTransportLocked() {
	acc.setTransportLocked(nil)
	if acc.tlsLS != nil {
		if err := acc.tlsLS.Close(); err != nil {
			acc.log.Debug("closing TLS listener", "error", err)
		}
		acc.tlsLS = nil
	}
}

func (acc *Account) transportProtoLocked() sip.TransportProto {
	if acc.cfg.TLS.Enable {
		return sip.TransportTLS
	}
	return sip.TransportUDP
}

func (acc *Account) localPortLocked() uint16 {
	if acc.cfg.LocalPort != 0 {
		return acc.cfg.LocalPort
	}
	return acc.transportProtoLocked().DefaultPort()
}

func (acc *Account) tlsPortLocked() uint16 {
	if acc.cfg.TLS.ListenerPort != 0 {
		return acc.cfg.TLS.ListenerPort
	}
	return sip.DefaultTLSPort
}

// viaSentByLocked picks the address written into the via sent-by field:
// the external override when one is known, the local socket otherwise.
func (acc *Account) viaSentByLocked() sip.Addr {
	if !acc.viaAddr.IsZero() {
		return acc.viaAddr
	}
	if acc.tp != nil {
		return acc.tp.LocalAddr()
	}
	return sip.Addr{}
}

func (acc *Account) userAgentLocked() string {
	if acc.cfg.UserAgent != "" {
		return acc.cfg.UserAgent
	}
	return defaultUserAgent
}

func (acc *Account) serviceRoutesLocked() []string {
	if acc.cfg.ServiceRoute == "" {
		return nil
	}
	parts := strings.Split(acc.cfg.ServiceRoute, ",")
	routes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = util.TrimSP(p); p != "" {
			routes = append(routes, p)
		}
	}
	return routes
}

// registrationErrorState maps a registrar status to the error state shown
// to observers.
func registrationErrorState(status sip.StatusCode) RegistrationState {
	switch status {
	case sip.StatusForbidden:
		return StateErrorAuth
	case sip.StatusNotFound, sip.StatusRequestTimeout:
		return StateErrorHost
	case sip.StatusServiceUnavailable:
		return StateErrorServiceUnavailable
	default:
		return StateErrorGeneric
	}
}

// shouldRetryRegistration reports whether a rejected registration is worth
// retrying automatically: transient server-side conditions and any 6xx.
func shouldRetryRegistration(status sip.StatusCode) bool {
	switch status {
	case sip.StatusRequestTimeout,
		sip.StatusInternalServerError,
		sip.StatusBadGateway,
		sip.StatusServiceUnavailable,
		sip.StatusServerTimeout:
		return true
	default:
		return status >= 600
	}
}

func statusOf(res *sip.Response) sip.StatusCode {
	if res == nil {
		return 0
	}
	return res.Status
}
