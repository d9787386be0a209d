package account

import (
	"context"

	"github.com/qmuntal/stateless"

	"github.com/ghettovoice/sipreg/sip"
)

// RegistrationState is the account's registration lifecycle state.
type RegistrationState string

const (
	StateUnregistered            RegistrationState = "UNREGISTERED"
	StateTrying                  RegistrationState = "TRYING"
	StateRegistered              RegistrationState = "REGISTERED"
	StateErrorGeneric            RegistrationState = "ERROR_GENERIC"
	StateErrorAuth               RegistrationState = "ERROR_AUTH"
	StateErrorHost               RegistrationState = "ERROR_HOST"
	StateErrorServiceUnavailable RegistrationState = "ERROR_SERVICE_UNAVAILABLE"
)

// IsError reports whether the state is one of the error states.
func (s RegistrationState) IsError() bool {
	switch s {
	case StateErrorGeneric, StateErrorAuth, StateErrorHost, StateErrorServiceUnavailable:
		return true
	default:
		return false
	}
}

const (
	trigStart   = "start"
	trigSuccess = "success"
	trigFail    = "fail"
	trigStop    = "stop"
)

// regStateMachine guards the lifecycle
// Unregistered -> Trying -> {Registered | Error*} -> Unregistered,
// with Error* allowed back into Trying through the retry scheduler.
// It carries the last status code and human-readable detail alongside the state.
type regStateMachine struct {
	fsm    *stateless.StateMachine
	code   sip.StatusCode
	detail string

	// onChange observes every effective transition, including reentries.
	onChange func(state RegistrationState, code sip.StatusCode, detail string)
}

func newRegStateMachine(onChange func(RegistrationState, sip.StatusCode, string)) *regStateMachine {
	m := &regStateMachine{onChange: onChange}

	fsm := stateless.NewStateMachine(StateUnregistered)
	failDst := func(_ context.Context, args ...any) (stateless.State, error) {
		return args[0].(RegistrationState), nil
	}

	// Direct-IP profiles jump straight to Registered, so success is
	// permitted from every state.
	for _, s := range []RegistrationState{
		StateUnregistered,
		StateErrorGeneric, StateErrorAuth, StateErrorHost, StateErrorServiceUnavailable,
	} {
		fsm.Configure(s).
			Permit(trigStart, StateTrying).
			Permit(trigSuccess, StateRegistered).
			PermitDynamic(trigFail, failDst)
	}
	fsm.Configure(StateTrying).
		PermitReentry(trigStart).
		Permit(trigSuccess, StateRegistered).
		PermitDynamic(trigFail, failDst)
	fsm.Configure(StateRegistered).
		Permit(trigStart, StateTrying).
		PermitReentry(trigSuccess).
		PermitDynamic(trigFail, failDst)

	for _, s := range []RegistrationState{
		StateTrying, StateRegistered,
		StateErrorGeneric, StateErrorAuth, StateErrorHost, StateErrorServiceUnavailable,
	} {
		fsm.Configure(s).Permit(trigStop, StateUnregistered)
	}
	fsm.Configure(StateUnregistered).PermitReentry(trigStop)

	// A late callback may fire a trigger the current state no longer accepts;
	// that is not an error, the newer transition already won.
	fsm.OnUnhandledTrigger(func(context.Context, stateless.State, stateless.Trigger, []string) error {
		return nil
	})
	fsm.OnTransitioned(func(_ context.Context, tr stateless.Transition) {
		if m.onChange != nil {
			m.onChange(tr.Destination.(RegistrationState), m.code, m.detail)
		}
	})

	m.fsm = fsm
	return m
}

// State returns the current registration state.
func (m *regStateMachine) State() RegistrationState {
	return m.fsm.MustState().(RegistrationState)
}

// Status returns the status code and detail recorded with the last transition.
func (m *regStateMachine) Status() (sip.StatusCode, string) { return m.code, m.detail }

// Set drives the machine toward the requested state, recording the status
// code and its reason phrase as detail.
func (m *regStateMachine) Set(state RegistrationState, code sip.StatusCode) {
	m.SetDetailed(state, code, code.Text())
}

// SetDetailed is [regStateMachine.Set] with an explicit detail string.
func (m *regStateMachine) SetDetailed(state RegistrationState, code sip.StatusCode, detail string) {
	m.code = code
	m.detail = detail

	switch state {
	case StateTrying:
		m.fsm.Fire(trigStart) //nolint:errcheck
	case StateRegistered:
		m.fsm.Fire(trigSuccess) //nolint:errcheck
	case StateUnregistered:
		m.fsm.Fire(trigStop) //nolint:errcheck
	default:
		m.fsm.Fire(trigFail, state) //nolint:errcheck
	}
}
