package account

import "github.com/ghettovoice/sipreg/internal/errorutil"

// Registration errors.
const (
	// ErrHostResolution is returned when the registrar hostname yields no address.
	ErrHostResolution errorutil.Error = "host resolution failed"
	// ErrTransportCreation is returned when the transport broker cannot provide a transport.
	ErrTransportCreation errorutil.Error = "transport creation failed"
	// ErrAuthChallengeExhausted is returned when a second challenge follows the
	// single authorized resend.
	ErrAuthChallengeExhausted errorutil.Error = "authentication challenge exhausted"
	// ErrRegistrarRejected is returned when the registrar answers with a final
	// non-2xx status.
	ErrRegistrarRejected errorutil.Error = "registrar rejected registration"
	// ErrTransportLost is reported when the live transport signals disconnection.
	ErrTransportLost errorutil.Error = "transport lost"
	// ErrNoCredentials is returned when registration is attempted without any
	// credential configured, or an empty credential list is supplied.
	ErrNoCredentials errorutil.Error = "no credentials"
	// ErrInvalidContactAddress is reported when no usable contact address can
	// be computed; the previous contact header stays in effect.
	ErrInvalidContactAddress errorutil.Error = "invalid contact address"
	// ErrAccountClosed is returned on operations against a closed account.
	ErrAccountClosed errorutil.Error = "account closed"
	// ErrAccountDisabled is returned when registration is requested on a disabled account.
	ErrAccountDisabled errorutil.Error = "account disabled"
)

// Error is a string error, see [errorutil.Error].
type Error = errorutil.Error
