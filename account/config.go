package account

import (
	"crypto/tls"
	"io"
	"strconv"
	"sync"
	"time"

	"braces.dev/errtrace"
	"github.com/BurntSushi/toml"

	"github.com/ghettovoice/sipreg/internal/util"
)

// Account detail keys of the string map surface.
const (
	DetailHostname           = "Account.hostname"
	DetailUsername           = "Account.username"
	DetailDisplayName        = "Account.displayName"
	DetailRegistrationExpire = "Account.registrationExpire"
	DetailKeepAlive          = "Account.keepAliveEnabled"
	DetailServiceRoute       = "Account.serviceRoute"
	DetailAllowIPAutoRewrite = "Account.allowIPAutoRewrite"
	DetailBindAddress        = "Account.bindAddress"
	DetailLocalPort          = "Account.localPort"
	DetailPublishedAddress   = "Account.publishedAddress"
	DetailPublishedPort      = "Account.publishedPort"
	DetailPublishedSameAs    = "Account.publishedSameAsLocal"
	DetailUserAgent          = "Account.useragent"
	DetailDeviceKey          = "Account.deviceKey"

	DetailStunEnable = "STUN.enable"
	DetailStunServer = "STUN.server"
	DetailUpnpEnable = "Account.upnpEnabled"

	DetailTLSEnable             = "TLS.enable"
	DetailTLSListenerPort       = "TLS.listenerPort"
	DetailTLSCiphers            = "TLS.ciphers"
	DetailTLSMethod             = "TLS.method"
	DetailTLSServerName         = "TLS.serverName"
	DetailTLSVerifyServer       = "TLS.verifyServer"
	DetailTLSVerifyClient       = "TLS.verifyClient"
	DetailTLSRequireClientCert  = "TLS.requireClientCertificate"
	DetailTLSNegotiationTimeout = "TLS.negotiationTimeoutSec"

	DetailSRTPKeyExchange = "SRTP.keyExchange"
	DetailSRTPRTPFallback = "SRTP.rtpFallback"

	// Volatile detail keys.
	DetailRegistrationStatus  = "Account.registrationStatus"
	DetailRegistrationCode    = "Account.registrationStatusCode"
	DetailRegistrationDetail  = "Account.registrationStatusDescription"
	DetailTransportStatusCode = "Transport.statusCode"
	DetailTransportStatusDesc = "Transport.statusDescription"
)

// Registration expiry bounds (seconds).
const (
	MinRegistrationExpire     = 60
	DefaultRegistrationExpire = 3600
)

// Documented TLS defaults for absent keys.
const (
	DefaultTLSMethod             = "TLSv1"
	DefaultTLSVerifyServer       = false
	DefaultTLSVerifyClient       = true
	DefaultTLSRequireClientCert  = true
	DefaultTLSNegotiationTimeout = 2 * time.Second
)

const trueStr, falseStr = "true", "false"

// TLSSettings configures the account's TLS transport.
type TLSSettings struct {
	Enable             bool   `toml:"enable"`
	ListenerPort       uint16 `toml:"listener_port"`
	Ciphers            string `toml:"ciphers"`
	Method             string `toml:"method"`
	ServerName         string `toml:"server_name"`
	VerifyServer       bool   `toml:"verify_server"`
	VerifyClient       bool   `toml:"verify_client"`
	RequireClientCert  bool   `toml:"require_client_certificate"`
	NegotiationTimeout uint   `toml:"negotiation_timeout_sec"`
}

// MinVersion maps the method name to a crypto/tls version constant,
// zero for "Default" and unknown names.
func (s TLSSettings) MinVersion() uint16 {
	switch s.Method {
	case "TLSv1.2":
		return tls.VersionTLS12
	case "TLSv1.1":
		return tls.VersionTLS11
	case "TLSv1":
		return tls.VersionTLS10
	default:
		return 0
	}
}

// SRTPSettings configures the media key exchange advertised by the account.
type SRTPSettings struct {
	KeyExchange string `toml:"key_exchange"`
	RTPFallback bool   `toml:"rtp_fallback"`
}

// Config is the static account configuration.
type Config struct {
	// Hostname of the registrar. Empty selects the direct-IP profile:
	// no network registration is performed.
	Hostname    string `toml:"hostname"`
	Username    string `toml:"username"`
	DisplayName string `toml:"display_name"`
	UserAgent   string `toml:"user_agent"`

	// BindAddress is the explicit local socket address, empty for wildcard.
	BindAddress string `toml:"bind_address"`
	LocalPort   uint16 `toml:"local_port"`

	PublishedAddress     string `toml:"published_address"`
	PublishedPort        uint16 `toml:"published_port"`
	PublishedSameAsLocal bool   `toml:"published_same_as_local"`

	// RegistrationExpire is the requested binding lifetime in seconds,
	// floored at [MinRegistrationExpire].
	RegistrationExpire uint32 `toml:"expire"`
	// KeepAlive enables automatic registration refresh.
	KeepAlive          bool   `toml:"keep_alive"`
	ServiceRoute       string `toml:"service_route"`
	AllowIPAutoRewrite bool   `toml:"allow_ip_auto_rewrite"`

	StunEnabled bool   `toml:"stun_enabled"`
	StunServer  string `toml:"stun_server"`
	UpnpEnabled bool   `toml:"upnp_enabled"`

	// DeviceKey is the push notification token added to the contact header.
	DeviceKey string `toml:"device_key"`

	// HashCredentials stores credential digests instead of cleartext passwords.
	HashCredentials bool `toml:"hash_credentials"`

	TLS         TLSSettings  `toml:"tls"`
	SRTP        SRTPSettings `toml:"srtp"`
	Credentials []Credential `toml:"credentials"`
}

// DefaultConfig returns a config populated with the documented defaults.
func DefaultConfig() Config {
	return Config{
		PublishedSameAsLocal: true,
		RegistrationExpire:   DefaultRegistrationExpire,
		KeepAlive:            true,
		AllowIPAutoRewrite:   true,
		TLS: TLSSettings{
			Method:             DefaultTLSMethod,
			VerifyServer:       DefaultTLSVerifyServer,
			VerifyClient:       DefaultTLSVerifyClient,
			RequireClientCert:  DefaultTLSRequireClientCert,
			NegotiationTimeout: uint(DefaultTLSNegotiationTimeout / time.Second),
		},
	}
}

// normalize enforces documented bounds on the config.
func (cfg *Config) normalize() {
	if cfg.RegistrationExpire == 0 {
		cfg.RegistrationExpire = DefaultRegistrationExpire
	}
	if cfg.RegistrationExpire < MinRegistrationExpire {
		cfg.RegistrationExpire = MinRegistrationExpire
	}
	if cfg.TLS.Method == "" {
		cfg.TLS.Method = DefaultTLSMethod
	}
}

// LoadConfig reads the persisted TOML form of the account configuration.
// Absent keys take the documented defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, errtrace.Wrap(err)
	}
	cfg.normalize()
	return cfg, nil
}

// SaveConfig writes the TOML form of the account configuration,
// with the tls and srtp submaps nested.
func SaveConfig(w io.Writer, cfg Config) error {
	return errtrace.Wrap(toml.NewEncoder(w).Encode(cfg))
}

// Details exports the configuration as the flat string map surface.
func (cfg Config) Details() map[string]string {
	return map[string]string{
		DetailHostname:              cfg.Hostname,
		DetailUsername:              cfg.Username,
		DetailDisplayName:           cfg.DisplayName,
		DetailUserAgent:             cfg.UserAgent,
		DetailBindAddress:           cfg.BindAddress,
		DetailLocalPort:             strconv.Itoa(int(cfg.LocalPort)),
		DetailPublishedAddress:      cfg.PublishedAddress,
		DetailPublishedPort:         strconv.Itoa(int(cfg.PublishedPort)),
		DetailPublishedSameAs:       boolStr(cfg.PublishedSameAsLocal),
		DetailRegistrationExpire:    strconv.FormatUint(uint64(cfg.RegistrationExpire), 10),
		DetailKeepAlive:             boolStr(cfg.KeepAlive),
		DetailServiceRoute:          cfg.ServiceRoute,
		DetailAllowIPAutoRewrite:    boolStr(cfg.AllowIPAutoRewrite),
		DetailDeviceKey:             cfg.DeviceKey,
		DetailStunEnable:            boolStr(cfg.StunEnabled),
		DetailStunServer:            cfg.StunServer,
		DetailUpnpEnable:            boolStr(cfg.UpnpEnabled),
		DetailTLSEnable:             boolStr(cfg.TLS.Enable),
		DetailTLSListenerPort:       strconv.Itoa(int(cfg.TLS.ListenerPort)),
		DetailTLSCiphers:            cfg.TLS.Ciphers,
		DetailTLSMethod:             cfg.TLS.Method,
		DetailTLSServerName:         cfg.TLS.ServerName,
		DetailTLSVerifyServer:       boolStr(cfg.TLS.VerifyServer),
		DetailTLSVerifyClient:       boolStr(cfg.TLS.VerifyClient),
		DetailTLSRequireClientCert:  boolStr(cfg.TLS.RequireClientCert),
		DetailTLSNegotiationTimeout: strconv.FormatUint(uint64(cfg.TLS.NegotiationTimeout), 10),
		DetailSRTPKeyExchange:       cfg.SRTP.KeyExchange,
		DetailSRTPRTPFallback:       boolStr(cfg.SRTP.RTPFallback),
	}
}

// ApplyDetails overlays the provided detail map onto the config.
// Unknown keys are ignored, malformed values keep the current setting.
func (cfg *Config) ApplyDetails(details map[string]string) {
	for key, val := range details {
		switch key {
		case DetailHostname:
			cfg.Hostname = val
		case DetailUsername:
			cfg.Username = val
		case DetailDisplayName:
			cfg.DisplayName = val
		case DetailUserAgent:
			cfg.UserAgent = val
		case DetailBindAddress:
			cfg.BindAddress = val
		case DetailLocalPort:
			setPort(&cfg.LocalPort, val)
		case DetailPublishedAddress:
			cfg.PublishedAddress = val
		case DetailPublishedPort:
			setPort(&cfg.PublishedPort, val)
		case DetailPublishedSameAs:
			cfg.PublishedSameAsLocal = boolVal(val)
		case DetailRegistrationExpire:
			if v, err := strconv.ParseUint(val, 10, 32); err == nil {
				cfg.RegistrationExpire = uint32(v)
			}
		case DetailKeepAlive:
			cfg.KeepAlive = boolVal(val)
		case DetailServiceRoute:
			cfg.ServiceRoute = val
		case DetailAllowIPAutoRewrite:
			cfg.AllowIPAutoRewrite = boolVal(val)
		case DetailDeviceKey:
			cfg.DeviceKey = val
		case DetailStunEnable:
			cfg.StunEnabled = boolVal(val)
		case DetailStunServer:
			cfg.StunServer = val
		case DetailUpnpEnable:
			cfg.UpnpEnabled = boolVal(val)
		case DetailTLSEnable:
			cfg.TLS.Enable = boolVal(val)
		case DetailTLSListenerPort:
			setPort(&cfg.TLS.ListenerPort, val)
		case DetailTLSCiphers:
			cfg.TLS.Ciphers = val
		case DetailTLSMethod:
			cfg.TLS.Method = val
		case DetailTLSServerName:
			cfg.TLS.ServerName = val
		case DetailTLSVerifyServer:
			cfg.TLS.VerifyServer = boolVal(val)
		case DetailTLSVerifyClient:
			cfg.TLS.VerifyClient = boolVal(val)
		case DetailTLSRequireClientCert:
			cfg.TLS.RequireClientCert = boolVal(val)
		case DetailTLSNegotiationTimeout:
			if v, err := strconv.ParseUint(val, 10, 32); err == nil {
				cfg.TLS.NegotiationTimeout = uint(v)
			}
		case DetailSRTPKeyExchange:
			cfg.SRTP.KeyExchange = val
		case DetailSRTPRTPFallback:
			cfg.SRTP.RTPFallback = boolVal(val)
		}
	}
	cfg.normalize()
}

func boolStr(v bool) string {
	if v {
		return trueStr
	}
	return falseStr
}

func boolVal(s string) bool { return util.EqFold(s, trueStr) || s == "1" }

func setPort(dst *uint16, val string) {
	if v, err := strconv.ParseUint(val, 10, 16); err == nil {
		*dst = uint16(v)
	}
}

// The cipher suite and protocol lists of the TLS stack are static for the
// process lifetime, so they are computed once and shared read-only.
var supportedTLSCiphers = sync.OnceValue(func() []string {
	suites := tls.CipherSuites()
	names := make([]string, 0, len(suites))
	for _, s := range suites {
		names = append(names, s.Name)
	}
	return names
})

// SupportedTLSCiphers returns the cipher suite names available to TLS
// transports. The returned slice is shared and must not be mutated.
// Safe for concurrent use after first initialization.
func SupportedTLSCiphers() []string { return supportedTLSCiphers() }

var validTLSMethods = []string{"Default", "TLSv1.2", "TLSv1.1", "TLSv1"}

// SupportedTLSMethods returns the accepted values of the TLS method setting.
func SupportedTLSMethods() []string { return validTLSMethods }
