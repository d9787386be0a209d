package sip

import (
	"fmt"

	"github.com/ghettovoice/sipreg/internal/util"
)

// Push notification provider tags appended to the contact header when a
// device key is present. The tag is fixed per target platform.
const (
	PushProviderFCM  = "fcm"
	PushProviderAPNS = "apns"
)

// ContactSpec collects the inputs of a rendered contact header value.
type ContactSpec struct {
	User        string
	DisplayName string
	Addr        Addr
	// Secure selects the sips scheme and the transport=tls parameter.
	Secure bool
	// DeviceKey enables the push notification parameters when non-empty.
	DeviceKey string
	// PushProvider overrides the provider tag, [PushProviderFCM] when empty.
	PushProvider string
}

// FormatContact renders a SIP contact header value:
//
//	"John Doe" <sips:jdoe@10.10.10.10:5060;transport=tls>
//
// and, when a device key is set:
//
//	"John Doe" <sips:jdoe@10.10.10.10:5060;transport=tls;pn-provider=fcm;pn-param=;pn-prid=KEY>
//
// An empty result means no usable contact address was available.
func FormatContact(spec ContactSpec) string {
	if spec.Addr.IsZero() || spec.Addr.Host() == "" {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	if spec.DisplayName != "" {
		fmt.Fprintf(sb, "%q ", spec.DisplayName)
	}

	scheme := "sip"
	if spec.Secure {
		scheme = "sips"
	}

	sb.WriteString("<")
	sb.WriteString(scheme)
	sb.WriteString(":")
	if spec.User != "" {
		sb.WriteString(spec.User)
		sb.WriteString("@")
	}
	sb.WriteString(spec.Addr.String())
	if spec.Secure {
		sb.WriteString(";transport=tls")
	}

	if spec.DeviceKey != "" {
		provider := spec.PushProvider
		if provider == "" {
			provider = PushProviderFCM
		}
		fmt.Fprintf(sb, ";pn-provider=%s;pn-param=;pn-prid=%s", provider, spec.DeviceKey)
	}
	sb.WriteString(">")

	return sb.String()
}
