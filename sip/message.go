package sip

import "fmt"

// RequestMethod is a SIP request method name.
type RequestMethod string

const (
	MethodRegister RequestMethod = "REGISTER"
	MethodMessage  RequestMethod = "MESSAGE"
)

// CSeq carries the request sequence number and method.
type CSeq struct {
	SeqNo  uint32
	Method RequestMethod
}

func (cseq CSeq) String() string {
	return fmt.Sprintf("%d %s", cseq.SeqNo, cseq.Method)
}

// Request is the in-memory form of an outgoing SIP request handed to the
// transport layer. Wire rendering and parsing belong to the transport
// collaborator, not to this module.
type Request struct {
	Method RequestMethod
	// RURI is the request target.
	RURI string
	From string
	To   string
	// CallID correlates all requests of one registration dialog.
	CallID string
	CSeq   CSeq
	Via    ViaHop
	// Contact is the rendered contact header value, empty when unknown.
	Contact string
	// Expires is the requested binding lifetime in seconds.
	// Zero on a REGISTER removes the binding.
	Expires uint32
	// Routes is an opaque route set carried through to the transport layer.
	Routes []string
	// Headers holds any extra header values (authorization, user-agent, date).
	Headers Values
	// Payloads maps MIME content types to bodies for MESSAGE requests.
	Payloads map[string]string
}

// Clone returns a deep copy of the request.
func (req *Request) Clone() *Request {
	if req == nil {
		return nil
	}
	req2 := *req
	req2.Via = req.Via.Clone()
	req2.Headers = req.Headers.Clone()
	req2.Routes = append([]string(nil), req.Routes...)
	if req.Payloads != nil {
		req2.Payloads = make(map[string]string, len(req.Payloads))
		for k, v := range req.Payloads {
			req2.Payloads[k] = v
		}
	}
	return &req2
}

// Response is the in-memory form of a received SIP response.
type Response struct {
	Status StatusCode
	Reason string
	// Via is the topmost Via hop echoed by the peer, carrying the
	// "received" and "rport" parameters when the peer reports them.
	Via ViaHop
	// Expires is the binding expiration granted by the registrar,
	// negative when the response carried none.
	Expires int
	// Headers holds response header values (authenticate challenges,
	// service routes).
	Headers Values
	// Source is the network address the response packet arrived from.
	Source Addr
}

// IsSuccess reports whether the response has a 2xx status.
func (res *Response) IsSuccess() bool {
	return res != nil && res.Status >= 200 && res.Status < 300
}

// IsAuthChallenge reports whether the response demands request authorization.
func (res *Response) IsAuthChallenge() bool {
	return res != nil && (res.Status == StatusUnauthorized || res.Status == StatusProxyAuthRequired)
}

// StatusCode is a SIP response status code.
type StatusCode int

const (
	StatusOK                     StatusCode = 200
	StatusAccepted               StatusCode = 202
	StatusUnauthorized           StatusCode = 401
	StatusForbidden              StatusCode = 403
	StatusNotFound               StatusCode = 404
	StatusProxyAuthRequired      StatusCode = 407
	StatusRequestTimeout         StatusCode = 408
	StatusInternalServerError    StatusCode = 500
	StatusBadGateway             StatusCode = 502
	StatusServiceUnavailable     StatusCode = 503
	StatusServerTimeout          StatusCode = 504
	StatusBusyEverywhere         StatusCode = 600
	StatusDeclined               StatusCode = 603
	StatusDoesNotExistAnywhere   StatusCode = 604
	StatusUnacceptableEverywhere StatusCode = 606
)

var statusTexts = map[StatusCode]string{
	StatusOK:                     "OK",
	StatusAccepted:               "Accepted",
	StatusUnauthorized:           "Unauthorized",
	StatusForbidden:              "Forbidden",
	StatusNotFound:               "Not Found",
	StatusProxyAuthRequired:      "Proxy Authentication Required",
	StatusRequestTimeout:         "Request Timeout",
	StatusInternalServerError:    "Server Internal Error",
	StatusBadGateway:             "Bad Gateway",
	StatusServiceUnavailable:     "Service Unavailable",
	StatusServerTimeout:          "Server Time-out",
	StatusBusyEverywhere:         "Busy Everywhere",
	StatusDeclined:               "Decline",
	StatusDoesNotExistAnywhere:   "Does Not Exist Anywhere",
	StatusUnacceptableEverywhere: "Not Acceptable",
}

// Text returns the reason phrase for known status codes, empty otherwise.
func (code StatusCode) Text() string { return statusTexts[code] }

func (code StatusCode) String() string {
	if text, ok := statusTexts[code]; ok {
		return fmt.Sprintf("%d %s", int(code), text)
	}
	return fmt.Sprintf("%d", int(code))
}
