package account

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"

	"braces.dev/errtrace"
	"github.com/google/uuid"

	"github.com/ghettovoice/sipreg/internal/errorutil"
	"github.com/ghettovoice/sipreg/sip"
)

// challenge holds the parsed server authentication challenge.
// Currently only Digest with MD5 is supported.
type challenge struct {
	realm     string
	nonce     string
	algorithm string
	other     map[string]string
}

var challengeParamRe = regexp.MustCompile(`([\w]+)="([^"]*)"`)

func parseChallenge(value string) *challenge {
	ch := &challenge{
		algorithm: "MD5",
		other:     make(map[string]string),
	}

	for _, match := range challengeParamRe.FindAllStringSubmatch(value, -1) {
		switch match[1] {
		case "realm":
			ch.realm = match[2]
		case "algorithm":
			ch.algorithm = match[2]
		case "nonce":
			ch.nonce = match[2]
		default:
			ch.other[match[1]] = match[2]
		}
	}

	return ch
}

// authorization computes the credentials response for a challenge.
type authorization struct {
	challenge
	username string
	uri      string
	method   string
	response string
}

// calcResponse calculates the Digest response per RFC 2617.
// ha1 is the precomputed H(A1) when the credential stores a hash,
// otherwise it is derived from the cleartext password.
func (auth *authorization) calcResponse(info authInfo) string {
	ha1 := info.Data
	if !info.DataIsHash {
		ha1 = hashCredential(auth.username, auth.realm, info.Data)
	}

	a2 := md5.Sum([]byte(auth.method + ":" + auth.uri))
	sum := md5.Sum([]byte(ha1 + ":" + auth.nonce + ":" + hex.EncodeToString(a2[:])))
	return hex.EncodeToString(sum[:])
}

func (auth *authorization) String() string {
	return fmt.Sprintf(
		`Digest realm="%s",algorithm=%s,nonce="%s",username="%s",uri="%s",response="%s"`,
		auth.realm,
		auth.algorithm,
		auth.nonce,
		auth.username,
		auth.uri,
		auth.response,
	)
}

const errNoChallengeHeader errorutil.Error = "challenge header not found in response"

// authorizeRequest satisfies the challenge carried by res on req: it builds
// the authorization header from the matching credential, refreshes the Via
// branch and increments the CSeq by exactly one, leaving the request ready
// for the single authorized resend.
func authorizeRequest(req *sip.Request, res *sip.Response, creds *credentialStore) error {
	var authenticateHeader, authorizeHeader string
	if res.Status == sip.StatusUnauthorized {
		authenticateHeader = "WWW-Authenticate"
		authorizeHeader = "Authorization"
	} else {
		// 407 Proxy authentication
		authenticateHeader = "Proxy-Authenticate"
		authorizeHeader = "Proxy-Authorization"
	}

	value, ok := res.Headers.Last(authenticateHeader)
	if !ok {
		return errtrace.Wrap(errorutil.NewWrapperError(errNoChallengeHeader, "%s", authenticateHeader))
	}

	ch := parseChallenge(value)
	info, ok := creds.infoFor(ch.realm)
	if !ok {
		return errtrace.Wrap(ErrNoCredentials)
	}

	auth := &authorization{
		challenge: *ch,
		username:  info.Username,
		uri:       req.RURI,
		method:    string(req.Method),
	}
	auth.response = auth.calcResponse(info)

	if req.Headers == nil {
		req.Headers = sip.Values{}
	}
	req.Headers.Set(authorizeHeader, auth.String())

	if req.Via.Params != nil {
		req.Via.Params.Set("branch", sip.GenerateBranch())
	}
	req.CSeq.SeqNo++

	return nil
}

// pendingAuthRequest ties a sent request to its destination, correlation id
// and challenge-retry state. It lives from the initial send until the
// terminal response; the request is never resent more than once.
type pendingAuthRequest struct {
	id      uuid.UUID
	dest    sip.Addr
	req     *sip.Request
	retried bool
	done    func(ok bool, res *sip.Response, err error)
}

// sendWithAuth transmits req through tp and drives the generic
// challenge-response retry: a 401/407 answer is satisfied from the
// credential store and the request resent exactly once; a second challenge
// terminates with [ErrAuthChallengeExhausted]. Any other terminal status
// reports success iff it is 200 or 202.
func (acc *Account) sendWithAuth(tp TransportHandle, req *sip.Request, dest sip.Addr, done func(ok bool, res *sip.Response, err error)) error {
	pend := &pendingAuthRequest{
		id:   uuid.New(),
		dest: dest,
		req:  req,
		done: done,
	}
	return errtrace.Wrap(acc.sendPending(tp, pend))
}

func (acc *Account) sendPending(tp TransportHandle, pend *pendingAuthRequest) error {
	return errtrace.Wrap(tp.Send(pend.req, pend.dest, func(res *sip.Response, err error) {
		acc.onAuthResponse(tp, pend, res, err)
	}))
}

func (acc *Account) onAuthResponse(tp TransportHandle, pend *pendingAuthRequest, res *sip.Response, err error) {
	if err != nil {
		pend.done(false, res, err)
		return
	}

	if res.IsAuthChallenge() {
		if pend.retried {
			pend.done(false, res, ErrAuthChallengeExhausted)
			return
		}

		acc.log.Debug("request challenged, resending with authorization",
			"request_id", pend.id, "method", pend.req.Method, "status", res.Status)

		acc.mu.Lock()
		authErr := authorizeRequest(pend.req, res, &acc.creds)
		acc.mu.Unlock()
		if authErr != nil {
			pend.done(false, res, authErr)
			return
		}

		pend.retried = true
		if sendErr := acc.sendPending(tp, pend); sendErr != nil {
			pend.done(false, nil, sendErr)
		}
		return
	}

	pend.done(res.Status == sip.StatusOK || res.Status == sip.StatusAccepted, res, nil)
}
