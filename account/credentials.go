package account

import (
	"crypto/md5"
	"encoding/hex"

	"braces.dev/errtrace"
)

// Credential is one digest authentication entry. The list order defines
// preference when several entries match an ambiguous realm.
type Credential struct {
	Realm    string `toml:"realm"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// authInfo is the opaque record consumed by the outgoing-request
// authorization logic. Data holds either the cleartext password or the
// precomputed H(A1) digest, DataIsHash telling which.
type authInfo struct {
	Realm      string
	Scheme     string
	Username   string
	Data       string
	DataIsHash bool
}

// credentialStore owns the account's credential list and the derived
// auth-info records.
type credentialStore struct {
	creds []Credential
	infos []authInfo
}

// set replaces the credential list. An empty list is rejected and the
// prior list stays untouched. When hashed is set, each entry stores the
// MD5 digest of "username:realm:password" (lowercase hex, 32 chars)
// instead of the cleartext password.
func (cs *credentialStore) set(creds []Credential, hashed bool) error {
	if len(creds) == 0 {
		return errtrace.Wrap(ErrNoCredentials)
	}

	newCreds := make([]Credential, len(creds))
	copy(newCreds, creds)

	infos := make([]authInfo, 0, len(creds))
	for _, c := range newCreds {
		info := authInfo{
			Realm:    c.Realm,
			Scheme:   "digest",
			Username: c.Username,
		}
		if hashed {
			info.Data = hashCredential(c.Username, c.Realm, c.Password)
			info.DataIsHash = true
		} else {
			info.Data = c.Password
		}
		infos = append(infos, info)
	}

	cs.creds = newCreds
	cs.infos = infos
	return nil
}

// list exports the (realm, username, password) triples for account detail
// round-tripping. Passwords come back in cleartext regardless of internal
// hashing.
func (cs *credentialStore) list() []Credential {
	out := make([]Credential, len(cs.creds))
	copy(out, cs.creds)
	return out
}

// infoFor selects the auth-info record for a challenge realm: the first
// entry with the exact realm, then the first wildcard ("*" or empty realm)
// entry, then the first entry overall.
func (cs *credentialStore) infoFor(realm string) (authInfo, bool) {
	if len(cs.infos) == 0 {
		return authInfo{}, false
	}
	for _, info := range cs.infos {
		if info.Realm == realm {
			return info, true
		}
	}
	for _, info := range cs.infos {
		if info.Realm == "" || info.Realm == "*" {
			return info, true
		}
	}
	return cs.infos[0], true
}

// hashCredential computes MD5(username ":" realm ":" password) as
// lowercase hex, the H(A1) form of RFC 2617 digest authentication.
func hashCredential(username, realm, password string) string {
	sum := md5.Sum([]byte(username + ":" + realm + ":" + password))
	return hex.EncodeToString(sum[:])
}
