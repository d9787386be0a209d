// Package sip holds the light-weight SIP types shared between the
// registration core and its transport collaborators: addresses, Via hops,
// contact header rendering and in-memory request/response containers.
// Wire encoding and decoding of SIP messages is not part of this module.
package sip
