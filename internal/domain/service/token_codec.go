package service

import (
	"authgate/internal/domain/entity"
)

// TokenCodec serialises an AuthToken to and from an opaque, tamper-evident
// string. Encoding is self-contained: no server-side registry of issued
// tokens exists, so the encoded form must carry everything validation needs.
//
// The encoded string is safe to transmit as a bearer token in a header or
// query parameter. No other property of its format is a contract.
type TokenCodec interface {
	// Encode serialises the token. Any later modification of the encoded
	// string must cause Decode to fail.
	Encode(token *entity.AuthToken) (string, error)

	// Decode parses and authenticates an encoded token. It fails on
	// malformed input, a bad signature, or an expired token. Whether the
	// decoded token belongs to the caller's binding triple is the caller's
	// check, not the codec's.
	Decode(encoded string) (*entity.AuthToken, error)
}
