// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"authgate/config"
	"authgate/internal/domain/entity"
	"authgate/internal/domain/service"
)

// ErrTokenInvalid is returned by Decode for any token that cannot be
// authenticated: malformed structure, bad signature, or past expiration.
var ErrTokenInvalid = errors.New("token is malformed, tampered with, or expired")

// tokenClaims is the wire layout of an encoded token. The binding triple
// travels as subject plus two private claims; the payloads ride along as-is.
type tokenClaims struct {
	Domain    string         `json:"dom"`
	ClientID  string         `json:"cid"`
	UserData  map[string]any `json:"userData,omitempty"`
	TokenData map[string]any `json:"tokenData,omitempty"`
	jwt.RegisteredClaims
}

// jwtCodec is a concrete implementation of the TokenCodec interface using
// HMAC-SHA256 signed JWTs. The signature makes the token tamper-evident
// without any server-side registry.
type jwtCodec struct {
	secret []byte
}

// NewTokenCodec is the constructor for jwtCodec.
func NewTokenCodec(cfg *config.Config) (service.TokenCodec, error) {
	if cfg == nil || cfg.Token == nil || cfg.Token.Secret == "" {
		return nil, errors.New("token secret must be provided")
	}

	return &jwtCodec{secret: []byte(cfg.Token.Secret)}, nil
}

// Encode serialises the token as a signed JWT.
func (c *jwtCodec) Encode(token *entity.AuthToken) (string, error) {
	claims := tokenClaims{
		Domain:    token.Domain,
		ClientID:  token.ClientID,
		UserData:  token.UserData,
		TokenData: token.TokenData,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   token.Username,
			IssuedAt:  jwt.NewNumericDate(token.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(token.ExpiresAt),
		},
	}

	encoded, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return encoded, nil
}

// Decode parses and authenticates an encoded token.
// All failure modes collapse into ErrTokenInvalid; the parser's own error is
// attached as context for logging and tests.
func (c *jwtCodec) Decode(encoded string) (*entity.AuthToken, error) {
	claims := &tokenClaims{}

	parsed, err := jwt.ParseWithClaims(encoded, claims, func(t *jwt.Token) (any, error) {
		// Reject any token not signed with the HMAC family; accepting the
		// token's own alg header would let a forger pick the algorithm.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return c.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrTokenInvalid, err.Error())
	}
	if !parsed.Valid {
		return nil, errors.WithStack(ErrTokenInvalid)
	}

	token := &entity.AuthToken{
		Username:  claims.Subject,
		Domain:    claims.Domain,
		ClientID:  claims.ClientID,
		UserData:  claims.UserData,
		TokenData: claims.TokenData,
	}
	if claims.IssuedAt != nil {
		token.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		token.ExpiresAt = claims.ExpiresAt.Time
	} else {
		// A token without an expiration is not one we issued.
		return nil, errors.Wrap(ErrTokenInvalid, "missing expiration")
	}

	return token, nil
}
