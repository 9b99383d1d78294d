package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/greypaperclip/cffadb/internal/config"
)

// Claims is the slice of an ID token this backend cares about.
type Claims struct {
	Subject string
	Name    string
	Email   string
}

// ErrInvalidToken covers every verification failure: bad signature, wrong
// audience or issuer, expiry, or a missing subject.
var ErrInvalidToken = errors.New("invalid identity token")

// Verifier checks HS256 ID tokens minted by the identity provider and
// extracts the claims the resolver needs. The provider signs these with the
// client secret, which the deployment already holds.
type Verifier struct {
	secret   []byte
	audience string
	issuer   string
}

// NewVerifier builds a Verifier from the identity-provider configuration.
func NewVerifier(cfg config.Auth0Config) *Verifier {
	return &Verifier{
		secret:   []byte(cfg.ClientSecret),
		audience: cfg.Audience,
		issuer:   cfg.Issuer(),
	}
}

// Verify parses and validates a raw token string.
func (v *Verifier) Verify(raw string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	out := Claims{Subject: sub}
	if name, ok := claims["name"].(string); ok {
		out.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	return out, nil
}
