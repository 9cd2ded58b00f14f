package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or fails validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSecret is returned at construction when no signing material is available.
	ErrMissingSecret = errors.New("missing signing secret")
)

// TokenType distinguishes access from refresh tokens in the "type" claim.
type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
)

// Claims holds the JWT claims for both token types. Subject is the session key.
type Claims struct {
	jwt.RegisteredClaims
	Type TokenType `json:"type"`
	// Fresh is set on access tokens minted directly from a password login.
	Fresh bool `json:"fresh,omitempty"`
}

// Token is a signed JWT with its jti and expiry.
type Token struct {
	Value     string
	JTI       string
	ExpiresAt time.Time
}

// TokenProvider issues and validates access and refresh JWTs. It signs with HS256
// (shared secret) or RS256/ES256 (private/public key).
type TokenProvider struct {
	method     jwt.SigningMethod
	signKey    any
	verifyKey  any
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenProvider returns a TokenProvider that signs with the given private key (RS256 or ES256).
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, accessTTL, refreshTTL time.Duration) (*TokenProvider, error) {
	if privateKey == nil || publicKey == nil {
		return nil, ErrMissingSecret
	}
	var method jwt.SigningMethod
	switch privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return nil, ErrInvalidKey
	}
	return newProvider(method, privateKey, publicKey, issuer, audience, accessTTL, refreshTTL), nil
}

// NewHMACTokenProvider returns a TokenProvider that signs with HS256 using secret.
func NewHMACTokenProvider(secret []byte, issuer, audience string, accessTTL, refreshTTL time.Duration) (*TokenProvider, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	return newProvider(jwt.SigningMethodHS256, secret, secret, issuer, audience, accessTTL, refreshTTL), nil
}

func newProvider(method jwt.SigningMethod, signKey, verifyKey any, issuer, audience string, accessTTL, refreshTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		method:     method,
		signKey:    signKey,
		verifyKey:  verifyKey,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Alg returns the JWS algorithm name (HS256, RS256 or ES256).
func (p *TokenProvider) Alg() string { return p.method.Alg() }

// AccessTTL returns the access token lifetime.
func (p *TokenProvider) AccessTTL() time.Duration { return p.accessTTL }

// IssueAccess issues an access JWT whose subject is the session key.
func (p *TokenProvider) IssueAccess(sessionKey string, fresh bool) (Token, error) {
	return p.issue(sessionKey, TypeAccess, fresh, p.accessTTL)
}

// IssueRefresh issues a refresh JWT whose subject is the session key.
func (p *TokenProvider) IssueRefresh(sessionKey string) (Token, error) {
	return p.issue(sessionKey, TypeRefresh, false, p.refreshTTL)
}

func (p *TokenProvider) issue(subject string, typ TokenType, fresh bool, ttl time.Duration) (Token, error) {
	jti, err := generateJTI()
	if err != nil {
		return Token{}, err
	}
	now := p.now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subject,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Type:  typ,
		Fresh: fresh,
	}
	signed, err := jwt.NewWithClaims(p.method, claims).SignedString(p.signKey)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, JTI: jti, ExpiresAt: expiresAt}, nil
}

// ValidateAccess parses and validates an access token (signature, exp, iss, aud, type).
func (p *TokenProvider) ValidateAccess(tokenString string) (*Claims, error) {
	return p.validate(tokenString, TypeAccess)
}

// ValidateRefresh parses and validates a refresh token (signature, exp, iss, aud, type).
func (p *TokenProvider) ValidateRefresh(tokenString string) (*Claims, error) {
	return p.validate(tokenString, TypeRefresh)
}

func (p *TokenProvider) validate(tokenString string, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return p.verifyKey, nil
	},
		jwt.WithValidMethods([]string{p.method.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != want || claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
