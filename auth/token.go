package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cristalhq/jwt/v5"
)

var (
	ErrTokenMissing = errors.New("token missing")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the token payload. Id identifies the account.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Id       string `json:"id"`
}

// Tokens issues and verifies HS256 tokens signed with a shared secret.
type Tokens struct {
	signer   jwt.Signer
	verifier jwt.Verifier
	ttl      time.Duration
	now      func() time.Time
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("empty token secret")
	}
	signer, err := jwt.NewSignerHS(jwt.HS256, []byte(secret))
	if err != nil {
		return nil, err
	}
	verifier, err := jwt.NewVerifierHS(jwt.HS256, []byte(secret))
	if err != nil {
		return nil, err
	}
	return &Tokens{
		signer:   signer,
		verifier: verifier,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// CreateToken signs a token for the given account.
func (t *Tokens) CreateToken(userId, username string) (string, error) {
	now := t.now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userId,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Username: username,
		Id:       userId,
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	token, err := jwt.NewBuilder(t.signer).Build(claims)
	if err != nil {
		return "", err
	}
	return token.String(), nil
}

// CheckToken verifies the signature and expiry of a token and returns its
// claims. Any failure is reported as ErrTokenInvalid.
func (t *Tokens) CheckToken(token string) (*Claims, error) {
	var claims Claims
	err := jwt.ParseClaims([]byte(token), t.verifier, &claims)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrTokenInvalid)
	}
	if !claims.IsValidAt(t.now()) {
		return nil, fmt.Errorf("expired: %w", ErrTokenInvalid)
	}
	if claims.Id == "" {
		return nil, fmt.Errorf("no account id in payload: %w", ErrTokenInvalid)
	}
	return &claims, nil
}

// TokenFromHeader extracts the token from an "Authorization: Bearer <token>"
// header value.
func TokenFromHeader(authorization string) (string, error) {
	if authorization == "" {
		return "", ErrTokenMissing
	}
	if !strings.HasPrefix(authorization, "Bearer ") {
		return "", fmt.Errorf("malformed authorization header: %w", ErrTokenMissing)
	}
	token := strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
	if token == "" {
		return "", ErrTokenMissing
	}
	return token, nil
}
