// Package adminauth verifies ed25519-signed admin grants on admin routes.
package adminauth

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrGrantInvalid indicates a malformed or badly signed grant.
	ErrGrantInvalid = errors.New("admin grant is invalid")
	// ErrGrantExpired indicates a grant past its expiry.
	ErrGrantExpired = errors.New("admin grant is expired")
	// ErrGrantMismatch indicates a grant minted for another service.
	ErrGrantMismatch = errors.New("admin grant issuer or audience mismatch")
)

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Issuer    string `env:"CLASSFUND_ADMIN_GRANT_ISSUER"`
	Audience  string `env:"CLASSFUND_ADMIN_GRANT_AUDIENCE"`
	PublicKey string `env:"CLASSFUND_ADMIN_GRANT_PUBLIC_KEY"`
}

// Config defines how admin grants are verified. A zero Config disables
// the admin boundary, which suits local development.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// Enabled reports whether grant verification is configured.
func (c Config) Enabled() bool {
	return c.Issuer != "" || c.Audience != "" || len(c.Key) > 0
}

// Claims captures validated admin grant claims.
type Claims struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
	JWTID     string
}

// grantClaims is the internal claims type used for JWT parsing.
type grantClaims struct {
	jwt.RegisteredClaims
}

// LoadConfigFromEnv reads grant verification configuration. All three
// variables absent means the boundary is disabled; a partial set is a
// configuration error.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw grantEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse admin grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" && audience == "" && publicKey == "" {
		return Config{}, nil
	}
	if issuer == "" {
		return Config{}, fmt.Errorf("CLASSFUND_ADMIN_GRANT_ISSUER is required")
	}
	if audience == "" {
		return Config{}, fmt.Errorf("CLASSFUND_ADMIN_GRANT_AUDIENCE is required")
	}
	if publicKey == "" {
		return Config{}, fmt.Errorf("CLASSFUND_ADMIN_GRANT_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode admin grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return Config{}, fmt.Errorf("admin grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// ValidateGrant verifies an admin grant token and validates its claims.
func ValidateGrant(grant string, cfg Config) (Claims, error) {
	grant = strings.TrimSpace(grant)
	if grant == "" {
		return Claims{}, ErrGrantInvalid
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return Claims{}, errors.New("admin grant verifier is not configured")
	}

	var parsed grantClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrGrantInvalid, err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return Claims{}, ErrGrantMismatch
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return Claims{}, ErrGrantMismatch
	}
	if parsed.ID == "" {
		return Claims{}, ErrGrantInvalid
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, ErrGrantInvalid
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, ErrGrantExpired
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return Claims{}, ErrGrantInvalid
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, ErrGrantInvalid
	}

	return Claims{
		Subject:   parsed.Subject,
		Issuer:    parsed.Issuer,
		ExpiresAt: exp,
		JWTID:     parsed.ID,
	}, nil
}

// SignGrant mints a signed admin grant. It is used by the local key
// tooling, not the server.
func SignGrant(key ed25519.PrivateKey, issuer, audience, subject, jwtID string, ttl time.Duration, now func() time.Time) (string, error) {
	if len(key) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("admin grant private key must be %d bytes", ed25519.PrivateKeySize)
	}
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		return "", errors.New("admin grant ttl must be positive")
	}
	issued := now().UTC()
	claims := grantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    strings.TrimSpace(issuer),
			Audience:  jwt.ClaimStrings{strings.TrimSpace(audience)},
			Subject:   strings.TrimSpace(subject),
			ID:        strings.TrimSpace(jwtID),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign admin grant: %w", err)
	}
	return signed, nil
}

// Middleware rejects requests without a valid bearer grant. A disabled
// config passes every request through.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		if !cfg.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			grant := bearerToken(r.Header.Get("Authorization"))
			if _, err := ValidateGrant(grant, cfg); err != nil {
				writeUnauthorized(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	message := "admin grant is required"
	switch {
	case errors.Is(err, ErrGrantExpired):
		message = "admin grant is expired"
	case errors.Is(err, ErrGrantMismatch):
		message = "admin grant is not valid for this service"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "UNAUTHENTICATED",
			"message": message,
		},
	})
}

func audienceContains(audience jwt.ClaimStrings, expected string) bool {
	for _, value := range audience {
		if value == expected {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
