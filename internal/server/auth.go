package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/matzehuels/vitae/pkg/render/skin"
)

// Claims carries the caller's subscription tier.
type Claims struct {
	Tier string `json:"tier"`
	jwt.RegisteredClaims
}

// TokenVerifier issues and validates HS256 tier tokens.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier returns a verifier for secret. With an empty secret
// every token is rejected.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Issue signs a token for tier that expires after ttl.
func (v *TokenVerifier) Issue(tier skin.Tier, ttl time.Duration) (string, error) {
	if len(v.secret) == 0 {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	now := time.Now()
	claims := &Claims{
		Tier: string(tier),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a token and returns its tier.
func (v *TokenVerifier) Verify(token string) (skin.Tier, error) {
	if len(v.secret) == 0 {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	if token == "" {
		return "", fmt.Errorf("token string is empty")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	tier, err := skin.ParseTier(claims.Tier)
	if err != nil {
		return "", err
	}
	return tier, nil
}

type tierKey struct{}

// TierFromContext returns the caller tier, FREE when none was set.
func TierFromContext(ctx context.Context) skin.Tier {
	if t, ok := ctx.Value(tierKey{}).(skin.Tier); ok {
		return t
	}
	return skin.TierFree
}

// withTier resolves the bearer token into a tier. A missing header means
// FREE; a present but invalid token is rejected.
func (s *Server) withTier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			s.errorResponse(w, http.StatusUnauthorized, "Invalid authorization header")
			return
		}
		tier, err := s.tokens.Verify(parts[1])
		if err != nil {
			s.logger.Debug("token rejected", "err", err)
			s.errorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), tierKey{}, tier)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
