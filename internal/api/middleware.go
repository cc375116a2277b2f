package api

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pdamkota/asetledger/internal/domain"
)

// Authenticator verifies bearer tokens and gates routes by role.
type Authenticator struct {
	secret   []byte
	disabled bool
}

// NewAuthenticator creates a role gate using the given HMAC secret.
func NewAuthenticator(secret string, disabled bool) *Authenticator {
	return &Authenticator{secret: []byte(secret), disabled: disabled}
}

// Claims is the expected token payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Require returns middleware that rejects requests whose token is missing,
// invalid, or carries a role outside the allowed set. Every auth failure is
// reported the same way so the response does not reveal which check failed.
func (a *Authenticator) Require(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a.disabled {
				next.ServeHTTP(w, r)
				return
			}

			role, err := a.roleFrom(r)
			if err != nil {
				writeError(w, err)
				return
			}
			if !allowed[role] {
				writeError(w, domain.Forbiddenf("role %s is not permitted here", role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Authenticator) roleFrom(r *http.Request) (domain.Role, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", domain.Forbiddenf("missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.Forbiddenf("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.Forbiddenf("invalid token")
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return "", domain.Forbiddenf("unknown role %q", claims.Role)
	}
	return role, nil
}
