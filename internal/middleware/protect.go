package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload accepted by Protect.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the caller attached to the request context by Protect.
type Identity struct {
	Subject string
	Role    string
}

type identityKey struct{}

// IdentityFrom returns the identity Protect stored in ctx.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// Protect rejects requests without a valid HS256 bearer token and stores the
// token's subject and role in the request context.
func Protect(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r.Header.Get("Authorization"))
			if raw == "" {
				writeFail(w, http.StatusUnauthorized, "you are not logged in: please log in to get access")
				return
			}

			var claims Claims
			token, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return key, nil
			})
			if err != nil || !token.Valid {
				writeFail(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := WithIdentity(r.Context(), Identity{Subject: claims.Subject, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RestrictTo allows only identities whose role is in roles. It must run after Protect.
func RestrictTo(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				writeFail(w, http.StatusUnauthorized, "you are not logged in: please log in to get access")
				return
			}
			if !slices.Contains(roles, id.Role) {
				writeFail(w, http.StatusForbidden, "you do not have permission to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly chains Protect and RestrictTo("admin").
func AdminOnly(secret string) func(http.Handler) http.Handler {
	protect, restrict := Protect(secret), RestrictTo("admin")
	return func(next http.Handler) http.Handler {
		return protect(restrict(next))
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
