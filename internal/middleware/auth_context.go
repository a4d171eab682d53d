package middleware

import (
	"context"
	"net/http"
	"strings"

	"dentalcare-backend/internal/ports/auth"
)

type claimsCtxKey struct{}

// debugUserHeader solo aplica en modo dev (sin verifier configurado).
const debugUserHeader = "X-Debug-User-ID"

// AuthContext resuelve la identidad del request y la deja en el
// contexto. No corta nunca: un request sin identidad sigue, y cada
// handler decide si la exige.
//
// Con verifier nil corre en modo dev y acepta X-Debug-User-ID. Con
// verifier configurado solo acepta Authorization: Bearer <token>.
func AuthContext(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := resolveClaims(r, verifier)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), claimsCtxKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveClaims(r *http.Request, verifier auth.TokenVerifier) (auth.Claims, bool) {
	if verifier == nil {
		uid := strings.TrimSpace(r.Header.Get(debugUserHeader))
		if uid == "" {
			return auth.Claims{}, false
		}
		return auth.Claims{UserID: uid}, true
	}

	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}
	claims, err := verifier.Verify(r.Context(), token)
	if err != nil {
		// Token inválido: el request sigue sin identidad y el
		// handler responde 401 si la operación la exige.
		return auth.Claims{}, false
	}
	return claims, true
}

// GetClaims devuelve la identidad que dejó AuthContext, si la hay.
func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsCtxKey{}).(auth.Claims)
	return c, ok
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
