package auth

import "context"

// TokenVerifier valida un bearer token contra el identity provider de
// la clínica y devuelve los claims del usuario. Un verifier nil
// equivale a modo dev: el middleware acepta X-Debug-User-ID.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
