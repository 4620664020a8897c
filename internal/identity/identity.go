package identity

import (
	"strconv"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// CookieName carries the opaque bearer credential issued by the auth
// surface; this package only verifies it, it never mints tokens.
const CookieName = "vs_token"

// Identity is a resolved caller
type Identity struct {
	ID   int64  `json:"id,string"`
	Role string `json:"role"`
}

// Result is the outcome of a verification. Handlers treat an
// unauthenticated result as a guest, never as an error.
type Result struct {
	Authenticated bool
	Identity      Identity
}

// Unauthenticated is the guest result
var Unauthenticated = Result{}

// Verifier validates bearer credentials for every entry point, replacing
// per-route ad-hoc token parsing.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier with the shared signing secret
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify resolves the caller from the request cookie. Invalid, expired or
// absent tokens all yield Unauthenticated.
func (v *Verifier) Verify(c echo.Context) Result {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Unauthenticated
	}
	return v.VerifyToken(cookie.Value)
}

// VerifyToken validates a raw token string
func (v *Verifier) VerifyToken(token string) Result {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Unauthenticated
	}

	var id int64
	switch uid := claims["uid"].(type) {
	case float64:
		id = int64(uid)
	case string:
		id, _ = strconv.ParseInt(uid, 10, 64)
	}
	if id == 0 {
		return Unauthenticated
	}
	role, _ := claims["role"].(string)
	return Result{Authenticated: true, Identity: Identity{ID: id, Role: role}}
}
