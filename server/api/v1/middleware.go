package v1

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/rs/zerolog/log"
)

// auth rejection reasons, used as the result label of kubeutils_api_auth_total
const (
	authMissing   = "missing"
	authMalformed = "malformed"
	authUnknown   = "unknown_token"
)

type callerToken struct {
	caller string
	token  []byte
}

// AuthMiddleware accepts a Bearer token, or the password of Basic auth, and
// resolves it through tokens (token -> caller name). The caller name is
// stored in the context under "caller".
func AuthMiddleware(tokens map[string]string) echo.MiddlewareFunc {
	entries := make([]callerToken, 0, len(tokens))
	for token, caller := range tokens {
		entries = append(entries, callerToken{caller: caller, token: []byte(token)})
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			provided, reason := credential(c.Request().Header.Get("Authorization"))
			if reason == "" {
				if caller, ok := matchToken(entries, provided); ok {
					authTotal.WithLabelValues(caller, "ok").Inc()
					c.Set("caller", caller)
					return next(c)
				}
				reason = authUnknown
			}

			authTotal.WithLabelValues("", reason).Inc()
			log.Warn().
				Str("reason", reason).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Str("client", c.RealIP()).
				Msg("rejected unauthenticated request")

			msg := "invalid auth token"
			if reason == authMissing {
				msg = "missing authorization header"
			}
			c.Response().Header().Set("WWW-Authenticate", `Basic realm="kubeutils"`)
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: msg, Code: "UNAUTHORIZED"})
		}
	}
}

// MaxBodyMiddleware caps request bodies at limit bytes. Reads past the cap
// fail with *http.MaxBytesError.
func MaxBodyMiddleware(limit int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			req := c.Request()
			if req.Body != nil {
				req.Body = http.MaxBytesReader(c.Response(), req.Body, limit)
			}
			return next(c)
		}
	}
}

// credential extracts the token from an Authorization header. A non-empty
// reason means the header was unusable.
func credential(header string) (token, reason string) {
	if header == "" {
		return "", authMissing
	}
	scheme, value, ok := strings.Cut(header, " ")
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", authMalformed
	}

	switch {
	case strings.EqualFold(scheme, "Bearer"):
		return value, ""
	case strings.EqualFold(scheme, "Basic"):
		decoded, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return "", authMalformed
		}
		_, pass, ok := strings.Cut(string(decoded), ":")
		if !ok || pass == "" {
			return "", authMalformed
		}
		return pass, ""
	}
	return "", authMalformed
}

// matchToken compares against every entry in constant time.
func matchToken(entries []callerToken, provided string) (string, bool) {
	p := []byte(provided)
	caller, found := "", false
	for _, e := range entries {
		if subtle.ConstantTimeCompare(e.token, p) == 1 {
			caller, found = e.caller, true
		}
	}
	return caller, found
}
