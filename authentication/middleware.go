package authentication

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// SessionCookie names the cookie carrying the session token.
	SessionCookie = "session"
	principalKey  = "principal"
)

// SessionValidator checks a session token.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*Principal, error)
}

// Authenticator guards routes that need a principal.
type Authenticator struct {
	resolver Resolver
	sessions SessionValidator
	limiter  *RateLimiter
	log      zerolog.Logger
}

// NewAuthenticator returns a guard accepting Basic credentials checked
// through resolver, or session tokens checked by sessions. Basic attempts
// draw from limiter, the same buckets the login routes use; nil disables it.
func NewAuthenticator(resolver Resolver, sessions SessionValidator, limiter *RateLimiter, log zerolog.Logger) *Authenticator {
	return &Authenticator{resolver: resolver, sessions: sessions, limiter: limiter, log: log}
}

// RequireAuth aborts with 401 unless the request carries valid credentials.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var (
			p   *Principal
			err error
		)
		if name, pw, ok := c.Request.BasicAuth(); ok {
			if a.limiter != nil && !a.limiter.Allow(c.ClientIP()) {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"status": "failure", "error": "too many requests"})
				return
			}
			p, err = Authenticate(ctx, a.resolver, name, pw)
		} else if token := SessionToken(c); token != "" {
			p, err = a.sessions.Validate(ctx, token)
		} else {
			err = ErrBadCredentials
		}

		if err != nil {
			if !isAuthFailure(err) {
				a.log.Error().Err(err).Str("path", c.FullPath()).Msg("authentication lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "failure", "error": "internal error"})
				return
			}
			c.Header("WWW-Authenticate", `Basic realm="ayursutra"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "failure", "error": "authentication required"})
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireRole aborts with 403 when the principal does not hold role.
// It must run after RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "failure", "error": "authentication required"})
			return
		}
		if p.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "failure", "error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the principal RequireAuth attached to c.
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}

// SetPrincipal attaches p to c.
func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
}

// SessionToken extracts a session token from the cookie or a Bearer header.
func SessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return v
	}
	return ""
}

func isAuthFailure(err error) bool {
	return errors.Is(err, ErrPrincipalNotFound) ||
		errors.Is(err, ErrBadCredentials) ||
		errors.Is(err, ErrBadToken) ||
		errors.Is(err, ErrSessionNotFound)
}
