package controllers

import (
	"ayursutra/authentication"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SessionManager issues and revokes login sessions.
type SessionManager interface {
	Create(ctx context.Context, p *authentication.Principal) (string, error)
	Revoke(ctx context.Context, token string) error
	TTL() time.Duration
}

// SessionController serves logout.
type SessionController struct {
	sessions      SessionManager
	secureCookies bool
	log           zerolog.Logger
}

func NewSessionController(sessions SessionManager, secureCookies bool, log zerolog.Logger) *SessionController {
	return &SessionController{sessions: sessions, secureCookies: secureCookies, log: log}
}

// issue opens a session for p and sets the session cookie.
func (s *SessionController) issue(c *gin.Context, p *authentication.Principal) (string, error) {
	token, err := s.sessions.Create(c.Request.Context(), p)
	if err != nil {
		return "", err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authentication.SessionCookie, token, int(s.sessions.TTL().Seconds()), "/", "", s.secureCookies, true)
	return token, nil
}

// Logout revokes the caller's session token, if any, and clears the cookie.
func (s *SessionController) Logout(c *gin.Context) {
	if token := authentication.SessionToken(c); token != "" {
		if err := s.sessions.Revoke(c.Request.Context(), token); err != nil {
			s.log.Warn().Err(err).Msg("session revoke failed")
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authentication.SessionCookie, "", -1, "/", "", s.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Logged out"})
}
