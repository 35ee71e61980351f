package controllers

import (
	"ayursutra/authentication"
	"ayursutra/notification"
	"ayursutra/repository"
	"ayursutra/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrPatientNotFound),
		errors.Is(err, services.ErrDoctorNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, authentication.ErrPrincipalNotFound),
		errors.Is(err, authentication.ErrBadCredentials),
		errors.Is(err, authentication.ErrBadToken),
		errors.Is(err, authentication.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrPatientExists),
		errors.Is(err, services.ErrDoctorExists),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, notification.ErrSendFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail writes the structured error body for err. Internal errors are
// logged and hidden from the client.
func fail(c *gin.Context, log zerolog.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"status": "failure", "error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "error": "Binding error", "data": err.Error()})
}

// principal returns the authenticated identity or answers 401.
func principal(c *gin.Context) (*authentication.Principal, bool) {
	p, ok := authentication.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "failure", "error": "authentication required"})
	}
	return p, ok
}
