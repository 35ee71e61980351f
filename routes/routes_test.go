package routes

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ayursutra/authentication"
	"ayursutra/controllers"
	"ayursutra/models"
	"ayursutra/repository"
	"ayursutra/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type nopKV struct{}

func (nopKV) Set(context.Context, string, string, time.Duration) error { return nil }
func (nopKV) Get(context.Context, string) (string, error) {
	return "", authentication.ErrSessionNotFound
}
func (nopKV) Del(context.Context, string) error { return nil }

type noPatients struct{}

func (noPatients) PatientByName(context.Context, string) (*models.Patient, error) {
	return nil, repository.ErrNotFound
}

func newTestEngine(buf *bytes.Buffer) *gin.Engine {
	return newLimitedEngine(buf, authentication.NewRateLimiter(1, 1))
}

func newLimitedEngine(buf *bytes.Buffer, limiter *authentication.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zerolog.New(buf)
	sessions := authentication.NewSessions(nopKV{}, "test-secret", time.Hour)
	sc := controllers.NewSessionController(sessions, false, log)
	ok := controllers.PingFunc(func(context.Context) error { return nil })

	return AppRoutes(Handlers{
		Patients:     controllers.NewPatientController(&services.PatientService{}, sc, log),
		Doctors:      controllers.NewDoctorController(&services.DoctorService{}, sc, log),
		Sessions:     sc,
		Health:       controllers.NewHealth(ok, ok),
		Auth:         authentication.NewAuthenticator(authentication.NewPatientResolver(noPatients{}), sessions, limiter, log),
		LoginLimiter: limiter,
	}, []string{"http://localhost:3000"}, log)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := newTestEngine(&bytes.Buffer{})
	protected := []struct{ method, path string }{
		{http.MethodPost, "/schedule_mapping/bob"},
		{http.MethodPost, "/giveFeedback/better"},
		{http.MethodPost, "/sendMail/alice"},
		{http.MethodGet, "/clientsInfo/bob"},
		{http.MethodGet, "/doctorgo/bob"},
		{http.MethodPost, "/logout"},
		{http.MethodGet, "/patients/me"},
	}
	for _, rt := range protected {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestHealthIsPublic(t *testing.T) {
	r := newTestEngine(&bytes.Buffer{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLoggerOmitsPathParams(t *testing.T) {
	var buf bytes.Buffer
	r := newTestEngine(&buf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/doctorgo/bob", nil))

	assert.Contains(t, buf.String(), `"path":"/doctorgo/:docName"`)
	assert.Contains(t, buf.String(), `"status":401`)
	assert.NotContains(t, buf.String(), "/doctorgo/bob")
}

func TestBasicAuthGuessesAreRateLimited(t *testing.T) {
	r := newLimitedEngine(&bytes.Buffer{}, authentication.NewRateLimiter(0.001, 3))

	codes := map[int]int{}
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/patients/me", nil)
		req.RemoteAddr = "192.0.2.7:4000"
		req.SetBasicAuth("alice", fmt.Sprintf("guess-%d", i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes[w.Code]++
	}
	assert.Equal(t, map[int]int{http.StatusUnauthorized: 3, http.StatusTooManyRequests: 17}, codes)
}

func TestLoginAndBasicShareBuckets(t *testing.T) {
	r := newLimitedEngine(&bytes.Buffer{}, authentication.NewRateLimiter(0.001, 1))

	req := httptest.NewRequest(http.MethodGet, "/patients/me", nil)
	req.RemoteAddr = "192.0.2.8:4000"
	req.SetBasicAuth("alice", "guess")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/login/alice/guess", nil)
	req.RemoteAddr = "192.0.2.8:4000"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
