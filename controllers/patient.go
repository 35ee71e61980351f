package controllers

import (
	"ayursutra/authentication"
	"ayursutra/models"
	"ayursutra/services"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PatientService is what the patient handlers call.
type PatientService interface {
	InsertPatient(ctx context.Context, p *models.Patient) (string, error)
	Login(ctx context.Context, name, password string) ([]models.Patient, error)
	ScheduleMapping(ctx context.Context, patientName, docName string) (*services.Booking, error)
	GiveFeedback(ctx context.Context, name, progress string) (string, error)
	SendMailToPatient(ctx context.Context, name string) (string, error)
	Me(ctx context.Context, name string) (*models.Patient, error)
}

var _ PatientService = (*services.PatientService)(nil)

// PatientController serves the patient routes.
type PatientController struct {
	svc      PatientService
	sessions *SessionController
	log      zerolog.Logger
}

func NewPatientController(svc PatientService, sessions *SessionController, log zerolog.Logger) *PatientController {
	return &PatientController{svc: svc, sessions: sessions, log: log}
}

// InsertPatient registers a patient from the JSON body.
func (pc *PatientController) InsertPatient(c *gin.Context) {
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := pc.svc.InsertPatient(c.Request.Context(), &patient)
	if err != nil {
		fail(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": msg})
}

// Login checks the path credentials and opens a session.
func (pc *PatientController) Login(c *gin.Context) {
	patients, err := pc.svc.Login(c.Request.Context(), c.Param("name"), c.Param("password"))
	if err != nil {
		fail(c, pc.log, err)
		return
	}
	if len(patients) == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "failure"})
		return
	}

	p := patients[0]
	token, err := pc.sessions.issue(c, &authentication.Principal{Name: p.Name, Role: authentication.RolePatient})
	if err != nil {
		fail(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"name":   p.Name,
		"email":  p.Email,
		"token":  token,
	})
}

// ScheduleMapping books the authenticated patient with the path doctor.
func (pc *PatientController) ScheduleMapping(c *gin.Context) {
	me, ok := principal(c)
	if !ok {
		return
	}

	b, err := pc.svc.ScheduleMapping(c.Request.Context(), me.Name, c.Param("docName"))
	if err != nil {
		fail(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    b.Message,
		"doctor":     b.Doctor.DocName,
		"email":      b.Patient.Email,
		"email_sent": b.EmailSent,
	})
}

// GiveFeedback overwrites the authenticated patient's progress.
func (pc *PatientController) GiveFeedback(c *gin.Context) {
	me, ok := principal(c)
	if !ok {
		return
	}

	msg, err := pc.svc.GiveFeedback(c.Request.Context(), me.Name, c.Param("progress"))
	if err != nil {
		fail(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": msg})
}

func (pc *PatientController) SendMail(c *gin.Context) {
	msg, err := pc.svc.SendMailToPatient(c.Request.Context(), c.Param("patientName"))
	if err != nil {
		fail(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": msg})
}

// Me returns the authenticated patient and their doctors.
func (pc *PatientController) Me(c *gin.Context) {
	me, ok := principal(c)
	if !ok {
		return
	}

	p, err := pc.svc.Me(c.Request.Context(), me.Name)
	if err != nil {
		fail(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": models.NewPatientView(p)})
}
