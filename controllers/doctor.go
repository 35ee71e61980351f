package controllers

import (
	"ayursutra/authentication"
	"ayursutra/models"
	"ayursutra/services"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DoctorService is what the doctor handlers call.
type DoctorService interface {
	InsertDoctor(ctx context.Context, d *models.Doctor) (string, error)
	Login(ctx context.Context, docName, password string) (bool, error)
	ClientsForDoctor(ctx context.Context, docName string) ([]models.ClientInfo, error)
	SearchDoctorByName(ctx context.Context, docName string) (*models.Doctor, error)
	DoctorsByLocation(ctx context.Context, address string) ([]models.DoctorListing, error)
}

var _ DoctorService = (*services.DoctorService)(nil)

// DoctorController serves the doctor routes and the directory lookup.
type DoctorController struct {
	svc      DoctorService
	sessions *SessionController
	log      zerolog.Logger
}

func NewDoctorController(svc DoctorService, sessions *SessionController, log zerolog.Logger) *DoctorController {
	return &DoctorController{svc: svc, sessions: sessions, log: log}
}

// InsertDoctor registers a doctor from the JSON body.
func (dc *DoctorController) InsertDoctor(c *gin.Context) {
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := dc.svc.InsertDoctor(c.Request.Context(), &doctor)
	if err != nil {
		fail(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": msg})
}

// Login checks doctor credentials and opens a session.
func (dc *DoctorController) Login(c *gin.Context) {
	name := c.Param("name")
	ok, err := dc.svc.Login(c.Request.Context(), name, c.Param("password"))
	if err != nil {
		fail(c, dc.log, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "failure", "message": "User not present"})
		return
	}

	token, err := dc.sessions.issue(c, &authentication.Principal{Name: name, Role: authentication.RoleDoctor})
	if err != nil {
		fail(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "User present",
		"name":    name,
		"token":   token,
	})
}

// ClientsInfo lists the patients booked with the path doctor. A doctor
// only sees their own clients.
func (dc *DoctorController) ClientsInfo(c *gin.Context) {
	me, ok := principal(c)
	if !ok {
		return
	}
	docName := c.Param("docname")
	if me.Role != authentication.RoleDoctor || me.Name != docName {
		c.JSON(http.StatusForbidden, gin.H{"status": "failure", "error": "forbidden"})
		return
	}

	clients, err := dc.svc.ClientsForDoctor(c.Request.Context(), docName)
	if err != nil {
		fail(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// Profile renders the doctor's public profile as plain text.
func (dc *DoctorController) Profile(c *gin.Context) {
	d, err := dc.svc.SearchDoctorByName(c.Request.Context(), c.Param("docName"))
	if err != nil {
		if statusFor(err) == http.StatusNotFound {
			c.String(http.StatusNotFound, "Doctor not found")
			return
		}
		fail(c, dc.log, err)
		return
	}
	c.String(http.StatusOK, profileText(d))
}

// ByLocation lists doctors practising at exactly the path address.
func (dc *DoctorController) ByLocation(c *gin.Context) {
	listings, err := dc.svc.DoctorsByLocation(c.Request.Context(), c.Param("address"))
	if err != nil {
		fail(c, dc.log, err)
		return
	}
	if listings == nil {
		listings = []models.DoctorListing{}
	}
	c.JSON(http.StatusOK, listings)
}

func profileText(d *models.Doctor) string {
	return fmt.Sprintf("Name: %s\nAddress: %s\nQualification: %s\nExperience: %d years\nPhone: %d",
		d.DocName, d.Address, d.Qualification, d.Experience, d.PhoneNo)
}
