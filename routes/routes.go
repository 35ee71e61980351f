package routes

import (
	"ayursutra/authentication"
	"ayursutra/controllers"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Patients     *controllers.PatientController
	Doctors      *controllers.DoctorController
	Sessions     *controllers.SessionController
	Health       *controllers.Health
	Auth         *authentication.Authenticator
	LoginLimiter *authentication.RateLimiter
}

// AppRoutes builds the gin engine. Registration, login and the doctor
// directory are public; everything else needs Basic credentials or a
// session token.
func AppRoutes(h Handlers, allowedOrigins []string, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gzip.Gzip(gzip.BestSpeed))

	r.GET("/healthz", h.Health.Check)

	//patient routes
	r.POST("/insert_patient", h.Patients.InsertPatient)
	r.POST("/login/:name/:password", h.LoginLimiter.Middleware(), h.Patients.Login)
	r.GET("/getDoctornameByLocation/:address", h.Doctors.ByLocation)

	//doctor routes
	r.POST("/insertingDoctor", h.Doctors.InsertDoctor)
	r.GET("/login/:name/:password", h.LoginLimiter.Middleware(), h.Doctors.Login)

	auth := r.Group("/")
	auth.Use(h.Auth.RequireAuth())
	{
		auth.POST("/logout", h.Sessions.Logout)
		auth.POST("/sendMail/:patientName", h.Patients.SendMail)
		auth.GET("/doctorgo/:docName", h.Doctors.Profile)
	}

	patient := auth.Group("/")
	patient.Use(authentication.RequireRole(authentication.RolePatient))
	{
		patient.POST("/schedule_mapping/:docName", h.Patients.ScheduleMapping)
		patient.POST("/giveFeedback/:progress", h.Patients.GiveFeedback)
		patient.GET("/patients/me", h.Patients.Me)
	}

	doctor := auth.Group("/")
	doctor.Use(authentication.RequireRole(authentication.RoleDoctor))
	{
		doctor.GET("/clientsInfo/:docname", h.Doctors.ClientsInfo)
	}

	return r
}
