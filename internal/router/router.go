// Package router wires the route table: middleware chains, role gates,
// static uploads and the 404 fallback.
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/NarendraPapasani/Dental-care-app/internal/config"
	"github.com/NarendraPapasani/Dental-care-app/internal/handlers"
	"github.com/NarendraPapasani/Dental-care-app/internal/middleware"
	"github.com/NarendraPapasani/Dental-care-app/internal/models"
	"github.com/NarendraPapasani/Dental-care-app/internal/response"
)

func New(cfg *config.Config, h *handlers.Handler, log zerolog.Logger) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Uploaded documents are also reachable directly by their stored URL.
	r.Static("/uploads", h.Store.Dir())
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "DentaCare API is running")
	})

	auth := middleware.Auth([]byte(cfg.JWTSecret))
	customerOnly := middleware.RequireRoles(models.RoleCustomer)
	doctorOnly := middleware.RequireRoles(models.RoleDoctor)

	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/signup", h.Signup)
		authRoutes.POST("/login", h.Login)
	}

	userRoutes := r.Group("/api/users")
	userRoutes.Use(auth)
	{
		userRoutes.GET("/me", h.Me)
		userRoutes.GET("/profile/:userId", h.GetUserProfile)
		userRoutes.PUT("/profile/:userId", h.UpdateUserProfile)
		userRoutes.GET("/role/:role", h.GetUsersByRole)
	}

	aptRoutes := r.Group("/api/appointments")
	aptRoutes.Use(auth)
	{
		aptRoutes.POST("", customerOnly, h.CreateAppointment)
		aptRoutes.GET("/patient", customerOnly, h.GetPatientAppointments)
		aptRoutes.GET("/dentist", doctorOnly, h.GetDentistAppointments)
		aptRoutes.PATCH("/:appointmentId/status", h.UpdateAppointmentStatus)
		aptRoutes.GET("/:appointmentId", h.GetAppointmentByID)
	}

	docRoutes := r.Group("/api/documents")
	docRoutes.Use(auth)
	{
		docRoutes.POST("/upload", doctorOnly, h.UploadDocument)
		docRoutes.GET("/patient", customerOnly, h.GetPatientDocuments)
		docRoutes.GET("/dentist", doctorOnly, h.GetDentistDocuments)
		docRoutes.GET("/appointment/:appointmentId", h.GetAppointmentDocuments)
		docRoutes.GET("/download/:documentId", h.DownloadDocument)
		docRoutes.DELETE("/:documentId", doctorOnly, h.DeleteDocument)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "API endpoint not found")
	})

	return r
}
