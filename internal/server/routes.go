package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes builds the Gin router with the full middleware stack
// and the portal's HTTP surface.
func (s *Server) RegisterRoutes() http.Handler {
	if s.cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // session cookie
	}))

	r.GET("/health", s.healthHandler)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", s.authHandler.Signup)
			authGroup.POST("/login", s.authHandler.Login)
			authGroup.POST("/logout", s.authHandler.Logout)
			authGroup.GET("/me", s.authHandler.Me)
			authGroup.PUT("/update-profile", s.authHandler.UpdateProfile)
		}

		api.GET("/students", s.rosterHandler.List)
		api.GET("/students/export", s.rosterHandler.Export)

		payGroup := api.Group("/payment")
		payGroup.Use(SessionAuthMiddleware(s.sessions))
		{
			payGroup.POST("/process", s.paymentHandler.Process)
			payGroup.GET("/history", s.paymentHandler.History)
		}
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	response := make(map[string]any)
	response["status"] = "healthy"
	response["database"] = s.db.Health(c.Request.Context())

	c.JSON(http.StatusOK, response)
}
