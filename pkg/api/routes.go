package api

import (
	"github.com/gin-gonic/gin"

	"github.com/wefitness/signup/pkg/middleware"
)

// NewRouter registers every route on a new gin engine.
func NewRouter(h *Handlers, allowedOrigin string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(allowedOrigin))

	router.GET("/health", h.HealthCheck)

	apiGroup := router.Group("/api")
	apiGroup.GET("/goals", h.ListGoals)
	apiGroup.GET("/countries", h.ListCountries)

	wizardGroup := apiGroup.Group("/wizard")
	wizardGroup.POST("", h.CreateSession)
	wizardGroup.GET("/:id", h.GetSession)
	wizardGroup.DELETE("/:id", h.DeleteSession)
	wizardGroup.PUT("/:id/fields", h.SetField)
	wizardGroup.PUT("/:id/country", h.SelectCountry)
	wizardGroup.PUT("/:id/goal", h.SelectGoal)
	wizardGroup.POST("/:id/advance", h.Advance)
	wizardGroup.POST("/:id/retreat", h.Retreat)

	if h.instagram != nil {
		router.GET("/auth/instagram/start", h.StartInstagram)
		router.GET("/auth/instagram/callback", h.InstagramCallback)
	}
	return router
}
