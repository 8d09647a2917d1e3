package handler

import (
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/middleware"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/prometheus"

	"github.com/labstack/echo/v4"
)

// Mount registers every route. auth attaches the caller's session and must
// run before the RequireAuth and RequireEvaluator guards.
func (h *Handler) Mount(e *echo.Echo, auth echo.MiddlewareFunc) {
	// Public routes - no authentication required
	e.GET("/health", h.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	authRoutes := e.Group("/auth")
	authRoutes.POST("/register", h.Register)
	authRoutes.POST("/login", h.Login)

	api := e.Group("/api", auth)

	// Catalog is public; a token is optional
	api.GET("/catalog", h.ListCatalog)
	api.GET("/catalog/:id", h.GetCatalogSolution)

	solutions := api.Group("/solutions", middleware.RequireAuth)
	solutions.GET("/mine", h.ListMySolutions)
	solutions.POST("", h.CreateSolution)
	solutions.GET("/:id", h.GetSolution)
	solutions.PATCH("/:id", h.UpdateSolution)
	solutions.DELETE("/:id", h.DeleteSolution)
	solutions.POST("/:id/interests", h.CreateInterest)

	reviews := api.Group("/review", middleware.RequireEvaluator)
	reviews.GET("/queue", h.ReviewQueue)
	reviews.PATCH("/solutions/:id", h.ReviewSolution)

	interests := api.Group("/interests", middleware.RequireAuth)
	interests.GET("/mine", h.ListMyInterests)
	interests.GET("/received", h.ListReceivedInterests)
	interests.DELETE("/:id", h.DeleteInterest)

	api.POST("/uploads/:kind", h.Upload, middleware.RequireAuth)

	wizard := api.Group("/onboarding", middleware.RequireAuth)
	wizard.POST("", h.StartOnboarding)
	wizard.GET("/:id", h.GetOnboarding)
	wizard.POST("/:id/messages", h.SendOnboardingMessage)
	wizard.POST("/:id/skip", h.SkipOnboarding)

	agentRoutes := api.Group("/agent", middleware.RequireAuth)
	agentRoutes.POST("/chat", h.AgentChat)
	agentRoutes.GET("/reports", h.ListReports)
	agentRoutes.GET("/reports/:id", h.GetReport)

	profile := api.Group("/profile", middleware.RequireAuth)
	profile.GET("", h.GetProfile)
	profile.PATCH("", h.UpdateProfile)
	profile.GET("/dashboard", h.GetDashboard)
}
