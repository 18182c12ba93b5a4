// Package router registers the HTTP routes and binds the middleware chain to
// each group: language resolution everywhere, the rate limiter on the auth
// surface, JWT on everything private, and role gates on top.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/auth"
	"github.com/sanadhub/donations-backend/internal/handler"
	"github.com/sanadhub/donations-backend/internal/middleware"
	"github.com/sanadhub/donations-backend/internal/model"
)

// Handlers collects every handler the router wires up.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Campaigns *handler.CampaignHandler
	Cases     *handler.CaseHandler
	Donations *handler.DonationHandler
	Emergency *handler.EmergencyHandler
	Ads       *handler.AdHandler
	Partners  *handler.PartnerHandler
	Support   *handler.SupportHandler
	Audit     *handler.AuditHandler
	Reports   *handler.ReportHandler
	Settings  *handler.SettingsHandler
	Health    echo.HandlerFunc
}

// Register wires all routes under /api. rateLimit guards the credential
// endpoints only; everything else is bounded by authentication.
func Register(e *echo.Echo, h Handlers, codec *auth.Codec, rateLimit echo.MiddlewareFunc) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api")
	api.Use(middleware.ResolveLanguage())

	// Credential endpoints: rate limited, no JWT.
	ag := api.Group("/auth")
	ag.POST("/register", h.Auth.Register, rateLimit)
	ag.POST("/login", h.Auth.Login, rateLimit)
	ag.POST("/refresh", h.Auth.Refresh, rateLimit)
	ag.POST("/logout", h.Auth.Logout)
	ag.GET("/me", h.Auth.Me, middleware.JWTAuth(codec))

	// Public browse surface.
	api.GET("/campaigns", h.Campaigns.ListPublic)
	api.GET("/campaigns/:id", h.Campaigns.GetPublic)
	api.GET("/campaigns/:id/support", h.Support.ListPublic)
	api.GET("/cases", h.Cases.ListPublic)
	api.GET("/cases/:id", h.Cases.GetPublic)
	api.GET("/emergency-fund", h.Emergency.Get)
	api.GET("/ads", h.Ads.ListPublic)
	api.GET("/partners", h.Partners.ListPublic)
	api.GET("/partners/:id", h.Partners.GetPublic)

	// Any authenticated user.
	user := api.Group("", middleware.JWTAuth(codec))
	user.POST("/donations", h.Donations.Create)
	user.GET("/donations/mine", h.Donations.ListMine)
	user.GET("/donations/:id", h.Donations.Get)
	user.POST("/campaigns/:id/support", h.Support.Create)
	user.POST("/support/:id/report", h.Support.Report)

	// Beneficiary case surface.
	ben := api.Group("/my/cases", middleware.JWTAuth(codec),
		middleware.RequireRole(model.RoleBeneficiary))
	ben.POST("", h.Cases.Create)
	ben.GET("", h.Cases.ListMine)
	ben.GET("/:id", h.Cases.Get)
	ben.PUT("/:id", h.Cases.Update)

	// Admin console.
	admin := api.Group("/admin", middleware.JWTAuth(codec),
		middleware.RequireRole(model.RoleAdmin))

	admin.GET("/users", h.Users.List)
	admin.POST("/users", h.Users.Create)
	admin.GET("/users/:id", h.Users.Get)
	admin.PUT("/users/:id", h.Users.Update)
	admin.DELETE("/users/:id", h.Users.Delete)

	admin.GET("/campaigns", h.Campaigns.List)
	admin.GET("/campaigns/:id", h.Campaigns.Get)
	admin.POST("/campaigns", h.Campaigns.Create)
	admin.PUT("/campaigns/:id", h.Campaigns.Update)
	admin.PATCH("/campaigns/:id/status", h.Campaigns.SetStatus)
	admin.DELETE("/campaigns/:id", h.Campaigns.Delete)

	admin.GET("/cases", h.Cases.List)
	admin.GET("/cases/:id", h.Cases.Get)
	admin.PATCH("/cases/:id/status", h.Cases.SetStatus)
	admin.PATCH("/cases/:id/priority", h.Cases.SetPriority)
	admin.PATCH("/cases/:id/partner", h.Cases.SetPartner)
	admin.POST("/cases/:id/updates", h.Cases.AddUpdate)

	admin.GET("/donations", h.Donations.List)
	admin.GET("/donations/:id", h.Donations.Get)

	admin.PUT("/emergency-fund", h.Emergency.Update)

	admin.GET("/ads", h.Ads.List)
	admin.POST("/ads", h.Ads.Create)
	admin.PUT("/ads/:id", h.Ads.Update)
	admin.PATCH("/ads/:id/status", h.Ads.SetStatus)
	admin.DELETE("/ads/:id", h.Ads.Delete)

	admin.GET("/partners", h.Partners.List)
	admin.POST("/partners", h.Partners.Create)
	admin.PUT("/partners/:id", h.Partners.Update)
	admin.PATCH("/partners/:id/status", h.Partners.SetStatus)
	admin.DELETE("/partners/:id", h.Partners.Delete)

	admin.GET("/support", h.Support.List)
	admin.PATCH("/support/:id", h.Support.Moderate)

	admin.GET("/audit", h.Audit.List)

	admin.GET("/reports/summary", h.Reports.Summary)
	admin.GET("/reports/donations-by-month", h.Reports.DonationsByMonth)
	admin.GET("/reports/donations-by-category", h.Reports.DonationsByCategory)
	admin.GET("/reports/top-campaigns", h.Reports.TopCampaigns)

	admin.GET("/settings", h.Settings.List)
	admin.GET("/settings/:key", h.Settings.Get)
	admin.PUT("/settings/:key", h.Settings.Upsert)
}
