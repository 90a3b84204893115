package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/minhle-dev/rentroom-backend/internal/config"
	"github.com/minhle-dev/rentroom-backend/internal/handlers"
	"github.com/minhle-dev/rentroom-backend/internal/middleware"
	"gorm.io/gorm"
)

func ipLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	listingHandler *handlers.ListingHandler,
	adminListingHandler *handlers.AdminListingHandler,
	reviewHandler *handlers.ReviewHandler,
	adminReviewHandler *handlers.AdminReviewHandler,
	reportHandler *handlers.ReportHandler,
	adminUserHandler *handlers.AdminUserHandler,
	dashboardHandler *handlers.DashboardHandler,
	locationHandler *handlers.LocationHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(ipLimiter(120, time.Minute))

	api.Get("/health", healthHandler.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(ipLimiter(10, time.Minute))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	protected := []fiber.Handler{middleware.JWTProtected(cfg), middleware.CurrentUser(db)}

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/me", append(protected, authHandler.Me)...)

	// Locations (public)
	api.Get("/locations/provinces", locationHandler.Provinces)
	api.Get("/locations/:id/children", locationHandler.Children)

	// Listings: public browse, then owner endpoints
	api.Get("/listings", listingHandler.List)
	api.Get("/listings/my", append(protected, listingHandler.MyListings)...)
	api.Get("/listings/:id", listingHandler.Get)
	api.Post("/listings", append(protected, listingHandler.Create)...)
	api.Put("/listings/:id", append(protected, listingHandler.Update)...)
	api.Delete("/listings/:id", append(protected, listingHandler.Delete)...)

	// Reviews
	api.Get("/reviews/feed", reviewHandler.Feed)
	api.Get("/listings/:id/reviews", reviewHandler.ListByListing)
	api.Post("/listings/:id/reviews", append(protected, reviewHandler.Create)...)
	api.Get("/reviews/:id", reviewHandler.Get)
	api.Put("/reviews/:id", append(protected, reviewHandler.Update)...)
	api.Delete("/reviews/:id", append(protected, reviewHandler.Delete)...)
	api.Post("/media/:id/like", append(protected, reviewHandler.ToggleMediaLike)...)

	// Reports (anonymous submissions allowed)
	api.Post("/reports", middleware.OptionalAuth(cfg), reportHandler.Create)

	// Admin panel
	admin := api.Group("/admin",
		middleware.JWTProtected(cfg),
		middleware.CurrentUser(db),
		middleware.AdminRequired(),
	)

	// Sensitive moderation actions get a tighter per-IP limit.
	sensitive := ipLimiter(30, time.Minute)

	admin.Get("/dashboard", dashboardHandler.Stats)
	admin.Get("/activity-logs", dashboardHandler.ActivityLogs)

	admin.Get("/listings", adminListingHandler.List)
	admin.Get("/listings/pending", adminListingHandler.PendingQueue)
	admin.Put("/listings/:id", adminListingHandler.Update)
	admin.Put("/listings/:id/approve", sensitive, adminListingHandler.Approve)
	admin.Put("/listings/:id/reject", sensitive, adminListingHandler.Reject)
	admin.Put("/listings/:id/visibility", sensitive, adminListingHandler.ToggleVisibility)
	admin.Delete("/listings/:id", sensitive, adminListingHandler.Delete)

	admin.Get("/reviews", adminReviewHandler.List)
	admin.Get("/reviews/pending", adminReviewHandler.PendingQueue)
	admin.Put("/reviews/:id/approve", sensitive, adminReviewHandler.Approve)
	admin.Put("/reviews/:id/reject", sensitive, adminReviewHandler.Reject)
	admin.Put("/reviews/:id/feature", sensitive, adminReviewHandler.ToggleFeatured)
	admin.Delete("/reviews/:id", sensitive, adminReviewHandler.Delete)

	admin.Get("/reports", reportHandler.List)
	admin.Get("/reports/pending", reportHandler.PendingQueue)
	admin.Get("/reports/:id", reportHandler.Get)
	admin.Put("/reports/:id", sensitive, reportHandler.Update)
	admin.Post("/reports/:id/handle", sensitive, reportHandler.Handle)

	admin.Get("/users", adminUserHandler.List)
	admin.Get("/users/:id", adminUserHandler.Get)
	admin.Put("/users/:id/role", sensitive, adminUserHandler.UpdateRole)
	admin.Put("/users/:id/lock", sensitive, adminUserHandler.ToggleLock)

	// Password resets are super-admin only.
	admin.Put("/users/:id/reset-password",
		middleware.SuperAdminRequired(), sensitive, adminUserHandler.ResetPassword)
}
