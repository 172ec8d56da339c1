package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/palette/art-club-go/config"
	controllers "github.com/palette/art-club-go/controllers"
	middleware "github.com/palette/art-club-go/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	protect := middleware.Protect(cfg)
	optional := middleware.OptionalAuth(cfg)
	admin := middleware.AdminOnly()

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register(cfg))
		auth.POST("/verify-code", controllers.VerifyCode(cfg))
		auth.POST("/login", controllers.Login(cfg))
		auth.GET("/me", protect, controllers.Me(cfg))
		auth.PUT("/profile", protect, controllers.UpdateProfile(cfg))
	}

	events := r.Group("/events")
	{
		events.GET("/upcoming", controllers.ListUpcomingEvents(cfg))
		events.GET("/past", controllers.ListPastEvents(cfg))
		events.GET("/my-events", protect, controllers.MyEvents(cfg))

		events.POST("", protect, admin, controllers.CreateEvent(cfg))
		events.PUT("/:id", protect, admin, controllers.UpdateEvent(cfg))
		events.DELETE("/:id", protect, admin, controllers.DeleteEvent(cfg))

		events.POST("/:id/apply", protect, controllers.ApplyToEvent(cfg))
		events.DELETE("/:id/cancel", protect, controllers.CancelRegistration(cfg))

		// Must stay last among the GETs so it does not shadow the fixed paths.
		events.GET("/:id", controllers.GetEvent(cfg))
	}

	artwork := r.Group("/artwork")
	{
		artwork.POST("", protect, controllers.UploadArtwork(cfg))
		artwork.GET("/my-artworks", protect, controllers.MyArtworks(cfg))
		artwork.GET("", optional, controllers.ListArtworks(cfg))
		artwork.PUT("/:id/status", protect, admin, controllers.UpdateArtworkStatus(cfg))
		artwork.PUT("/:id/score", protect, admin, controllers.UpdateArtworkScore(cfg))
		artwork.DELETE("/:id", protect, controllers.DeleteArtwork(cfg))
		artwork.GET("/:id", optional, controllers.GetArtwork(cfg))
	}

	contact := r.Group("/contact")
	{
		contact.POST("", controllers.SubmitContactForm(cfg))
		contact.GET("", protect, admin, controllers.ListContactSubmissions(cfg))
		contact.DELETE("/:id", protect, admin, controllers.DeleteContactSubmission(cfg))
	}

	exhibition := r.Group("/exhibition")
	{
		exhibition.GET("", controllers.ListExhibitions(cfg))
		exhibition.GET("/:id", controllers.GetExhibition(cfg))
		exhibition.POST("", protect, admin, controllers.CreateExhibition(cfg))
		exhibition.PUT("/:id", protect, admin, controllers.UpdateExhibition(cfg))
		exhibition.DELETE("/:id", protect, admin, controllers.DeleteExhibition(cfg))
	}
}
