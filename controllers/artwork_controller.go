package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/palette/art-club-go/config"
	middleware "github.com/palette/art-club-go/middleware"
	models "github.com/palette/art-club-go/models"
	repository "github.com/palette/art-club-go/repository"
	services "github.com/palette/art-club-go/services"
	utils "github.com/palette/art-club-go/utils"
)

func newArtworkService(cfg *config.Config) *services.ArtworkService {
	db := cfg.MongoClient.Database(cfg.DBName)
	return services.NewArtworkService(repository.NewArtworkRepository(db), utils.DeleteFromCloudinary)
}

// optionalUser returns the principal when the request carried a valid token.
func optionalUser(c *gin.Context) *models.AuthUser {
	if user, ok := middleware.CurrentUser(c); ok {
		return &user
	}
	return nil
}

// ---------------- SUBMIT ----------------

func UploadArtwork(cfg *config.Config) gin.HandlerFunc {
	svc := newArtworkService(cfg)
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		var input struct {
			Title       string `form:"title"`
			Description string `form:"description"`
			Credits     string `form:"credits"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := services.SubmitArtworkInput{
			Title:       input.Title,
			Description: input.Description,
			Credits:     input.Credits,
		}

		fileHeader, err := c.FormFile("image")
		if err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
				return
			}
			url, err := utils.UploadToCloudinary(file, utils.ArtworkFolder)
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
				return
			}
			in.ImageURL = url
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		artwork, err := svc.Submit(ctx, in, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, artwork)
	}
}

// ---------------- LIST / GET ----------------

func ListArtworks(cfg *config.Config) gin.HandlerFunc {
	svc := newArtworkService(cfg)
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		artworks, err := svc.List(ctx, optionalUser(c), c.Query("status"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, artworks)
	}
}

func MyArtworks(cfg *config.Config) gin.HandlerFunc {
	svc := newArtworkService(cfg)
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		artworks, err := svc.MyArtworks(ctx, user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, artworks)
	}
}

func GetArtwork(cfg *config.Config) gin.HandlerFunc {
	svc := newArtworkService(cfg)
	return func(c *gin.Context) {
		artworkID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artwork id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		artwork, err := svc.Get(ctx, artworkID, optionalUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, artwork)
	}
}

// ---------------- MODERATE ----------------

func UpdateArtworkStatus(cfg *config.Config) gin.HandlerFunc {
	svc := newArtworkService(cfg)
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		artworkID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artwork id"})
			return
		}

		var input struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		artwork, err := svc.SetStatus(ctx, artworkID, input.Status, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, artwork)
	}
}

func UpdateArtworkScore(cfg *config.Config) gin.HandlerFunc {
	svc := newArtworkService(cfg)
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		artworkID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artwork id"})
			return
		}

		var input struct {
			Score *float64 `json:"score"`
		}
		if err := c.ShouldBindJSON(&input); err != nil || input.Score == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "score must be a number between 0 and 100"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		artwork, err := svc.SetScore(ctx, artworkID, *input.Score, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, artwork)
	}
}

// ---------------- DELETE ----------------

func DeleteArtwork(cfg *config.Config) gin.HandlerFunc {
	svc := newArtworkService(cfg)
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		artworkID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artwork id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := svc.Remove(ctx, artworkID, user); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "artwork removed"})
	}
}
