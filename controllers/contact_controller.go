package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/palette/art-club-go/config"
	models "github.com/palette/art-club-go/models"
	repository "github.com/palette/art-club-go/repository"
)

func newContactRepo(cfg *config.Config) *repository.ContactRepository {
	return repository.NewContactRepository(cfg.MongoClient.Database(cfg.DBName))
}

func SubmitContactForm(cfg *config.Config) gin.HandlerFunc {
	repo := newContactRepo(cfg)
	return func(c *gin.Context) {
		var input struct {
			Name    string `json:"name" binding:"required"`
			Email   string `json:"email" binding:"required"`
			Subject string `json:"subject" binding:"required"`
			Message string `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		contact := &models.Contact{
			ID:        primitive.NewObjectID(),
			Name:      input.Name,
			Email:     input.Email,
			Subject:   input.Subject,
			Message:   input.Message,
			CreatedAt: time.Now(),
		}
		if err := repo.Insert(ctx, contact); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "contact form submitted successfully"})
	}
}

func ListContactSubmissions(cfg *config.Config) gin.HandlerFunc {
	repo := newContactRepo(cfg)
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		contacts, err := repo.List(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, contacts)
	}
}

func DeleteContactSubmission(cfg *config.Config) gin.HandlerFunc {
	repo := newContactRepo(cfg)
	return func(c *gin.Context) {
		contactID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := repo.Delete(ctx, contactID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "contact submission removed"})
	}
}
