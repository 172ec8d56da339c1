package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	config "github.com/palette/art-club-go/config"
	models "github.com/palette/art-club-go/models"
	repository "github.com/palette/art-club-go/repository"
	utils "github.com/palette/art-club-go/utils"
)

func newExhibitionRepo(cfg *config.Config) *repository.ExhibitionRepository {
	return repository.NewExhibitionRepository(cfg.MongoClient.Database(cfg.DBName))
}

func ListExhibitions(cfg *config.Config) gin.HandlerFunc {
	repo := newExhibitionRepo(cfg)
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		exhibitions, err := repo.List(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, exhibitions)
	}
}

func GetExhibition(cfg *config.Config) gin.HandlerFunc {
	repo := newExhibitionRepo(cfg)
	return func(c *gin.Context) {
		exhibitionID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exhibition id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		exhibition, err := repo.FindByID(ctx, exhibitionID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, exhibition)
	}
}

func CreateExhibition(cfg *config.Config) gin.HandlerFunc {
	repo := newExhibitionRepo(cfg)
	return func(c *gin.Context) {
		var input struct {
			Title       string `form:"title" binding:"required"`
			Description string `form:"description" binding:"required"`
			Date        string `form:"date" binding:"required"`
			Time        string `form:"time" binding:"required"`
			Venue       string `form:"venue" binding:"required"`
			Credits     string `form:"credits" binding:"required"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no image file uploaded"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
			return
		}
		url, err := utils.UploadToCloudinary(file, utils.ExhibitionFolder)
		file.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		exhibition := &models.Exhibition{
			ID:          primitive.NewObjectID(),
			Title:       input.Title,
			Description: input.Description,
			Date:        input.Date,
			Time:        input.Time,
			Venue:       input.Venue,
			Credits:     input.Credits,
			ImageURL:    url,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repo.Insert(ctx, exhibition); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, exhibition)
	}
}

func UpdateExhibition(cfg *config.Config) gin.HandlerFunc {
	repo := newExhibitionRepo(cfg)
	return func(c *gin.Context) {
		exhibitionID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exhibition id"})
			return
		}

		var input struct {
			Title       string `form:"title"`
			Description string `form:"description"`
			Date        string `form:"date"`
			Time        string `form:"time"`
			Venue       string `form:"venue"`
			Credits     string `form:"credits"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		existing, err := repo.FindByID(ctx, exhibitionID)
		if err != nil {
			respondError(c, err)
			return
		}

		set := bson.M{}
		if input.Title != "" {
			set["title"] = input.Title
		}
		if input.Description != "" {
			set["description"] = input.Description
		}
		if input.Date != "" {
			set["date"] = input.Date
		}
		if input.Time != "" {
			set["time"] = input.Time
		}
		if input.Venue != "" {
			set["venue"] = input.Venue
		}
		if input.Credits != "" {
			set["credits"] = input.Credits
		}

		// Replacing the image retires the old blob, best-effort.
		if fileHeader, err := c.FormFile("image"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
				return
			}
			url, err := utils.UploadToCloudinary(file, utils.ExhibitionFolder)
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
				return
			}
			set["image_url"] = url

			if existing.ImageURL != "" {
				if err := utils.DeleteFromCloudinary(existing.ImageURL); err != nil {
					log.Warn("failed to release old exhibition image",
						zap.String("exhibition_id", exhibitionID.Hex()), zap.Error(err))
				}
			}
		}

		updated, err := repo.Update(ctx, exhibitionID, set)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteExhibition(cfg *config.Config) gin.HandlerFunc {
	repo := newExhibitionRepo(cfg)
	return func(c *gin.Context) {
		exhibitionID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exhibition id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		existing, err := repo.FindByID(ctx, exhibitionID)
		if err != nil {
			respondError(c, err)
			return
		}

		if err := repo.Delete(ctx, exhibitionID); err != nil {
			respondError(c, err)
			return
		}

		if existing.ImageURL != "" {
			if err := utils.DeleteFromCloudinary(existing.ImageURL); err != nil {
				log.Warn("failed to release exhibition image",
					zap.String("exhibition_id", exhibitionID.Hex()), zap.Error(err))
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "exhibition item removed successfully"})
	}
}
