package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/palette/art-club-go/config"
	middleware "github.com/palette/art-club-go/middleware"
	repository "github.com/palette/art-club-go/repository"
	services "github.com/palette/art-club-go/services"
	utils "github.com/palette/art-club-go/utils"
)

func newEventService(cfg *config.Config) *services.EventService {
	db := cfg.MongoClient.Database(cfg.DBName)
	return services.NewEventService(repository.NewEventRepository(db), utils.DeleteFromCloudinary, cfg.OffsetMinutes)
}

func newRegistrationManager(cfg *config.Config) *services.RegistrationManager {
	db := cfg.MongoClient.Database(cfg.DBName)
	return services.NewRegistrationManager(
		repository.NewEventRepository(db),
		repository.NewUserRepository(db),
		services.EmailNotifier{},
		cfg.OffsetMinutes,
	)
}

// ---------------- LIST ----------------

func ListUpcomingEvents(cfg *config.Config) gin.HandlerFunc {
	svc := newEventService(cfg)
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		events, err := svc.ListUpcoming(ctx, c.Query("type"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

func ListPastEvents(cfg *config.Config) gin.HandlerFunc {
	svc := newEventService(cfg)
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		events, err := svc.ListPast(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

func MyEvents(cfg *config.Config) gin.HandlerFunc {
	svc := newEventService(cfg)
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		events, err := svc.MyEvents(ctx, user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

// ---------------- GET ----------------

func GetEvent(cfg *config.Config) gin.HandlerFunc {
	svc := newEventService(cfg)
	return func(c *gin.Context) {
		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		event, err := svc.Get(ctx, eventID)
		if err != nil {
			respondError(c, err)
			return
		}

		etag := utils.GenerateETag(event.ID, event.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, event)
	}
}

// ---------------- CREATE ----------------

func CreateEvent(cfg *config.Config) gin.HandlerFunc {
	svc := newEventService(cfg)
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		var input struct {
			Title           string  `form:"title"`
			Description     string  `form:"description"`
			Date            string  `form:"date"`
			EndDate         *string `form:"end_date"`
			Location        string  `form:"location"`
			Type            string  `form:"type"`
			MaxParticipants int     `form:"max_participants"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := services.CreateEventInput{
			Title:           input.Title,
			Description:     input.Description,
			Location:        input.Location,
			Type:            input.Type,
			MaxParticipants: input.MaxParticipants,
		}

		if input.Date != "" {
			date, err := parseDate(input.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			in.Date = date
		}
		if input.EndDate != nil && *input.EndDate != "" {
			endDate, err := parseDate(*input.EndDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			in.EndDate = &endDate
		}

		fileHeader, err := c.FormFile("image")
		if err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
				return
			}
			url, err := utils.UploadToCloudinary(file, utils.EventsFolder)
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
				return
			}
			in.ImageURL = url
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		event, err := svc.Create(ctx, in, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, event)
	}
}

// ---------------- UPDATE ----------------

func UpdateEvent(cfg *config.Config) gin.HandlerFunc {
	svc := newEventService(cfg)
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		var input struct {
			Title           *string `json:"title"`
			Description     *string `json:"description"`
			Date            *string `json:"date"`
			EndDate         *string `json:"end_date"`
			Location        *string `json:"location"`
			Type            *string `json:"type"`
			MaxParticipants *int    `json:"max_participants"`
			Status          *string `json:"status"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := services.UpdateEventInput{
			Title:           input.Title,
			Description:     input.Description,
			Location:        input.Location,
			Type:            input.Type,
			MaxParticipants: input.MaxParticipants,
			Status:          input.Status,
		}

		if input.Date != nil {
			date, err := parseDate(*input.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			in.Date = &date
		}
		if input.EndDate != nil {
			// An explicit empty end_date clears it.
			if *input.EndDate == "" {
				in.ClearEndDate = true
			} else {
				endDate, err := parseDate(*input.EndDate)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date format, use RFC3339 or YYYY-MM-DD"})
					return
				}
				in.EndDate = &endDate
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		event, err := svc.Update(ctx, eventID, in, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, event)
	}
}

// ---------------- DELETE ----------------

func DeleteEvent(cfg *config.Config) gin.HandlerFunc {
	svc := newEventService(cfg)
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := svc.Delete(ctx, eventID, user); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "event removed successfully", "id": eventID.Hex()})
	}
}

// ---------------- APPLY / CANCEL ----------------

func ApplyToEvent(cfg *config.Config) gin.HandlerFunc {
	mgr := newRegistrationManager(cfg)
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		event, err := mgr.Apply(ctx, eventID, user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "successfully applied to the event", "event": event})
	}
}

func CancelRegistration(cfg *config.Config) gin.HandlerFunc {
	mgr := newRegistrationManager(cfg)
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		event, err := mgr.Cancel(ctx, eventID, user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "successfully cancelled registration", "event": event})
	}
}
