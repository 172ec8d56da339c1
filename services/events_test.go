package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/palette/art-club-go/apperrors"
	models "github.com/palette/art-club-go/models"
	utils "github.com/palette/art-club-go/utils"
)

func newTestEventService(store *fakeEventStore, releaseBlob BlobReleaser, now time.Time) *EventService {
	s := NewEventService(store, releaseBlob, utils.DefaultOffsetMinutes)
	s.now = func() time.Time { return now }
	return s
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func validCreateInput() CreateEventInput {
	return CreateEventInput{
		Title:           "Sketching 101",
		Description:     "An introduction to gesture sketching.",
		Date:            time.Date(2025, 9, 15, 14, 0, 0, 0, time.UTC),
		Location:        "Academic Block 7",
		Type:            models.EventTypeWorkshop,
		MaxParticipants: 20,
		ImageURL:        "https://res.cloudinary.com/demo/image/upload/events/abc.jpg",
	}
}

func TestValidateCreateEvent(t *testing.T) {
	t.Run("accepts a complete input", func(t *testing.T) {
		assert.NoError(t, validateCreateEvent(validCreateInput()))
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		for name, mutate := range map[string]func(*CreateEventInput){
			"title":       func(in *CreateEventInput) { in.Title = "" },
			"description": func(in *CreateEventInput) { in.Description = "" },
			"date":        func(in *CreateEventInput) { in.Date = time.Time{} },
			"location":    func(in *CreateEventInput) { in.Location = "" },
			"type":        func(in *CreateEventInput) { in.Type = "" },
		} {
			in := validCreateInput()
			mutate(&in)
			assert.True(t, apperrors.IsValidation(validateCreateEvent(in)), "missing %s", name)
		}
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		in := validCreateInput()
		in.Type = "hackathon"
		assert.True(t, apperrors.IsValidation(validateCreateEvent(in)))
	})

	t.Run("rejects a missing image", func(t *testing.T) {
		in := validCreateInput()
		in.ImageURL = ""
		assert.True(t, apperrors.IsValidation(validateCreateEvent(in)))
	})

	t.Run("rejects an end date before the start date", func(t *testing.T) {
		in := validCreateInput()
		in.EndDate = timePtr(in.Date.Add(-time.Hour))
		assert.True(t, apperrors.IsValidation(validateCreateEvent(in)))
	})

	t.Run("allows end date equal to start date", func(t *testing.T) {
		in := validCreateInput()
		in.EndDate = timePtr(in.Date)
		assert.NoError(t, validateCreateEvent(in))
	})

	t.Run("rejects negative max participants", func(t *testing.T) {
		in := validCreateInput()
		in.MaxParticipants = -1
		assert.True(t, apperrors.IsValidation(validateCreateEvent(in)))
	})

	t.Run("zero max participants means uncapped", func(t *testing.T) {
		in := validCreateInput()
		in.MaxParticipants = 0
		assert.NoError(t, validateCreateEvent(in))
	})
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	admin := models.AuthUser{ID: primitive.NewObjectID(), IsAdmin: true}
	member := models.AuthUser{ID: primitive.NewObjectID()}

	t.Run("only admins may create", func(t *testing.T) {
		svc := newTestEventService(newFakeEventStore(), nil, now)
		_, err := svc.Create(ctx, validCreateInput(), member)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("new events always start as upcoming", func(t *testing.T) {
		store := newFakeEventStore()
		svc := newTestEventService(store, nil, now)

		event, err := svc.Create(ctx, validCreateInput(), admin)
		require.NoError(t, err)
		assert.Equal(t, models.EventStatusUpcoming, event.Status)
		assert.Equal(t, admin.ID, event.CreatedBy)
		assert.NotNil(t, event.RegisteredParticipants)
		assert.Empty(t, event.RegisteredParticipants)

		stored, err := store.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, event.Title, stored.Title)
	})
}

func TestValidateUpdateEvent(t *testing.T) {
	base := func() *models.Event {
		return &models.Event{
			ID:              primitive.NewObjectID(),
			Title:           "Annual Exhibition Prep",
			Date:            time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
			MaxParticipants: 10,
			RegisteredParticipants: []primitive.ObjectID{
				primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(),
			},
		}
	}

	t.Run("cannot shrink capacity below current registrations", func(t *testing.T) {
		_, _, err := validateUpdateEvent(base(), UpdateEventInput{MaxParticipants: intPtr(2)})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("capacity equal to current registrations is allowed", func(t *testing.T) {
		set, _, err := validateUpdateEvent(base(), UpdateEventInput{MaxParticipants: intPtr(3)})
		require.NoError(t, err)
		assert.Equal(t, 3, set["max_participants"])
	})

	t.Run("capacity below one is rejected", func(t *testing.T) {
		_, _, err := validateUpdateEvent(base(), UpdateEventInput{MaxParticipants: intPtr(0)})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("new end date is checked against the stored start date", func(t *testing.T) {
		event := base()
		_, _, err := validateUpdateEvent(event, UpdateEventInput{
			EndDate: timePtr(event.Date.Add(-time.Hour)),
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("new start date is checked against the stored end date", func(t *testing.T) {
		event := base()
		end := event.Date.Add(2 * time.Hour)
		event.EndDate = &end
		_, _, err := validateUpdateEvent(event, UpdateEventInput{
			Date: timePtr(end.Add(time.Hour)),
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("moving start past end is fine when the end date is cleared", func(t *testing.T) {
		event := base()
		end := event.Date.Add(2 * time.Hour)
		event.EndDate = &end
		set, unset, err := validateUpdateEvent(event, UpdateEventInput{
			Date:         timePtr(end.Add(time.Hour)),
			ClearEndDate: true,
		})
		require.NoError(t, err)
		assert.Contains(t, set, "date")
		assert.Contains(t, unset, "end_date")
	})

	t.Run("invalid type and status are rejected", func(t *testing.T) {
		_, _, err := validateUpdateEvent(base(), UpdateEventInput{Type: strPtr("seminar")})
		assert.True(t, apperrors.IsValidation(err))

		_, _, err = validateUpdateEvent(base(), UpdateEventInput{Status: strPtr("postponed")})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("simple field patch", func(t *testing.T) {
		set, unset, err := validateUpdateEvent(base(), UpdateEventInput{
			Title:    strPtr("Annual Exhibition Prep II"),
			Location: strPtr("Old Academic Block"),
			Status:   strPtr(models.EventStatusOngoing),
		})
		require.NoError(t, err)
		assert.Equal(t, "Annual Exhibition Prep II", set["title"])
		assert.Equal(t, "Old Academic Block", set["location"])
		assert.Equal(t, models.EventStatusOngoing, set["status"])
		assert.Empty(t, unset)
	})
}

func TestEventService_Windows(t *testing.T) {
	ctx := context.Background()
	// 00:30 of Aug 11 at +5:30; start of today is Aug 10 18:30 UTC.
	now := time.Date(2025, 8, 10, 19, 0, 0, 0, time.UTC)
	startOfToday := utils.StartOfLocalDay(now, utils.DefaultOffsetMinutes)

	past := capEvent(0, startOfToday.Add(-48*time.Hour))
	today := capEvent(0, startOfToday.Add(6*time.Hour))
	future := capEvent(0, startOfToday.Add(72*time.Hour))
	store := newFakeEventStore(past, today, future)
	svc := newTestEventService(store, nil, now)

	t.Run("upcoming excludes finished events", func(t *testing.T) {
		events, err := svc.ListUpcoming(ctx, "")
		require.NoError(t, err)
		ids := map[primitive.ObjectID]bool{}
		for _, ev := range events {
			ids[ev.ID] = true
		}
		assert.False(t, ids[past.ID])
		assert.True(t, ids[today.ID])
		assert.True(t, ids[future.ID])
	})

	t.Run("past includes today's events", func(t *testing.T) {
		events, err := svc.ListPast(ctx)
		require.NoError(t, err)
		ids := map[primitive.ObjectID]bool{}
		for _, ev := range events {
			ids[ev.ID] = true
		}
		assert.True(t, ids[past.ID])
		assert.True(t, ids[today.ID])
		assert.False(t, ids[future.ID])
	})

	t.Run("unknown type filter is ignored", func(t *testing.T) {
		events, err := svc.ListUpcoming(ctx, "seminar")
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})
}

func TestEventService_Delete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	admin := models.AuthUser{ID: primitive.NewObjectID(), IsAdmin: true}

	t.Run("releases the image blob after deleting", func(t *testing.T) {
		event := capEvent(0, now.Add(24*time.Hour))
		event.ImageURL = "https://res.cloudinary.com/demo/image/upload/events/abc.jpg"
		store := newFakeEventStore(event)

		released := []string{}
		svc := newTestEventService(store, func(url string) error {
			released = append(released, url)
			return nil
		}, now)

		require.NoError(t, svc.Delete(ctx, event.ID, admin))
		assert.Equal(t, []string{event.ImageURL}, released)

		_, err := store.FindByID(ctx, event.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("a failed blob release does not fail the delete", func(t *testing.T) {
		event := capEvent(0, now.Add(24*time.Hour))
		event.ImageURL = "https://res.cloudinary.com/demo/image/upload/events/abc.jpg"
		store := newFakeEventStore(event)

		svc := newTestEventService(store, func(string) error {
			return errors.New("cloudinary unavailable")
		}, now)

		assert.NoError(t, svc.Delete(ctx, event.ID, admin))
	})

	t.Run("members cannot delete", func(t *testing.T) {
		event := capEvent(0, now.Add(24*time.Hour))
		store := newFakeEventStore(event)
		svc := newTestEventService(store, nil, now)

		err := svc.Delete(ctx, event.ID, models.AuthUser{ID: primitive.NewObjectID()})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		_, err = store.FindByID(ctx, event.ID)
		assert.NoError(t, err)
	})
}
