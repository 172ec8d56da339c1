package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "github.com/palette/art-club-go/apperrors"
	models "github.com/palette/art-club-go/models"
	utils "github.com/palette/art-club-go/utils"
)

// EventStore is the slice of the event repository the services need. The Mongo
// implementation lives in the repository package; tests use an in-memory fake.
type EventStore interface {
	ListUpcoming(ctx context.Context, startOfToday time.Time, typeFilter string) ([]models.Event, error)
	ListPast(ctx context.Context, startOfTomorrow time.Time) ([]models.Event, error)
	ListRegisteredBy(ctx context.Context, userID primitive.ObjectID) ([]models.Event, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	Insert(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M, unset bson.M) (*models.Event, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	RegisterParticipant(ctx context.Context, eventID, userID primitive.ObjectID, maxParticipants int) (bool, error)
	UnregisterParticipant(ctx context.Context, eventID, userID primitive.ObjectID) (bool, error)
}

// EventService owns event CRUD and the upcoming/past window queries.
type EventService struct {
	store         EventStore
	releaseBlob   BlobReleaser
	offsetMinutes int
	now           func() time.Time
	log           *zap.Logger
}

func NewEventService(store EventStore, releaseBlob BlobReleaser, offsetMinutes int) *EventService {
	return &EventService{
		store:         store,
		releaseBlob:   releaseBlob,
		offsetMinutes: offsetMinutes,
		now:           time.Now,
		log:           utils.WithComponent("events"),
	}
}

// ListUpcoming returns events still running today or later, soonest first. An
// unknown type filter is ignored rather than rejected.
func (s *EventService) ListUpcoming(ctx context.Context, typeFilter string) ([]models.Event, error) {
	if !models.ValidEventType(typeFilter) {
		typeFilter = ""
	}
	startOfToday := utils.StartOfLocalDay(s.now(), s.offsetMinutes)
	return s.store.ListUpcoming(ctx, startOfToday, typeFilter)
}

// ListPast returns events already over by the end of today, latest first.
func (s *EventService) ListPast(ctx context.Context) ([]models.Event, error) {
	startOfTomorrow := utils.StartOfNextLocalDay(s.now(), s.offsetMinutes)
	return s.store.ListPast(ctx, startOfTomorrow)
}

func (s *EventService) MyEvents(ctx context.Context, userID primitive.ObjectID) ([]models.Event, error) {
	return s.store.ListRegisteredBy(ctx, userID)
}

func (s *EventService) Get(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	return s.store.FindByID(ctx, id)
}

type CreateEventInput struct {
	Title           string
	Description     string
	Date            time.Time
	EndDate         *time.Time
	Location        string
	Type            string
	MaxParticipants int
	ImageURL        string
}

func validateCreateEvent(in CreateEventInput) error {
	if in.Title == "" || in.Description == "" || in.Date.IsZero() || in.Location == "" || in.Type == "" {
		return apperrors.Validationf("please enter all required fields: title, description, start date, location, type")
	}
	if !models.ValidEventType(in.Type) {
		return apperrors.Validationf("invalid event type, must be workshop, competition, or event")
	}
	if in.ImageURL == "" {
		return apperrors.Validationf("event image is required")
	}
	if in.EndDate != nil && in.EndDate.Before(in.Date) {
		return apperrors.Validationf("end date cannot be before start date")
	}
	if in.MaxParticipants < 0 {
		return apperrors.Validationf("max participants must be a positive number")
	}
	return nil
}

func (s *EventService) Create(ctx context.Context, in CreateEventInput, requester models.AuthUser) (*models.Event, error) {
	if !requester.IsAdmin {
		return nil, apperrors.ErrForbidden
	}
	if err := validateCreateEvent(in); err != nil {
		return nil, err
	}

	now := s.now()
	event := &models.Event{
		ID:                     primitive.NewObjectID(),
		Title:                  in.Title,
		Description:            in.Description,
		Date:                   in.Date,
		EndDate:                in.EndDate,
		Location:               in.Location,
		Type:                   in.Type,
		ImageURL:               in.ImageURL,
		MaxParticipants:        in.MaxParticipants,
		RegisteredParticipants: []primitive.ObjectID{},
		Status:                 models.EventStatusUpcoming,
		CreatedBy:              requester.ID,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.store.Insert(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEventInput is a partial patch; nil fields are untouched. ClearEndDate
// removes the end date entirely.
type UpdateEventInput struct {
	Title           *string
	Description     *string
	Date            *time.Time
	EndDate         *time.Time
	ClearEndDate    bool
	Location        *string
	Type            *string
	MaxParticipants *int
	Status          *string
}

// validateUpdateEvent checks the patch against the stored event and returns
// the fields to $set and $unset. Date ordering and the capacity floor are
// re-validated on any change to date, end date or max participants.
func validateUpdateEvent(event *models.Event, in UpdateEventInput) (bson.M, bson.M, error) {
	set := bson.M{}
	unset := bson.M{}

	newDate := event.Date
	if in.Date != nil {
		newDate = *in.Date
		set["date"] = newDate
	}

	newEnd := event.EndDate
	if in.ClearEndDate {
		newEnd = nil
		unset["end_date"] = ""
	} else if in.EndDate != nil {
		newEnd = in.EndDate
		set["end_date"] = *in.EndDate
	}
	if newEnd != nil && newEnd.Before(newDate) {
		return nil, nil, apperrors.Validationf("end date cannot be before start date")
	}

	if in.MaxParticipants != nil {
		maxPart := *in.MaxParticipants
		if maxPart < 1 {
			return nil, nil, apperrors.Validationf("max participants must be a positive number")
		}
		if maxPart < len(event.RegisteredParticipants) {
			return nil, nil, apperrors.Validationf("cannot reduce max participants below current registrations (%d)", len(event.RegisteredParticipants))
		}
		set["max_participants"] = maxPart
	}

	if in.Type != nil {
		if !models.ValidEventType(*in.Type) {
			return nil, nil, apperrors.Validationf("invalid event type")
		}
		set["type"] = *in.Type
	}
	if in.Status != nil {
		if !models.ValidEventStatus(*in.Status) {
			return nil, nil, apperrors.Validationf("invalid event status")
		}
		set["status"] = *in.Status
	}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Location != nil {
		set["location"] = *in.Location
	}

	return set, unset, nil
}

func (s *EventService) Update(ctx context.Context, id primitive.ObjectID, in UpdateEventInput, requester models.AuthUser) (*models.Event, error) {
	if !requester.IsAdmin {
		return nil, apperrors.ErrForbidden
	}

	event, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set, unset, err := validateUpdateEvent(event, in)
	if err != nil {
		return nil, err
	}
	set["updated_at"] = s.now()

	return s.store.Update(ctx, id, set, unset)
}

// Delete removes the record and then releases the image blob. A failed blob
// release is logged; the deletion has already succeeded.
func (s *EventService) Delete(ctx context.Context, id primitive.ObjectID, requester models.AuthUser) error {
	if !requester.IsAdmin {
		return apperrors.ErrForbidden
	}

	event, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n := len(event.RegisteredParticipants); n > 0 {
		s.log.Warn("deleting event with registered participants",
			zap.String("event_id", id.Hex()), zap.Int("participants", n))
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if event.ImageURL != "" && s.releaseBlob != nil {
		if err := s.releaseBlob(event.ImageURL); err != nil {
			s.log.Warn("failed to release event image",
				zap.String("event_id", id.Hex()), zap.Error(err))
		}
	}
	return nil
}
