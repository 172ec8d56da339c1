package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "github.com/palette/art-club-go/apperrors"
	models "github.com/palette/art-club-go/models"
	utils "github.com/palette/art-club-go/utils"
)

// UserStore is the slice of the user repository the registration flow needs.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// RegistrationManager owns the apply/cancel state machine for (event, user)
// pairs. The participant list stays a set and never exceeds the event's
// capacity: both are enforced by the store's conditional update, not by
// cleanup afterwards.
type RegistrationManager struct {
	store         EventStore
	users         UserStore
	notifier      Notifier
	offsetMinutes int
	now           func() time.Time
	log           *zap.Logger
}

func NewRegistrationManager(store EventStore, users UserStore, notifier Notifier, offsetMinutes int) *RegistrationManager {
	return &RegistrationManager{
		store:         store,
		users:         users,
		notifier:      notifier,
		offsetMinutes: offsetMinutes,
		now:           time.Now,
		log:           utils.WithComponent("registration"),
	}
}

// CheckApply verifies the apply preconditions against a loaded event: the
// event has not ended before the start of today, the user is not already on
// the list, and capped events still have room.
func CheckApply(event *models.Event, userID primitive.ObjectID, startOfToday time.Time) error {
	if event.EndsBefore(startOfToday) {
		return apperrors.ErrEventInPast
	}
	if event.IsRegistered(userID) {
		return apperrors.ErrAlreadyRegistered
	}
	if event.IsFull() {
		return apperrors.ErrEventFull
	}
	return nil
}

// Apply registers the user for the event and sends a confirmation email.
// The append itself is a single conditional store update; when the guards do
// not match, the event is re-read once to name the reason. Email failures are
// logged and never fail the apply.
func (m *RegistrationManager) Apply(ctx context.Context, eventID, userID primitive.ObjectID) (*models.Event, error) {
	event, err := m.store.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	startOfToday := utils.StartOfLocalDay(m.now(), m.offsetMinutes)
	if err := CheckApply(event, userID, startOfToday); err != nil {
		return nil, err
	}

	ok, err := m.store.RegisterParticipant(ctx, eventID, userID, event.MaxParticipants)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race between the precondition check and the update.
		fresh, err := m.store.FindByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if fresh.IsRegistered(userID) {
			return nil, apperrors.ErrAlreadyRegistered
		}
		return nil, apperrors.ErrEventFull
	}

	updated, err := m.store.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	m.sendConfirmation(ctx, updated, userID)
	return updated, nil
}

func (m *RegistrationManager) sendConfirmation(ctx context.Context, event *models.Event, userID primitive.ObjectID) {
	user, err := m.users.FindByID(ctx, userID)
	if err != nil {
		m.log.Warn("could not load user for confirmation email",
			zap.String("user_id", userID.Hex()), zap.Error(err))
		return
	}

	dates := event.Date.Format("02 Jan 2006")
	if event.EndDate != nil {
		dates += " to " + event.EndDate.Format("02 Jan 2006")
	}
	body := fmt.Sprintf(`<h1>Event Application Confirmation</h1>
<p>Dear %s,</p>
<p>You have successfully applied for the event: <strong>%s</strong>.</p>
<ul>
  <li><strong>Type:</strong> %s</li>
  <li><strong>Date:</strong> %s</li>
  <li><strong>Location:</strong> %s</li>
</ul>
<p>We look forward to seeing you there!</p>
<p>The Palette Art Club Team</p>`,
		user.Name, event.Title, event.Type, dates, event.Location)

	subject := fmt.Sprintf("Confirmation: Applied for %s", event.Title)
	if err := m.notifier.Send(ctx, user.InstituteEmail, user.Name, subject, body); err != nil {
		m.log.Warn("confirmation email failed",
			zap.String("user_id", userID.Hex()),
			zap.String("event_id", event.ID.Hex()),
			zap.Error(err))
	}
}

// Cancel removes the user from the event's participant list.
func (m *RegistrationManager) Cancel(ctx context.Context, eventID, userID primitive.ObjectID) (*models.Event, error) {
	ok, err := m.store.UnregisterParticipant(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Either the event is gone or the user was never on it.
		if _, err := m.store.FindByID(ctx, eventID); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrNotRegistered
	}
	return m.store.FindByID(ctx, eventID)
}
