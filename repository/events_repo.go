package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/palette/art-club-go/apperrors"
	models "github.com/palette/art-club-go/models"
)

// EventRepository is the Mongo-backed store for event documents.
type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection("events")}
}

// upcomingFilter matches events whose effective end (end_date, or date when no
// end_date exists) is on or after the start of today in the club's timezone.
func upcomingFilter(startOfToday time.Time, typeFilter string) bson.M {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"end_date": bson.M{"$gte": startOfToday}},
			bson.M{"end_date": bson.M{"$exists": false}, "date": bson.M{"$gte": startOfToday}},
		},
	}
	if typeFilter != "" {
		filter["type"] = typeFilter
	}
	return filter
}

// pastFilter matches events whose effective end is strictly before the start
// of tomorrow. Together with upcomingFilter this partitions the event set:
// the boundary instant belongs to exactly one side.
func pastFilter(startOfTomorrow time.Time) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"end_date": bson.M{"$lt": startOfTomorrow}},
			bson.M{"end_date": bson.M{"$exists": false}, "date": bson.M{"$lt": startOfTomorrow}},
		},
	}
}

// registerFilter only matches the event when the user is not yet a participant
// and, for capped events, the participant list still has room. Combined with
// $addToSet in a single UpdateOne this makes apply atomic: two concurrent
// applies for the last slot cannot both succeed.
func registerFilter(eventID, userID primitive.ObjectID, maxParticipants int) bson.M {
	filter := bson.M{
		"_id":                     eventID,
		"registered_participants": bson.M{"$ne": userID},
	}
	if maxParticipants > 0 {
		filter["$expr"] = bson.M{
			"$lt": bson.A{
				bson.M{"$size": bson.M{"$ifNull": bson.A{"$registered_participants", bson.A{}}}},
				maxParticipants,
			},
		}
	}
	return filter
}

func (r *EventRepository) ListUpcoming(ctx context.Context, startOfToday time.Time, typeFilter string) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return r.list(ctx, upcomingFilter(startOfToday, typeFilter), opts)
}

func (r *EventRepository) ListPast(ctx context.Context, startOfTomorrow time.Time) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return r.list(ctx, pastFilter(startOfTomorrow), opts)
}

// ListRegisteredBy returns the events a user has applied to, soonest first.
func (r *EventRepository) ListRegisteredBy(ctx context.Context, userID primitive.ObjectID) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return r.list(ctx, bson.M{"registered_participants": userID}, opts)
}

func (r *EventRepository) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Event, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var event models.Event
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Insert(ctx context.Context, event *models.Event) error {
	_, err := r.col.InsertOne(ctx, event)
	return err
}

// Update applies a partial $set (and optional $unset) and returns the new
// document.
func (r *EventRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M, unset bson.M) (*models.Event, error) {
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Event
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *EventRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RegisterParticipant appends the user in one conditional update. It reports
// false when the guards did not match, in which case the caller re-reads the
// event to tell apart full, already-registered and gone.
func (r *EventRepository) RegisterParticipant(ctx context.Context, eventID, userID primitive.ObjectID, maxParticipants int) (bool, error) {
	update := bson.M{
		"$addToSet": bson.M{"registered_participants": userID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	res, err := r.col.UpdateOne(ctx, registerFilter(eventID, userID, maxParticipants), update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// UnregisterParticipant removes the user; false means they were not on the
// list (or the event no longer exists).
func (r *EventRepository) UnregisterParticipant(ctx context.Context, eventID, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": eventID, "registered_participants": userID}
	update := bson.M{
		"$pull": bson.M{"registered_participants": userID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
