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

type ExhibitionRepository struct {
	col *mongo.Collection
}

func NewExhibitionRepository(db *mongo.Database) *ExhibitionRepository {
	return &ExhibitionRepository{col: db.Collection("exhibitions")}
}

func (r *ExhibitionRepository) Insert(ctx context.Context, exhibition *models.Exhibition) error {
	_, err := r.col.InsertOne(ctx, exhibition)
	return err
}

// List returns exhibition items newest first.
func (r *ExhibitionRepository) List(ctx context.Context) ([]models.Exhibition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	exhibitions := []models.Exhibition{}
	if err := cursor.All(ctx, &exhibitions); err != nil {
		return nil, err
	}
	return exhibitions, nil
}

func (r *ExhibitionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Exhibition, error) {
	var exhibition models.Exhibition
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&exhibition)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &exhibition, nil
}

func (r *ExhibitionRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Exhibition, error) {
	set["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Exhibition
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ExhibitionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
