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

// ViewerScope is a tagged query spec naming what a caller may see. It is
// constructed once per request and never mutated.
type ViewerScope interface {
	viewerScope()
}

// PublicView sees approved artwork only.
type PublicView struct{}

// OwnerView sees all approved artwork plus the owner's own, whatever its status.
type OwnerView struct {
	UserID primitive.ObjectID
}

// AdminView sees everything, or a single status when StatusFilter is set.
type AdminView struct {
	StatusFilter string
}

func (PublicView) viewerScope() {}
func (OwnerView) viewerScope()  {}
func (AdminView) viewerScope()  {}

// artworkFilter translates a viewer scope into a Mongo filter.
func artworkFilter(scope ViewerScope) bson.M {
	switch s := scope.(type) {
	case OwnerView:
		return bson.M{"$or": bson.A{
			bson.M{"status": models.ArtworkStatusApproved},
			bson.M{"artist": s.UserID},
		}}
	case AdminView:
		if s.StatusFilter != "" {
			return bson.M{"status": s.StatusFilter}
		}
		return bson.M{}
	default:
		return bson.M{"status": models.ArtworkStatusApproved}
	}
}

// ArtworkRepository is the Mongo-backed store for artwork documents.
type ArtworkRepository struct {
	col *mongo.Collection
}

func NewArtworkRepository(db *mongo.Database) *ArtworkRepository {
	return &ArtworkRepository{col: db.Collection("artworks")}
}

func (r *ArtworkRepository) Insert(ctx context.Context, artwork *models.Artwork) error {
	_, err := r.col.InsertOne(ctx, artwork)
	return err
}

func (r *ArtworkRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Artwork, error) {
	var artwork models.Artwork
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&artwork)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &artwork, nil
}

// List returns artwork visible under the given scope, latest first.
func (r *ArtworkRepository) List(ctx context.Context, scope ViewerScope) ([]models.Artwork, error) {
	return r.list(ctx, artworkFilter(scope))
}

// ListByArtist returns everything a user has submitted, latest first.
func (r *ArtworkRepository) ListByArtist(ctx context.Context, artistID primitive.ObjectID) ([]models.Artwork, error) {
	return r.list(ctx, bson.M{"artist": artistID})
}

func (r *ArtworkRepository) list(ctx context.Context, filter bson.M) ([]models.Artwork, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	artworks := []models.Artwork{}
	if err := cursor.All(ctx, &artworks); err != nil {
		return nil, err
	}
	return artworks, nil
}

func (r *ArtworkRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Artwork, error) {
	return r.update(ctx, id, bson.M{"status": status})
}

func (r *ArtworkRepository) SetScore(ctx context.Context, id primitive.ObjectID, score float64) (*models.Artwork, error) {
	return r.update(ctx, id, bson.M{"score": score})
}

func (r *ArtworkRepository) update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Artwork, error) {
	set["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Artwork
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ArtworkRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
