package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "github.com/palette/art-club-go/apperrors"
	models "github.com/palette/art-club-go/models"
	repository "github.com/palette/art-club-go/repository"
	utils "github.com/palette/art-club-go/utils"
)

// ArtworkStore is the slice of the artwork repository the service needs.
type ArtworkStore interface {
	Insert(ctx context.Context, artwork *models.Artwork) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Artwork, error)
	List(ctx context.Context, scope repository.ViewerScope) ([]models.Artwork, error)
	ListByArtist(ctx context.Context, artistID primitive.ObjectID) ([]models.Artwork, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Artwork, error)
	SetScore(ctx context.Context, id primitive.ObjectID, score float64) (*models.Artwork, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ArtworkService owns the submission and moderation workflow.
type ArtworkService struct {
	store       ArtworkStore
	releaseBlob BlobReleaser
	now         func() time.Time
	log         *zap.Logger
}

func NewArtworkService(store ArtworkStore, releaseBlob BlobReleaser) *ArtworkService {
	return &ArtworkService{
		store:       store,
		releaseBlob: releaseBlob,
		now:         time.Now,
		log:         utils.WithComponent("artworks"),
	}
}

type SubmitArtworkInput struct {
	Title       string
	Description string
	Credits     string
	ImageURL    string
}

// Submit creates a new artwork. Status is always pending on creation; a status
// supplied by the caller is ignored.
func (s *ArtworkService) Submit(ctx context.Context, in SubmitArtworkInput, artist models.AuthUser) (*models.Artwork, error) {
	if in.Title == "" {
		return nil, apperrors.Validationf("please provide a title for the artwork")
	}
	if in.Credits == "" {
		return nil, apperrors.Validationf("please provide credits for the artwork")
	}
	if in.ImageURL == "" {
		return nil, apperrors.Validationf("no image file uploaded")
	}

	now := s.now()
	artwork := &models.Artwork{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Credits:     in.Credits,
		ImageURL:    in.ImageURL,
		Artist:      artist.ID,
		Status:      models.ArtworkStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, artwork); err != nil {
		return nil, err
	}
	return artwork, nil
}

// ScopeFor builds the viewer scope for a listing request. Anonymous callers
// see approved only; members additionally see their own; admins see all, or a
// single status when the filter names a valid one.
func ScopeFor(requester *models.AuthUser, statusFilter string) repository.ViewerScope {
	if requester == nil {
		return repository.PublicView{}
	}
	if requester.IsAdmin {
		if models.ValidArtworkStatus(statusFilter) {
			return repository.AdminView{StatusFilter: statusFilter}
		}
		return repository.AdminView{}
	}
	return repository.OwnerView{UserID: requester.ID}
}

func (s *ArtworkService) List(ctx context.Context, requester *models.AuthUser, statusFilter string) ([]models.Artwork, error) {
	return s.store.List(ctx, ScopeFor(requester, statusFilter))
}

func (s *ArtworkService) MyArtworks(ctx context.Context, artistID primitive.ObjectID) ([]models.Artwork, error) {
	return s.store.ListByArtist(ctx, artistID)
}

// Get applies the visibility rule to a single artwork: anything not approved
// is only visible to its artist or an admin.
func (s *ArtworkService) Get(ctx context.Context, id primitive.ObjectID, requester *models.AuthUser) (*models.Artwork, error) {
	artwork, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if artwork.Status != models.ArtworkStatusApproved {
		if requester == nil || (!requester.IsAdmin && artwork.Artist != requester.ID) {
			return nil, apperrors.ErrForbidden
		}
	}
	return artwork, nil
}

// SetStatus moves an artwork to any of the three review states. Re-reviewing
// is allowed; approved and rejected are not terminal.
func (s *ArtworkService) SetStatus(ctx context.Context, id primitive.ObjectID, status string, requester models.AuthUser) (*models.Artwork, error) {
	if !requester.IsAdmin {
		return nil, apperrors.ErrForbidden
	}
	if !models.ValidArtworkStatus(status) {
		return nil, apperrors.Validationf("invalid status")
	}
	return s.store.SetStatus(ctx, id, status)
}

// SetScore records a 0-100 score, independent of review status.
func (s *ArtworkService) SetScore(ctx context.Context, id primitive.ObjectID, score float64, requester models.AuthUser) (*models.Artwork, error) {
	if !requester.IsAdmin {
		return nil, apperrors.ErrForbidden
	}
	if score < 0 || score > 100 {
		return nil, apperrors.Validationf("score must be a number between 0 and 100")
	}
	return s.store.SetScore(ctx, id, score)
}

// Remove deletes an artwork. Admins may always remove; the artist may only
// remove their own piece while it is still pending.
func (s *ArtworkService) Remove(ctx context.Context, id primitive.ObjectID, requester models.AuthUser) error {
	artwork, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !requester.IsAdmin {
		if artwork.Artist != requester.ID || artwork.Status != models.ArtworkStatusPending {
			return apperrors.ErrForbidden
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if artwork.ImageURL != "" && s.releaseBlob != nil {
		if err := s.releaseBlob(artwork.ImageURL); err != nil {
			s.log.Warn("failed to release artwork image",
				zap.String("artwork_id", id.Hex()), zap.Error(err))
		}
	}
	return nil
}
