// Package wardrobe manages the clothing items and looks of each user.
package wardrobe

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/wardrobe/backend/internal/domain/analysis"
	"github.com/wardrobe/backend/internal/domain/shared"
	"github.com/wardrobe/backend/internal/domain/wardrobe"
	"github.com/wardrobe/backend/internal/infrastructure/logger"
	"github.com/wardrobe/backend/internal/infrastructure/telemetry"
)

// Service handles wardrobe operations
type Service struct {
	items    wardrobe.ClothingItemRepository
	looks    wardrobe.OutfitLookRepository
	analyses analysis.Repository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// Option configures the Service
type Option func(*Service)

// WithEventPublisher publishes wardrobe events through publisher
func WithEventPublisher(publisher shared.EventPublisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a new wardrobe Service. analyses may be nil, in which
// case saved results are never linked back to their analysis.
func NewService(items wardrobe.ClothingItemRepository, looks wardrobe.OutfitLookRepository, analyses analysis.Repository, opts ...Option) *Service {
	s := &Service{
		items:    items,
		looks:    looks,
		analyses: analyses,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveAnalysis stores an analysis result in the user's wardrobe: one item
// for a single piece, or a look with its pieces for a complete look.
// Pieces already stored (same piece_id) are reused, never duplicated.
func (s *Service) SaveAnalysis(ctx context.Context, req SaveAnalysisRequest) (*SaveAnalysisResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wardrobe", "save_analysis",
		attribute.String(telemetry.SpanAttrUserID, req.UserID.String()),
		attribute.String(telemetry.SpanAttrCaptureType, string(req.AnalysisResult.CaptureType)),
	)
	defer span.End()

	if req.UserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	result := req.AnalysisResult
	if err := result.Validate(); err != nil {
		return nil, err
	}

	var (
		resp *SaveAnalysisResponse
		err  error
	)
	if result.CaptureType == analysis.CaptureTypeSinglePiece {
		resp, err = s.saveSinglePiece(ctx, req.UserID, result.Pieces[0], req.ImageURL())
	} else {
		resp, err = s.saveCompleteLook(ctx, req.UserID, &result, req.ImageURL())
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if req.AnalysisID != nil {
		s.linkAnalysis(ctx, *req.AnalysisID, req.UserID, resp)
	}
	return resp, nil
}

func (s *Service) saveSinglePiece(ctx context.Context, userID uuid.UUID, piece analysis.ClothingPiece, imageURL string) (*SaveAnalysisResponse, error) {
	if piece.PieceID != uuid.Nil {
		existing, err := s.items.ExistingIDs(ctx, []uuid.UUID{piece.PieceID})
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			id := piece.PieceID
			return &SaveAnalysisResponse{Message: "Pièce déjà présente dans la garde-robe", PieceID: &id}, nil
		}
	}

	item, err := wardrobe.NewClothingItem(userID, piece.ToItemSpec(imageURL))
	if err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	s.publish(ctx, item.PullEvents()...)

	logger.WithLogger(ctx, s.logger).Info("Clothing item saved",
		zap.String("item_id", item.ID.String()),
		zap.String("piece_type", item.PieceType),
	)
	return &SaveAnalysisResponse{Message: "Pièce sauvegardée avec succès", PieceID: &item.ID}, nil
}

func (s *Service) saveCompleteLook(ctx context.Context, userID uuid.UUID, result *analysis.Result, imageURL string) (*SaveAnalysisResponse, error) {
	meta := analysis.LookMeta{}
	if result.LookMeta != nil {
		meta = *result.LookMeta
	}
	look, err := wardrobe.NewOutfitLook(userID, meta.ToLookSpec(imageURL))
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(result.Pieces))
	for _, p := range result.Pieces {
		if p.PieceID != uuid.Nil {
			ids = append(ids, p.PieceID)
		}
	}
	existing, err := s.items.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	stored := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		stored[id] = true
	}

	newItems := make([]*wardrobe.ClothingItem, 0, len(result.Pieces))
	pieceIDs := make([]uuid.UUID, 0, len(result.Pieces))
	for position, p := range result.Pieces {
		itemID := p.PieceID
		if itemID == uuid.Nil || !stored[itemID] {
			item, err := wardrobe.NewClothingItem(userID, p.ToItemSpec(imageURL))
			if err != nil {
				return nil, err
			}
			newItems = append(newItems, item)
			itemID = item.ID
			stored[itemID] = true
		}
		if err := look.AddItem(itemID, position, p.BoundingBox); err != nil {
			return nil, err
		}
		pieceIDs = append(pieceIDs, itemID)
	}

	if err := s.looks.SaveWithItems(ctx, look, newItems); err != nil {
		return nil, err
	}

	events := look.PullEvents()
	for _, item := range newItems {
		events = append(events, item.PullEvents()...)
	}
	s.publish(ctx, events...)

	logger.WithLogger(ctx, s.logger).Info("Outfit look saved",
		zap.String("look_id", look.ID.String()),
		zap.Int("pieces", len(pieceIDs)),
		zap.Int("new_pieces", len(newItems)),
	)
	return &SaveAnalysisResponse{Message: "Tenue sauvegardée avec succès", LookID: &look.ID, PieceIDs: pieceIDs}, nil
}

// linkAnalysis records the created item or look on the analysis. The save
// already succeeded, so failures are only logged.
func (s *Service) linkAnalysis(ctx context.Context, analysisID, userID uuid.UUID, resp *SaveAnalysisResponse) {
	if s.analyses == nil {
		return
	}
	log := logger.WithLogger(ctx, s.logger).With(zap.String("analysis_id", analysisID.String()))

	a, err := s.analyses.FindByID(ctx, analysisID)
	if err != nil {
		log.Warn("Cannot link saved result to analysis", zap.Error(err))
		return
	}
	if !a.IsOwnedBy(userID) {
		log.Warn("Analysis belongs to another user, not linked")
		return
	}
	if resp.LookID != nil {
		err = a.LinkCreatedLook(*resp.LookID)
	} else if resp.PieceID != nil {
		err = a.LinkCreatedItem(*resp.PieceID)
	}
	if err == nil {
		err = s.analyses.Save(ctx, a)
	}
	if err != nil {
		log.Warn("Cannot link saved result to analysis", zap.Error(err))
	}
}

// ListPieces lists the active items of a user, newest first
func (s *Service) ListPieces(ctx context.Context, userID uuid.UUID, filter PieceListFilter) (*PiecesResponse, error) {
	f := wardrobe.ItemFilter{PieceType: filter.PieceType, FavoritesOnly: filter.Favorites}
	if filter.Category != "" {
		cat := wardrobe.Category(filter.Category)
		if !cat.IsValid() {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown category: "+filter.Category)
		}
		f.Category = cat
	}

	items, err := s.items.FindActiveByUser(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	pieces := ToItemResponses(items)
	return &PiecesResponse{Pieces: pieces, Categories: CountByCategory(pieces)}, nil
}

// ListLooks lists the looks of a user, each with its pieces in position order
func (s *Service) ListLooks(ctx context.Context, userID uuid.UUID) ([]LookResponse, error) {
	looks, err := s.looks.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToLookResponses(looks), nil
}

// GetItem returns an item. When requester is set the item must belong to it.
func (s *Service) GetItem(ctx context.Context, requester, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.findItem(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// UpdateItem changes only the fields present in req
func (s *Service) UpdateItem(ctx context.Context, requester, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.findItem(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	if err := item.ApplyUpdate(req.ToDomain()); err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// DeleteItem soft-deletes an item
func (s *Service) DeleteItem(ctx context.Context, requester, id uuid.UUID) error {
	item, err := s.findItem(ctx, requester, id)
	if err != nil {
		return err
	}
	if err := item.Deactivate(); err != nil {
		return err
	}
	if err := s.items.Save(ctx, item); err != nil {
		return err
	}
	s.publish(ctx, item.PullEvents()...)
	return nil
}

// ToggleFavorite flips the favorite flag of an item
func (s *Service) ToggleFavorite(ctx context.Context, requester, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.findItem(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	if _, err := item.ToggleFavorite(); err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// RecordWear bumps the wear counters of the given items, and of the user's
// looks made of exactly those items
func (s *Service) RecordWear(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID, at time.Time) error {
	if len(itemIDs) == 0 {
		return nil
	}
	items, err := s.items.RecordWear(ctx, itemIDs, at)
	if err != nil {
		return err
	}
	var looks int64
	if len(itemIDs) > 1 {
		if looks, err = s.looks.RecordWear(ctx, userID, itemIDs, at); err != nil {
			return err
		}
	}
	logger.WithLogger(ctx, s.logger).Debug("Wear recorded",
		zap.Int64("items", items),
		zap.Int64("looks", looks),
	)
	return nil
}

func (s *Service) findItem(ctx context.Context, requester, id uuid.UUID) (*wardrobe.ClothingItem, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requester != uuid.Nil && !item.IsOwnedBy(requester) {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (s *Service) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish wardrobe events", zap.Error(err))
	}
}
