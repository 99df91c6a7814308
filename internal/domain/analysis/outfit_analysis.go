package analysis

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/domain/shared"
)

// CaptureType tells whether a photo shows one piece or a complete look
type CaptureType string

const (
	CaptureTypeSinglePiece  CaptureType = "single_piece"
	CaptureTypeCompleteLook CaptureType = "complete_look"
)

// ItemTypeClothing is the item_type value that requests a single-piece analysis
const ItemTypeClothing = "clothing"

// CaptureTypeFor maps the item_type query parameter to a capture type
func CaptureTypeFor(itemType string) CaptureType {
	if itemType == ItemTypeClothing {
		return CaptureTypeSinglePiece
	}
	return CaptureTypeCompleteLook
}

// IsValid checks if the capture type is valid
func (c CaptureType) IsValid() bool {
	return c == CaptureTypeSinglePiece || c == CaptureTypeCompleteLook
}

// ProcessingStatus is the lifecycle state of an analysis
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// IsValid checks if the status is valid
func (s ProcessingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible
func (s ProcessingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether the state machine allows s -> next
func (s ProcessingStatus) CanTransitionTo(next ProcessingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusFailed
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// OutfitAnalysis records one run of the vision analyzer on an uploaded photo
type OutfitAnalysis struct {
	shared.OwnedAggregateRoot
	ImageURL      string
	ImageKey      string
	CaptureType   CaptureType
	Status        ProcessingStatus
	RawAnalysis   json.RawMessage
	LookMeta      *LookMeta
	ModelUsed     string
	DurationMs    int64
	ErrorMessage  string
	CreatedItemID *uuid.UUID
	CreatedLookID *uuid.UUID
	AnalyzedAt    *time.Time
	Pieces        []OutfitPiece
}

// NewOutfitAnalysis creates a pending analysis
func NewOutfitAnalysis(userID uuid.UUID, captureType CaptureType) (*OutfitAnalysis, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if !captureType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CAPTURE_TYPE", "Capture type must be single_piece or complete_look")
	}

	return &OutfitAnalysis{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		CaptureType:        captureType,
		Status:             StatusPending,
		Pieces:             make([]OutfitPiece, 0),
	}, nil
}

func (a *OutfitAnalysis) transition(next ProcessingStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return shared.ErrInvalidState.WithMessage(
			"Cannot move analysis from " + string(a.Status) + " to " + string(next))
	}
	a.Status = next
	a.Modified()
	return nil
}

// AttachImage records where the original photo was stored
func (a *OutfitAnalysis) AttachImage(key, url string) error {
	if a.Status != StatusPending {
		return shared.ErrInvalidState.WithMessage("Image can only be attached to a pending analysis")
	}
	a.ImageKey = key
	a.ImageURL = url
	return nil
}

// StartProcessing moves the analysis to processing
func (a *OutfitAnalysis) StartProcessing() error {
	return a.transition(StatusProcessing)
}

// Complete stores the analyzer result and moves the analysis to completed
func (a *OutfitAnalysis) Complete(result *Result, modelUsed string, raw json.RawMessage, duration time.Duration) error {
	if result == nil {
		return shared.ErrInvalidInput.WithMessage("Analysis result cannot be empty")
	}
	if err := a.transition(StatusCompleted); err != nil {
		return err
	}

	now := time.Now()
	a.CaptureType = result.CaptureType
	a.LookMeta = result.LookMeta
	a.RawAnalysis = raw
	a.ModelUsed = modelUsed
	a.DurationMs = duration.Milliseconds()
	a.AnalyzedAt = &now
	a.ErrorMessage = ""
	a.Pieces = PiecesFromResult(a.ID, result)

	a.Record(NewAnalysisCompletedEvent(a))
	return nil
}

// Fail marks the analysis as failed with the given message
func (a *OutfitAnalysis) Fail(message string) error {
	if err := a.transition(StatusFailed); err != nil {
		return err
	}
	a.ErrorMessage = message

	a.Record(NewAnalysisFailedEvent(a))
	return nil
}

// LinkCreatedItem records the clothing item created from this analysis
func (a *OutfitAnalysis) LinkCreatedItem(itemID uuid.UUID) error {
	if a.Status != StatusCompleted {
		return shared.ErrInvalidState.WithMessage("Only a completed analysis can be linked")
	}
	a.CreatedItemID = &itemID
	a.Touch()
	return nil
}

// LinkCreatedLook records the look created from this analysis
func (a *OutfitAnalysis) LinkCreatedLook(lookID uuid.UUID) error {
	if a.Status != StatusCompleted {
		return shared.ErrInvalidState.WithMessage("Only a completed analysis can be linked")
	}
	a.CreatedLookID = &lookID
	a.Touch()
	return nil
}

// Result rebuilds the wire result from the stored pieces and look meta
func (a *OutfitAnalysis) Result() *Result {
	pieces := make([]ClothingPiece, len(a.Pieces))
	for i, p := range a.Pieces {
		pieces[i] = p.ToClothingPiece()
	}
	r := &Result{CaptureType: a.CaptureType, Pieces: pieces}
	if a.CaptureType == CaptureTypeCompleteLook {
		r.LookMeta = a.LookMeta
	}
	return r
}
