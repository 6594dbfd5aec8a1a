package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/holtzen/flatdocs-backend/internal/data/repos"
	types "github.com/holtzen/flatdocs-backend/internal/domain"
	"github.com/holtzen/flatdocs-backend/internal/platform/apierr"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
)

type CreateSuggestionInput struct {
	DocumentID        uuid.UUID
	DocumentCreatedAt time.Time
	OriginalText      string
	SuggestedText     string
	Description       string
}

type SuggestionService interface {
	// Create anchors a suggestion to one exact document version. It fails
	// with dangling_anchor when that version does not exist.
	Create(ctx context.Context, callerID uuid.UUID, in CreateSuggestionInput) (*types.Suggestion, error)
	// Resolve flips IsResolved once. A second resolve of the same id is an
	// explicit already_resolved error, never a silent no-op.
	Resolve(ctx context.Context, callerID uuid.UUID, id uuid.UUID) (*types.Suggestion, error)
	// ListForVersion returns suggestions anchored to the given version with
	// AnchorValid reporting whether the anchor still exists. Orphaned
	// suggestions are returned flagged, never silently.
	ListForVersion(ctx context.Context, callerID uuid.UUID, documentID uuid.UUID, documentCreatedAt time.Time) ([]*types.Suggestion, error)
}

type suggestionService struct {
	db             *gorm.DB
	log            *logger.Logger
	suggestionRepo repos.SuggestionRepo
	documentRepo   repos.DocumentRepo
}

func NewSuggestionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	suggestionRepo repos.SuggestionRepo,
	documentRepo repos.DocumentRepo,
) SuggestionService {
	serviceLog := baseLog.With("service", "SuggestionService")
	return &suggestionService{
		db:             db,
		log:            serviceLog,
		suggestionRepo: suggestionRepo,
		documentRepo:   documentRepo,
	}
}

func (ss *suggestionService) Create(ctx context.Context, callerID uuid.UUID, in CreateSuggestionInput) (*types.Suggestion, error) {
	if callerID == uuid.Nil {
		return nil, apierr.Unauthenticated(fmt.Errorf("no caller identity"))
	}
	if in.DocumentID == uuid.Nil || in.DocumentCreatedAt.IsZero() {
		return nil, apierr.InvalidInput(fmt.Errorf("missing anchor version"))
	}
	if in.OriginalText == "" || in.SuggestedText == "" {
		return nil, apierr.InvalidInput(fmt.Errorf("missing suggestion text"))
	}

	var created *types.Suggestion
	txErr := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version, err := ss.documentRepo.GetVersion(ctx, tx, in.DocumentID, in.DocumentCreatedAt)
		if err != nil {
			return fmt.Errorf("check anchor version: %w", err)
		}
		if version == nil {
			return apierr.DanglingAnchor(fmt.Errorf("document version %s@%s does not exist", in.DocumentID, in.DocumentCreatedAt.Format(time.RFC3339Nano)))
		}
		if version.UserID != callerID && !version.Visible {
			return apierr.Unauthorized(fmt.Errorf("document not readable by caller"))
		}

		s := &types.Suggestion{
			ID:                uuid.New(),
			DocumentID:        in.DocumentID,
			DocumentCreatedAt: in.DocumentCreatedAt,
			OriginalText:      in.OriginalText,
			SuggestedText:     in.SuggestedText,
			Description:       in.Description,
			UserID:            callerID,
			CreatedAt:         time.Now(),
		}
		if _, err := ss.suggestionRepo.Create(ctx, tx, []*types.Suggestion{s}); err != nil {
			return fmt.Errorf("create suggestion: %w", err)
		}
		s.AnchorValid = true
		created = s
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	ss.log.Info("Created suggestion", "suggestion_id", created.ID, "document_id", in.DocumentID)
	return created, nil
}

func (ss *suggestionService) Resolve(ctx context.Context, callerID uuid.UUID, id uuid.UUID) (*types.Suggestion, error) {
	if callerID == uuid.Nil {
		return nil, apierr.Unauthenticated(fmt.Errorf("no caller identity"))
	}

	var resolved *types.Suggestion
	txErr := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := ss.suggestionRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("load suggestion: %w", err)
		}
		if len(found) == 0 {
			return apierr.NotFound(fmt.Errorf("suggestion not found"))
		}
		s := found[0]
		if s.UserID != callerID {
			// Not the author. The owner of the anchored document may still
			// resolve suggestions made against it.
			version, err := ss.documentRepo.GetVersion(ctx, tx, s.DocumentID, s.DocumentCreatedAt)
			if err != nil {
				return fmt.Errorf("check anchor version: %w", err)
			}
			if version == nil || version.UserID != callerID {
				return apierr.Unauthorized(fmt.Errorf("caller may not resolve this suggestion"))
			}
		}
		if s.IsResolved {
			return apierr.AlreadyResolved(fmt.Errorf("suggestion already resolved"))
		}
		if err := ss.suggestionRepo.MarkResolved(ctx, tx, id); err != nil {
			return fmt.Errorf("mark resolved: %w", err)
		}
		s.IsResolved = true
		resolved = s
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resolved, nil
}

func (ss *suggestionService) ListForVersion(ctx context.Context, callerID uuid.UUID, documentID uuid.UUID, documentCreatedAt time.Time) ([]*types.Suggestion, error) {
	if callerID == uuid.Nil {
		return nil, apierr.Unauthenticated(fmt.Errorf("no caller identity"))
	}
	if documentID == uuid.Nil || documentCreatedAt.IsZero() {
		return nil, apierr.InvalidInput(fmt.Errorf("missing anchor version"))
	}

	version, err := ss.documentRepo.GetVersion(ctx, nil, documentID, documentCreatedAt)
	if err != nil {
		return nil, fmt.Errorf("check anchor version: %w", err)
	}
	// An orphaned anchor stays listable so its suggestions can be surfaced as
	// invalid; a live anchor follows the document read rule.
	if version != nil && version.UserID != callerID && !version.Visible {
		return nil, apierr.Unauthorized(fmt.Errorf("document not readable by caller"))
	}

	suggestions, err := ss.suggestionRepo.GetForVersion(ctx, nil, documentID, documentCreatedAt)
	if err != nil {
		return nil, fmt.Errorf("load suggestions: %w", err)
	}
	for _, s := range suggestions {
		s.AnchorValid = version != nil
	}
	return suggestions, nil
}
