package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/holtzen/flatdocs-backend/internal/data/repos"
	types "github.com/holtzen/flatdocs-backend/internal/domain"
	"github.com/holtzen/flatdocs-backend/internal/platform/apierr"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
)

type CreateVersionInput struct {
	ID         uuid.UUID
	Title      string
	Content    string
	Kind       types.DocumentKind
	Type       types.DocumentType
	Properties datatypes.JSON
	Visible    bool
}

type DocumentService interface {
	// CreateVersion appends a new immutable version under in.ID, owned by
	// callerID. Earlier versions of the same id are never touched.
	CreateVersion(ctx context.Context, callerID uuid.UUID, in CreateVersionInput) (*types.Document, error)
	// GetDocuments resolves versions by id and/or type for callerID. At least
	// one of id, docType must be set. Reading another owner's document is
	// allowed only when it is visible.
	GetDocuments(ctx context.Context, callerID uuid.UUID, id *uuid.UUID, docType *types.DocumentType) ([]*types.Document, error)
	GetByUser(ctx context.Context, callerID uuid.UUID, docType *types.DocumentType) ([]*types.Document, error)
	// TruncateAfter deletes every version of id newer than timestamp. Only
	// the owner may truncate. Returns the number of versions deleted.
	TruncateAfter(ctx context.Context, callerID uuid.UUID, id uuid.UUID, timestamp time.Time) (int64, error)
	ListApartments(ctx context.Context, callerID uuid.UUID) ([]*types.Document, error)
	// ListPublicByUser lists the visible documents of ownerID for anonymous
	// read-only sharing.
	ListPublicByUser(ctx context.Context, ownerID uuid.UUID) ([]*types.Document, error)
}

type documentService struct {
	db             *gorm.DB
	log            *logger.Logger
	documentRepo   repos.DocumentRepo
	suggestionRepo repos.SuggestionRepo
}

func NewDocumentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	documentRepo repos.DocumentRepo,
	suggestionRepo repos.SuggestionRepo,
) DocumentService {
	serviceLog := baseLog.With("service", "DocumentService")
	return &documentService{
		db:             db,
		log:            serviceLog,
		documentRepo:   documentRepo,
		suggestionRepo: suggestionRepo,
	}
}

func (ds *documentService) CreateVersion(ctx context.Context, callerID uuid.UUID, in CreateVersionInput) (*types.Document, error) {
	if callerID == uuid.Nil {
		return nil, apierr.Unauthenticated(fmt.Errorf("no caller identity"))
	}
	if in.ID == uuid.Nil {
		return nil, apierr.InvalidInput(fmt.Errorf("missing document id"))
	}
	if in.Kind == "" {
		in.Kind = types.KindText
	}
	if !in.Kind.Valid() {
		return nil, apierr.InvalidInput(fmt.Errorf("unknown kind %q", in.Kind))
	}
	if in.Type == "" {
		in.Type = types.TypeGeneric
	}
	if !in.Type.Valid() {
		return nil, apierr.InvalidInput(fmt.Errorf("unknown type %q", in.Type))
	}

	// An existing id belongs to exactly one owner; a new version under a
	// foreign id must not reassign it.
	latest, err := ds.documentRepo.GetLatest(ctx, nil, in.ID)
	if err != nil {
		return nil, fmt.Errorf("load latest version: %w", err)
	}
	if latest != nil && latest.UserID != callerID {
		return nil, apierr.Unauthorized(fmt.Errorf("document belongs to another user"))
	}

	doc := &types.Document{
		ID:         in.ID,
		CreatedAt:  time.Now(),
		Title:      in.Title,
		Content:    in.Content,
		Kind:       in.Kind,
		Type:       in.Type,
		Properties: in.Properties,
		UserID:     callerID,
		Visible:    in.Visible,
	}
	created, err := ds.documentRepo.CreateVersion(ctx, nil, doc)
	if err != nil {
		return nil, fmt.Errorf("create version: %w", err)
	}
	ds.log.Info("Created document version", "document_id", created.ID, "version", created.CreatedAt)
	return created, nil
}

func (ds *documentService) GetDocuments(ctx context.Context, callerID uuid.UUID, id *uuid.UUID, docType *types.DocumentType) ([]*types.Document, error) {
	if callerID == uuid.Nil {
		return nil, apierr.Unauthenticated(fmt.Errorf("no caller identity"))
	}
	if id == nil && docType == nil {
		return nil, apierr.InvalidInput(fmt.Errorf("missing document parameters"))
	}
	if docType != nil && !docType.Valid() {
		return nil, apierr.InvalidInput(fmt.Errorf("unknown type %q", *docType))
	}

	var (
		docs []*types.Document
		err  error
	)
	if id != nil {
		docs, err = ds.documentRepo.GetVersionsByID(ctx, nil, *id)
		if err == nil && docType != nil {
			filtered := docs[:0]
			for _, d := range docs {
				if d.Type == *docType {
					filtered = append(filtered, d)
				}
			}
			docs = filtered
		}
	} else {
		docs, err = ds.documentRepo.GetVersions(ctx, nil, repos.VersionFilter{Type: docType, UserID: callerID})
	}
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("no matching documents"))
	}
	if docs[0].UserID != callerID && !docs[0].Visible {
		return nil, apierr.Unauthorized(fmt.Errorf("document belongs to another user"))
	}
	return docs, nil
}

func (ds *documentService) GetByUser(ctx context.Context, callerID uuid.UUID, docType *types.DocumentType) ([]*types.Document, error) {
	if callerID == uuid.Nil {
		return nil, apierr.Unauthenticated(fmt.Errorf("no caller identity"))
	}
	if docType != nil && !docType.Valid() {
		return nil, apierr.InvalidInput(fmt.Errorf("unknown type %q", *docType))
	}
	docs, err := ds.documentRepo.GetVersions(ctx, nil, repos.VersionFilter{Type: docType, UserID: callerID})
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	return docs, nil
}

func (ds *documentService) TruncateAfter(ctx context.Context, callerID uuid.UUID, id uuid.UUID, timestamp time.Time) (int64, error) {
	if callerID == uuid.Nil {
		return 0, apierr.Unauthenticated(fmt.Errorf("no caller identity"))
	}

	latest, err := ds.documentRepo.GetLatest(ctx, nil, id)
	if err != nil {
		return 0, fmt.Errorf("load latest version: %w", err)
	}
	if latest == nil {
		return 0, apierr.NotFound(fmt.Errorf("document not found"))
	}
	if latest.UserID != callerID {
		return 0, apierr.Unauthorized(fmt.Errorf("document belongs to another user"))
	}

	// Snapshot bound: versions created after this point survive, so a
	// concurrent CreateVersion never races with its own deletion.
	snapshot := time.Now()

	var deleted int64
	txErr := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err = ds.documentRepo.TruncateAfter(ctx, tx, id, timestamp, snapshot)
		if err != nil {
			return fmt.Errorf("truncate versions: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return 0, txErr
	}
	ds.log.Info("Truncated document versions", "document_id", id, "deleted", deleted)
	return deleted, nil
}

func (ds *documentService) ListApartments(ctx context.Context, callerID uuid.UUID) ([]*types.Document, error) {
	if callerID == uuid.Nil {
		return nil, apierr.Unauthenticated(fmt.Errorf("no caller identity"))
	}
	apartment := types.TypeApartment
	docs, err := ds.documentRepo.GetLatestByUser(ctx, nil, callerID, &apartment)
	if err != nil {
		return nil, fmt.Errorf("load apartments: %w", err)
	}
	return docs, nil
}

func (ds *documentService) ListPublicByUser(ctx context.Context, ownerID uuid.UUID) ([]*types.Document, error) {
	docs, err := ds.documentRepo.GetVisibleByUser(ctx, nil, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load public documents: %w", err)
	}
	return docs, nil
}
