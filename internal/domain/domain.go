package domain

import (
	"github.com/holtzen/flatdocs-backend/internal/domain/auth"
	"github.com/holtzen/flatdocs-backend/internal/domain/documents"
	"github.com/holtzen/flatdocs-backend/internal/domain/resources"
	"github.com/holtzen/flatdocs-backend/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken

type Document = documents.Document
type DocumentKind = documents.DocumentKind
type DocumentType = documents.DocumentType
type ApartmentProperties = documents.ApartmentProperties
type Suggestion = documents.Suggestion

type Resource = resources.Resource
type Embedding = resources.Embedding
type EmbeddingMatch = resources.EmbeddingMatch

const (
	KindText = documents.KindText
	KindCode = documents.KindCode

	TypeGeneric   = documents.TypeGeneric
	TypeApartment = documents.TypeApartment

	VectorDim = resources.VectorDim
)
