package services

import (
	"skillmap-backend/domain/config"
	"skillmap-backend/domain/core/entities"
)

// DocumentFilter discards fetched documents whose extracted content is too
// short to be usable. Pure and stateless; applied inline by the dispatcher
// before a document is kept.
type DocumentFilter struct {
	minLength int
}

// NewDocumentFilter creates a filter from domain configuration
func NewDocumentFilter(cfg *config.DomainConfig) *DocumentFilter {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &DocumentFilter{minLength: cfg.MinDocumentLength}
}

// Accept reports whether the document's content meets the minimum length.
// The boundary is inclusive: content exactly at the minimum is kept.
func (f *DocumentFilter) Accept(doc entities.SourceDocument) bool {
	return len(doc.Content) >= f.minLength
}
