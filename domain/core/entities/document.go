package entities

// SourceDocument is one successfully scraped source page. Immutable once
// produced by the fetch dispatcher.
type SourceDocument struct {
	URL     string
	Content string
}
