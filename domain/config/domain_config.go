package config

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Document constraints
	MinDocumentLength int // fetched documents shorter than this are discarded
	MaxSourceURLs     int // cap on candidate URLs taken from discovery

	// Graph constraints
	MinNodesPerGraph      int // structural floor enforced on synthesis output
	ExpectedMinGraphNodes int // soft expectation, violations tolerated
	ExpectedMaxGraphNodes int

	// Render weights
	HubBaseSize     float64
	ConceptBaseSize float64
	PatternBaseSize float64
	GotchaBaseSize  float64
	RefWeightStep   float64 // visual weight added per outbound reference
	RefWeightCap    float64 // ceiling on the reference contribution
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MinDocumentLength: 100,
		MaxSourceURLs:     8,

		MinNodesPerGraph:      3,
		ExpectedMinGraphNodes: 12,
		ExpectedMaxGraphNodes: 18,

		HubBaseSize:     10,
		ConceptBaseSize: 6,
		PatternBaseSize: 6,
		GotchaBaseSize:  5,
		RefWeightStep:   0.5,
		RefWeightCap:    4,
	}
}
