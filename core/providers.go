package core

import "context"

// SearchResponse is the normalized result of one web search call: a
// synthesized answer string plus the backing result snippets.
type SearchResponse struct {
	Answer  string   `json:"answer"`
	Results []Source `json:"results"`
}

// SearchProvider is the primary retrieval collaborator consumed by the
// enrichment pipeline.
type SearchProvider interface {
	Search(ctx context.Context, query string, maxResults int, excludeDomains []string) (SearchResponse, error)
}

// EntityExtractor is the optional secondary enrichment collaborator: it
// analyzes a source URL and surfaces name/title pairs found in the document.
type EntityExtractor interface {
	// Configured reports whether credentials are present. Unconfigured
	// extractors are skipped by the pipeline, never treated as failures.
	Configured() bool
	ExtractPeople(ctx context.Context, url string) ([]Entity, error)
}

// Employee is one professional-network profile entry.
type Employee struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// NetworkProvider is the optional tertiary enrichment collaborator backed by
// a professional network: company-domain to company-id resolution followed
// by paged employee listing.
type NetworkProvider interface {
	Configured() bool
	CompanyByDomain(ctx context.Context, domain string) (companyID string, err error)
	EmployeesByCompany(ctx context.Context, companyID string, page int) ([]Employee, error)
}

// NewsProvider is the optional quaternary enrichment collaborator consulted
// purely to add sources for investment and gap focused queries.
type NewsProvider interface {
	Configured() bool
	SearchNews(ctx context.Context, query string, limit int) ([]Source, error)
}
