package core

import "time"

// StructuredAnswer is the standard response format produced by exactly one
// specialist agent invocation. Immutable once created. Confidence is always
// in [0,1] and Agent always names the producing agent.
type StructuredAnswer struct {
	Agent           string         `json:"agent"`
	Question        string         `json:"question"`
	Target          string         `json:"target"`
	Confidence      float64        `json:"confidence"`
	Data            map[string]any `json:"data"`
	Sources         []string       `json:"sources"`
	Recommendations []string       `json:"recommendations"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ClampConfidence returns c bounded to [0,1]. Agents use it so a blended
// score never escapes the contract range.
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// Source is one retrieved document snippet backing an enrichment answer.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Entity is a name/title pair extracted during enrichment escalation,
// optionally carrying a profile URL and the URL it was extracted from.
type Entity struct {
	Name       string  `json:"name"`
	Title      string  `json:"title"`
	ProfileURL string  `json:"profile_url,omitempty"`
	SourceURL  string  `json:"source_url,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// EnrichmentRecord is the transient outcome of resolving a single search
// query through the escalation pipeline. It exists only within one
// sub-question's resolution.
type EnrichmentRecord struct {
	Query     string   `json:"query"`
	Answer    string   `json:"answer"`
	Sources   []Source `json:"sources"`
	Entities  []Entity `json:"entities,omitempty"`
	Escalated bool     `json:"escalated"`
}

// SourceURLs returns the non-empty URLs of the record's sources.
func (r EnrichmentRecord) SourceURLs() []string {
	urls := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		if s.URL != "" {
			urls = append(urls, s.URL)
		}
	}
	return urls
}
