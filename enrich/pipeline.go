package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/inquiro/inquiro/core"
	"github.com/inquiro/inquiro/logging"
)

// Focus values that make the news-recall stage applicable.
const (
	FocusDecisionMakers = "decision_makers"
	FocusInvestments    = "investments"
	FocusGaps           = "gaps"
)

// Tokens whose absence from an answer (together with the target name) marks
// it as generic.
var qualityTokens = []string{"CEO", "Director", "Partner", "Investment", "Committee"}

// Seniority keywords used to filter professional-network employees down to
// likely decision makers.
var seniorityKeywords = []string{
	"managing partner", "partner", "founder", "ceo", "cio", "md",
	"managing director", "director", "head", "vp", "investment",
	"portfolio", "healthcare",
}

// Query is one pipeline invocation: the search text, the target organization
// (for the quality guardrail), the sub-question focus and an optional
// company web domain for network lookup.
type Query struct {
	Text          string
	Target        string
	Focus         string
	CompanyDomain string
}

// Options configure the pipeline.
type Options struct {
	// MaxResults per primary search call.
	MaxResults int
	// ExcludeDomains forwarded to the search provider; nil keeps provider
	// defaults.
	ExcludeDomains []string
	// TopSources bounds how many primary sources the entity-extraction
	// stage analyzes.
	TopSources int
	// NetworkPages bounds professional-network employee pagination.
	NetworkPages int
	// NewsLimit bounds news-recall results.
	NewsLimit int
	// MinAnswerWords is the generic-answer word threshold.
	MinAnswerWords int
	// Extractor, Network and News are the optional escalation providers.
	Extractor core.EntityExtractor
	Network   core.NetworkProvider
	News      core.NewsProvider
	// Logger receives per-stage diagnostics.
	Logger logging.Logger
}

// Pipeline resolves queries through primary search plus optional escalation
// stages. Safe for concurrent use.
type Pipeline struct {
	search core.SearchProvider
	opts   Options
}

// New constructs a Pipeline over the required search provider.
func New(search core.SearchProvider, optFns ...func(o *Options)) *Pipeline {
	opts := Options{
		MaxResults:     5,
		TopSources:     3,
		NetworkPages:   3,
		NewsLimit:      5,
		MinAnswerWords: 12,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Pipeline{search: search, opts: opts}
}

// Resolve runs the full escalation pipeline for one query. Only the primary
// search can fail the call; every escalation stage degrades to a no-op on
// error or missing credentials.
func (p *Pipeline) Resolve(ctx context.Context, q Query) (core.EnrichmentRecord, error) {
	primary, err := p.search.Search(ctx, q.Text, p.opts.MaxResults, p.opts.ExcludeDomains)
	if err != nil {
		return core.EnrichmentRecord{}, fmt.Errorf("primary search: %w", err)
	}

	rec := core.EnrichmentRecord{
		Query:   q.Text,
		Answer:  primary.Answer,
		Sources: primary.Results,
	}
	generic := p.isGeneric(rec.Answer, q.Target)

	p.runExtraction(ctx, q, &rec, generic)
	p.runNetwork(ctx, q, &rec, generic)
	p.runNewsRecall(ctx, q, &rec)

	return rec, nil
}

// isGeneric judges an answer as definition-like when it mentions neither the
// target nor any decision-title token, or when it is shorter than the word
// threshold.
func (p *Pipeline) isGeneric(answer, target string) bool {
	if len(strings.Fields(answer)) < p.opts.MinAnswerWords {
		return true
	}
	tokens := append([]string{target}, qualityTokens...)
	for _, token := range tokens {
		if token != "" && strings.Contains(answer, token) {
			return false
		}
	}
	return true
}

// runExtraction analyzes the top primary sources for name/title pairs and,
// when the primary answer was generic, rewrites it as an enumeration of the
// extracted names.
func (p *Pipeline) runExtraction(ctx context.Context, q Query, rec *core.EnrichmentRecord, generic bool) {
	if p.opts.Extractor == nil || !p.opts.Extractor.Configured() || len(rec.Sources) == 0 {
		return
	}

	var extracted []core.Entity
	for i, src := range rec.Sources {
		if i >= p.opts.TopSources {
			break
		}
		if src.URL == "" {
			continue
		}
		people, err := p.opts.Extractor.ExtractPeople(ctx, src.URL)
		if err != nil {
			p.opts.Logger.Warn("entity extraction failed", "url", src.URL, "error", err.Error())
			continue
		}
		extracted = append(extracted, people...)
	}
	if len(extracted) == 0 {
		return
	}

	rec.Entities = mergeEntities(rec.Entities, extracted)
	rec.Escalated = true
	if generic && q.Focus == FocusDecisionMakers {
		rec.Answer = entityAnswer(rec.Entities)
	}
	p.opts.Logger.Debug("entity extraction escalation", "query", q.Text, "people", len(extracted))
}

// runNetwork resolves company domain -> company id -> employees, filters by
// seniority keywords and merges the survivors into the entity list. Only
// applicable to decision-maker focused queries.
func (p *Pipeline) runNetwork(ctx context.Context, q Query, rec *core.EnrichmentRecord, generic bool) {
	if p.opts.Network == nil || !p.opts.Network.Configured() || q.Focus != FocusDecisionMakers {
		return
	}

	domain := q.CompanyDomain
	if domain == "" {
		domain = guessDomain(rec.Sources)
	}
	if domain == "" {
		return
	}

	companyID, err := p.opts.Network.CompanyByDomain(ctx, domain)
	if err != nil {
		p.opts.Logger.Warn("network company lookup failed", "domain", domain, "error", err.Error())
		return
	}
	if companyID == "" {
		return
	}

	var found []core.Entity
	for page := 1; page <= p.opts.NetworkPages; page++ {
		employees, err := p.opts.Network.EmployeesByCompany(ctx, companyID, page)
		if err != nil {
			p.opts.Logger.Warn("network employee lookup failed", "company_id", companyID, "page", page, "error", err.Error())
			break
		}
		if len(employees) == 0 {
			break
		}
		for _, e := range employees {
			if !isSenior(e.Title) {
				continue
			}
			found = append(found, core.Entity{
				Name:       e.Name,
				Title:      e.Title,
				ProfileURL: e.ProfileURL,
				SourceURL:  "linkedin_api",
				Confidence: 0.9,
			})
		}
	}
	if len(found) == 0 {
		return
	}

	rec.Entities = mergeEntities(rec.Entities, found)
	rec.Escalated = true
	if generic {
		rec.Answer = entityAnswer(rec.Entities)
	}
	p.opts.Logger.Debug("network escalation", "query", q.Text, "employees", len(found))
}

// runNewsRecall adds news sources for investment and gap focused queries
// without altering the answer text.
func (p *Pipeline) runNewsRecall(ctx context.Context, q Query, rec *core.EnrichmentRecord) {
	if p.opts.News == nil || !p.opts.News.Configured() {
		return
	}
	if q.Focus != FocusInvestments && q.Focus != FocusGaps {
		return
	}

	results, err := p.opts.News.SearchNews(ctx, q.Target+" "+q.Focus, p.opts.NewsLimit)
	if err != nil {
		p.opts.Logger.Warn("news recall failed", "query", q.Text, "error", err.Error())
		return
	}
	for _, r := range results {
		if r.URL != "" {
			rec.Sources = append(rec.Sources, r)
		}
	}
}

// mergeEntities appends new entities, deduplicating by lowercased name+title
// while preserving first-seen order so repeated runs are stable.
func mergeEntities(existing, incoming []core.Entity) []core.Entity {
	seen := make(map[string]bool, len(existing)+len(incoming))
	merged := make([]core.Entity, 0, len(existing)+len(incoming))
	for _, e := range append(existing, incoming...) {
		key := strings.ToLower(e.Name) + "|" + strings.ToLower(e.Title)
		if e.Name == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, e)
	}
	return merged
}

// entityAnswer renders a concise enumeration of extracted names to replace a
// generic primary answer.
func entityAnswer(entities []core.Entity) string {
	names := make([]string, 0, len(entities))
	seen := make(map[string]bool, len(entities))
	for _, e := range entities {
		if e.Name == "" || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		names = append(names, e.Name)
	}
	return fmt.Sprintf("Identified decision-makers: %s. See sources for titles and details.", strings.Join(names, ", "))
}

// guessDomain extracts a host from the first usable source URL.
func guessDomain(sources []core.Source) string {
	for _, s := range sources {
		u := s.URL
		if u == "" || !strings.Contains(u, ".") {
			continue
		}
		if idx := strings.Index(u, "//"); idx >= 0 {
			u = u[idx+2:]
		}
		if idx := strings.Index(u, "/"); idx >= 0 {
			u = u[:idx]
		}
		if u != "" {
			return u
		}
	}
	return ""
}

func isSenior(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range seniorityKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
