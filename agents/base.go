package agents

import (
	"context"
	"strings"
	"time"

	"github.com/inquiro/inquiro/brain"
	"github.com/inquiro/inquiro/core"
	"github.com/inquiro/inquiro/enrich"
	"github.com/inquiro/inquiro/logging"
)

// Relevance scoring weights: expertise-domain matches dominate pattern
// matches 60/40.
const (
	domainWeight  = 0.6
	patternWeight = 0.4
)

// BaseSpecialist bundles the shared capability-contract mechanics: identity,
// expertise lists and the substring matching behind CanAnswer and
// RelevanceScore. Embed it in concrete agents and supply Answer.
type BaseSpecialist struct {
	name     string
	domains  []string
	patterns []string
}

// NewBaseSpecialist constructs the shared agent base.
func NewBaseSpecialist(name string, domains, patterns []string) BaseSpecialist {
	return BaseSpecialist{name: name, domains: domains, patterns: patterns}
}

// Name returns the registry key for this agent.
func (b *BaseSpecialist) Name() string { return b.name }

// ExpertiseDomains lists the domain keywords this agent specializes in.
func (b *BaseSpecialist) ExpertiseDomains() []string { return b.domains }

// AnswerablePatterns lists question fragments this agent can answer.
func (b *BaseSpecialist) AnswerablePatterns() []string { return b.patterns }

// CanAnswer reports a domain or pattern substring match against the
// question.
func (b *BaseSpecialist) CanAnswer(question string) bool {
	lower := strings.ToLower(question)
	for _, d := range b.domains {
		if strings.Contains(lower, strings.ToLower(d)) {
			return true
		}
	}
	for _, p := range b.patterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// RelevanceScore rates the question match in [0,1]: matched domain fraction
// weighted 0.6 plus matched pattern fraction weighted 0.4.
func (b *BaseSpecialist) RelevanceScore(question string) float64 {
	lower := strings.ToLower(question)
	score := 0.0

	if len(b.domains) > 0 {
		matches := 0
		for _, d := range b.domains {
			if strings.Contains(lower, strings.ToLower(d)) {
				matches++
			}
		}
		score += float64(matches) / float64(len(b.domains)) * domainWeight
	}
	if len(b.patterns) > 0 {
		matches := 0
		for _, p := range b.patterns {
			if strings.Contains(lower, strings.ToLower(p)) {
				matches++
			}
		}
		score += float64(matches) / float64(len(b.patterns)) * patternWeight
	}
	return core.ClampConfidence(score)
}

// answerConfidence blends finding-count coverage (x0.4, saturating at 5),
// source-count coverage (x0.3, saturating at 5) and average per-finding
// domain relevance (x0.3).
func answerConfidence(findingCount, sourceCount int, avgRelevance float64) float64 {
	coverage := float64(findingCount) / 5.0
	if coverage > 1 {
		coverage = 1
	}
	sources := float64(sourceCount) / 5.0
	if sources > 1 {
		sources = 1
	}
	return core.ClampConfidence(coverage*0.4 + sources*0.3 + avgRelevance*0.3)
}

// averageRelevance returns the mean domain relevance of findings, zero for
// an empty slice.
func averageRelevance(findings []brain.Finding) float64 {
	if len(findings) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range findings {
		sum += f.DomainRelevance
	}
	return sum / float64(len(findings))
}

// failureAnswer converts an agent-level failure into the contract's
// low-confidence answer with a manual-review recommendation.
func failureAnswer(agent, question, target string, err error) core.StructuredAnswer {
	return core.StructuredAnswer{
		Agent:      agent,
		Question:   question,
		Target:     target,
		Confidence: 0.1,
		Data:       map[string]any{"error": err.Error()},
		Recommendations: []string{
			"Manual review required: automated intelligence gathering failed for this question",
		},
		CreatedAt: time.Now(),
	}
}

// focusDomain resolves the sector under analysis: explicit context wins,
// then question keywords, then healthcare as the dominant default.
func focusDomain(question string, qctx map[string]any) string {
	if qctx != nil {
		if d, ok := qctx["focus_domain"].(string); ok && d != "" {
			return d
		}
	}
	lower := strings.ToLower(question)
	for _, d := range []string{"fintech", "healthcare"} {
		if strings.Contains(lower, d) {
			return d
		}
	}
	return "healthcare"
}

// collectResult accumulates everything gathered while resolving an agent's
// query set.
type collectResult struct {
	findings []brain.Finding
	entities []core.Entity
	sources  []string
	errs     int
}

// collect resolves each query through the escalation pipeline, scores every
// returned source for contextual relevance and extracts findings from
// sources above the relevance gate. Escalation entities are carried through
// for agents that use them. Individual query failures are logged and
// counted, never fatal.
func collect(
	ctx context.Context,
	b *brain.Brain,
	logger logging.Logger,
	pipeline *enrich.Pipeline,
	queries []string,
	bctx brain.Context,
	focus string,
	companyDomain string,
	extract func(content, title string) []brain.Finding,
) collectResult {
	var out collectResult
	for _, query := range queries {
		rec, err := pipeline.Resolve(ctx, enrich.Query{
			Text:          query,
			Target:        bctx.Target,
			Focus:         focus,
			CompanyDomain: companyDomain,
		})
		if err != nil {
			logger.Warn("query resolution failed", "query", query, "error", err.Error())
			out.errs++
			continue
		}

		out.entities = append(out.entities, rec.Entities...)
		for _, src := range rec.Sources {
			if src.URL != "" {
				out.sources = append(out.sources, src.URL)
			}
			relevance := b.ContentRelevance(src.Content, src.Title, src.URL, bctx)
			if relevance <= 0.3 {
				continue
			}
			out.findings = append(out.findings, extract(src.Content, src.Title)...)
		}
	}
	return out
}

// dedupeSources returns unique source URLs preserving first-seen order.
func dedupeSources(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	unique := urls[:0:0]
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		unique = append(unique, u)
	}
	return unique
}

// dedupeFindings keeps the first finding per key across the whole query
// set, after per-source dedup inside the brain.
func dedupeFindings(findings []brain.Finding, key func(brain.Finding) string) []brain.Finding {
	seen := make(map[string]bool, len(findings))
	unique := findings[:0:0]
	for _, f := range findings {
		k := strings.ToLower(key(f))
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, f)
	}
	return unique
}
