package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/inquiro/inquiro/brain"
	"github.com/inquiro/inquiro/core"
	"github.com/inquiro/inquiro/enrich"
	"github.com/inquiro/inquiro/logging"
)

// GapAgent looks for what is missing from a target's portfolio: coverage
// gaps, whitespace and expansion opportunities.
type GapAgent struct {
	BaseSpecialist
	brain    *brain.Brain
	pipeline *enrich.Pipeline
	logger   logging.Logger
}

// NewGapAgent creates the gap-analysis specialist.
func NewGapAgent(pipeline *enrich.Pipeline, optFns ...func(o *Options)) *GapAgent {
	opts := Options{Brain: brain.New(), Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &GapAgent{
		BaseSpecialist: NewBaseSpecialist(
			"GapAnalysisAgent",
			[]string{
				"gaps", "portfolio gaps", "missing", "opportunities", "whitespace",
				"coverage", "expansion", "underserved",
			},
			[]string{"gap", "missing", "lacks", "opportunity", "whitespace", "expand"},
		),
		brain:    opts.Brain,
		pipeline: pipeline,
		logger:   opts.Logger,
	}
}

func (a *GapAgent) buildQueries(target, domain string) []string {
	variations := brain.CompanyVariations(target)
	if len(variations) > 2 {
		variations = variations[:2]
	}

	var queries []string
	for _, v := range variations {
		queries = append(queries,
			fmt.Sprintf("%q %s portfolio gaps missing segments", v, domain),
			fmt.Sprintf("%q %s strategy expansion opportunities", v, domain),
		)
	}

	indicators := a.brain.Knowledge(domain).CompanyIndicators
	if len(indicators) > 2 {
		indicators = indicators[:2]
	}
	for _, ind := range indicators {
		queries = append(queries, fmt.Sprintf("%s %s market opportunity underserved", domain, ind))
	}

	queries = append(queries,
		fmt.Sprintf("%q investment thesis %s whitespace", target, domain),
	)
	if len(queries) > 8 {
		queries = queries[:8]
	}
	return queries
}

// Answer implements core.SpecialistAgent.
func (a *GapAgent) Answer(ctx context.Context, question, target string, qctx map[string]any) (core.StructuredAnswer, error) {
	if err := ctx.Err(); err != nil {
		return core.StructuredAnswer{}, err
	}

	domain := focusDomain(question, qctx)
	bctx := brain.Context{Target: target, FocusDomain: domain, Intent: "gaps"}

	queries := a.buildQueries(target, domain)
	result := collect(ctx, a.brain, a.logger, a.pipeline, queries, bctx, enrich.FocusGaps, "",
		func(content, title string) []brain.Finding {
			return a.brain.ExtractOpportunities(content, title, bctx)
		})

	if result.errs == len(queries) {
		return failureAnswer(a.Name(), question, target,
			fmt.Errorf("all %d gap searches failed", len(queries))), nil
	}

	gaps := dedupeFindings(result.findings, func(f brain.Finding) string { return f.Text })
	sources := dedupeSources(result.sources)

	data := map[string]any{
		"gaps_found":   len(gaps),
		"gaps":         findingsPayload(gaps),
		"focus_domain": domain,
	}

	return core.StructuredAnswer{
		Agent:           a.Name(),
		Question:        question,
		Target:          target,
		Confidence:      answerConfidence(len(gaps), len(sources), averageRelevance(gaps)),
		Data:            data,
		Sources:         sources,
		Recommendations: a.recommend(gaps, target, domain),
		CreatedAt:       time.Now(),
	}, nil
}

func (a *GapAgent) recommend(gaps []brain.Finding, target, domain string) []string {
	if len(gaps) == 0 {
		return []string{fmt.Sprintf("No clear %s gaps surfaced for %s; compare their portfolio against sector landscape maps manually", domain, target)}
	}
	recs := []string{
		fmt.Sprintf("Validate the %d candidate %s gaps against %s's stated investment thesis", len(gaps), domain, target),
	}
	if len(gaps) > 1 {
		recs = append(recs, "Rank the gaps by market size before positioning against them")
	}
	return recs
}
