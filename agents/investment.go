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

// InvestmentAgent analyzes a target's investment activity: deals, portfolio
// companies and funding patterns.
type InvestmentAgent struct {
	BaseSpecialist
	brain    *brain.Brain
	pipeline *enrich.Pipeline
	logger   logging.Logger
}

// NewInvestmentAgent creates the investment intelligence specialist.
func NewInvestmentAgent(pipeline *enrich.Pipeline, optFns ...func(o *Options)) *InvestmentAgent {
	opts := Options{Brain: brain.New(), Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InvestmentAgent{
		BaseSpecialist: NewBaseSpecialist(
			"InvestmentIntelligenceAgent",
			[]string{
				"investments", "portfolio", "deals", "funding", "investment activity",
				"investment history", "investment patterns", "portfolio companies",
			},
			[]string{"invested", "investment", "funding", "raised", "acquisition", "portfolio"},
		),
		brain:    opts.Brain,
		pipeline: pipeline,
		logger:   opts.Logger,
	}
}

func (a *InvestmentAgent) buildQueries(target, domain string) []string {
	variations := brain.CompanyVariations(target)
	if len(variations) > 2 {
		variations = variations[:2]
	}

	var queries []string
	for _, v := range variations {
		queries = append(queries,
			fmt.Sprintf("%q %s investments portfolio recent deals", v, domain),
			fmt.Sprintf("%q invested funding round %s", v, domain),
		)
	}

	stages := a.brain.Knowledge(domain).FundingStages
	if len(stages) > 2 {
		stages = stages[:2]
	}
	for _, s := range stages {
		queries = append(queries, fmt.Sprintf("%q %s %s investment", target, s, domain))
	}

	queries = append(queries,
		fmt.Sprintf("%q portfolio companies %s announcement", target, domain),
	)
	if len(queries) > 8 {
		queries = queries[:8]
	}
	return queries
}

// Answer implements core.SpecialistAgent.
func (a *InvestmentAgent) Answer(ctx context.Context, question, target string, qctx map[string]any) (core.StructuredAnswer, error) {
	if err := ctx.Err(); err != nil {
		return core.StructuredAnswer{}, err
	}

	domain := focusDomain(question, qctx)
	bctx := brain.Context{Target: target, FocusDomain: domain, Intent: "investments"}

	queries := a.buildQueries(target, domain)
	result := collect(ctx, a.brain, a.logger, a.pipeline, queries, bctx, enrich.FocusInvestments, "",
		func(content, title string) []brain.Finding {
			return a.brain.ExtractInvestments(content, title, bctx)
		})

	if result.errs == len(queries) {
		return failureAnswer(a.Name(), question, target,
			fmt.Errorf("all %d investment searches failed", len(queries))), nil
	}

	investments := dedupeFindings(result.findings, func(f brain.Finding) string { return f.Company })
	sources := dedupeSources(result.sources)

	data := map[string]any{
		"investments_found": len(investments),
		"investments":       findingsPayload(investments),
		"focus_domain":      domain,
	}

	return core.StructuredAnswer{
		Agent:           a.Name(),
		Question:        question,
		Target:          target,
		Confidence:      answerConfidence(len(investments), len(sources), averageRelevance(investments)),
		Data:            data,
		Sources:         sources,
		Recommendations: a.recommend(investments, target, domain),
		CreatedAt:       time.Now(),
	}, nil
}

func (a *InvestmentAgent) recommend(investments []brain.Finding, target, domain string) []string {
	if len(investments) == 0 {
		return []string{fmt.Sprintf("No %s investments surfaced for %s; check press releases and portfolio pages directly", domain, target)}
	}
	recs := []string{
		fmt.Sprintf("Analyze %s's %d recent %s deals for thesis and check sizing", target, len(investments), domain),
	}
	if len(investments) > 2 {
		recs = append(recs, "Cluster the deals by stage and sub-sector to infer investment criteria")
	}
	recs = append(recs, "Cross-reference deal amounts with public filings before relying on them")
	return recs
}
