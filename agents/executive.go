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

// ExecutiveAgent identifies decision makers, leadership and org structure
// for a target organization.
type ExecutiveAgent struct {
	BaseSpecialist
	brain    *brain.Brain
	pipeline *enrich.Pipeline
	logger   logging.Logger
}

// Options configure a specialist agent's collaborators.
type Options struct {
	Brain  *brain.Brain
	Logger logging.Logger
}

// NewExecutiveAgent creates the executive intelligence specialist.
func NewExecutiveAgent(pipeline *enrich.Pipeline, optFns ...func(o *Options)) *ExecutiveAgent {
	opts := Options{Brain: brain.New(), Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ExecutiveAgent{
		BaseSpecialist: NewBaseSpecialist(
			"ExecutiveIntelligenceAgent",
			[]string{
				"decision makers", "leadership", "executives", "board members",
				"management team", "org structure", "decision authority",
			},
			[]string{"who are", "who is", "decision maker", "executive", "leadership", "management"},
		),
		brain:    opts.Brain,
		pipeline: pipeline,
		logger:   opts.Logger,
	}
}

// buildQueries combines target-name variations with domain executive
// vocabulary into targeted searches.
func (a *ExecutiveAgent) buildQueries(target, domain string) []string {
	var queries []string

	variations := brain.CompanyVariations(target)
	if len(variations) > 2 {
		variations = variations[:2]
	}
	for _, v := range variations {
		queries = append(queries,
			fmt.Sprintf("%q %s investment team executives leadership", v, domain),
			fmt.Sprintf("%q %s partners directors management", v, domain),
		)
	}

	titles := a.brain.Knowledge(domain).ExecutiveTitles
	if len(titles) > 3 {
		titles = titles[:3]
	}
	for _, t := range titles {
		queries = append(queries, fmt.Sprintf("%q %q %s", target, t, domain))
	}

	queries = append(queries,
		fmt.Sprintf("%q linkedin executives %s", target, domain),
		fmt.Sprintf("%q leadership %s portfolio", target, domain),
	)

	if len(queries) > 8 {
		queries = queries[:8]
	}
	return queries
}

// Answer implements core.SpecialistAgent.
func (a *ExecutiveAgent) Answer(ctx context.Context, question, target string, qctx map[string]any) (core.StructuredAnswer, error) {
	if err := ctx.Err(); err != nil {
		return core.StructuredAnswer{}, err
	}

	domain := focusDomain(question, qctx)
	bctx := brain.Context{Target: target, FocusDomain: domain, Intent: "decision_makers"}
	companyDomain, _ := qctx["company_domain"].(string)

	queries := a.buildQueries(target, domain)
	result := collect(ctx, a.brain, a.logger, a.pipeline, queries, bctx, enrich.FocusDecisionMakers, companyDomain,
		func(content, title string) []brain.Finding {
			return a.brain.ExtractExecutives(content, title, bctx)
		})

	if result.errs == len(queries) {
		return failureAnswer(a.Name(), question, target,
			fmt.Errorf("all %d executive searches failed", len(queries))), nil
	}

	// Escalation entities count as findings too: they carry names and
	// titles the pattern library may have missed.
	for _, e := range result.entities {
		result.findings = append(result.findings, brain.Finding{
			Kind:            "executive",
			Name:            e.Name,
			Title:           e.Title,
			DomainRelevance: a.brain.ContentRelevance(e.Title, "", "", bctx),
			Confidence:      e.Confidence,
		})
	}

	executives := dedupeFindings(result.findings, func(f brain.Finding) string { return f.Name })
	sources := dedupeSources(result.sources)

	data := map[string]any{
		"executives_found": len(executives),
		"executives":       findingsPayload(executives),
		"focus_domain":     domain,
	}

	return core.StructuredAnswer{
		Agent:           a.Name(),
		Question:        question,
		Target:          target,
		Confidence:      answerConfidence(len(executives), len(sources), averageRelevance(executives)),
		Data:            data,
		Sources:         sources,
		Recommendations: a.recommend(executives, target),
		CreatedAt:       time.Now(),
	}, nil
}

func (a *ExecutiveAgent) recommend(executives []brain.Finding, target string) []string {
	if len(executives) == 0 {
		return []string{fmt.Sprintf("No decision makers surfaced for %s; widen the search or verify the company name", target)}
	}
	recs := []string{
		fmt.Sprintf("Prioritize outreach to %s (%s)", executives[0].Name, executives[0].Title),
	}
	if len(executives) > 1 {
		recs = append(recs, fmt.Sprintf("Map reporting lines between the %d identified leaders before engaging", len(executives)))
	}
	recs = append(recs, "Verify titles against the company's current team page before outreach")
	return recs
}

// findingsPayload renders findings as plain maps for the answer payload.
func findingsPayload(findings []brain.Finding) []map[string]any {
	out := make([]map[string]any, 0, len(findings))
	for _, f := range findings {
		entry := map[string]any{
			"domain_relevance": f.DomainRelevance,
			"confidence":       f.Confidence,
		}
		if f.Name != "" {
			entry["name"] = f.Name
		}
		if f.Title != "" {
			entry["title"] = f.Title
		}
		if f.Company != "" {
			entry["company"] = f.Company
		}
		if f.Amount != "" {
			entry["amount"] = f.Amount
		}
		if f.Text != "" {
			entry["text"] = f.Text
		}
		if f.Source != "" {
			entry["source"] = f.Source
		}
		out = append(out, entry)
	}
	return out
}
