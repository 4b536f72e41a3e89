package brain

import (
	"regexp"
	"strings"
)

// Brain holds the compiled pattern library and domain knowledge tables.
// Construct once at startup and share read-only across agents.
type Brain struct {
	knowledge map[string]DomainKnowledge

	executivePatterns   []*regexp.Regexp
	investmentPatterns  []*regexp.Regexp
	companyPatterns     []*regexp.Regexp
	opportunityPatterns []*regexp.Regexp
	sentenceSplit       *regexp.Regexp
	numberPattern       *regexp.Regexp
}

// New builds a Brain with the default domain knowledge and pattern library.
func New() *Brain {
	return &Brain{
		knowledge: defaultKnowledge(),
		executivePatterns: compileAll(
			`([A-Z][a-z]+ [A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)[,\s]*(?:is|serves as|works as)?\s*(CEO|Chief Executive Officer|President|Managing Partner|Partner|Director|VP|Vice President|Head of|Lead)`,
			`(CEO|Chief Executive Officer|President|Managing Partner|Partner|Director|VP|Vice President|Head of|Lead)[,\s]*([A-Z][a-z]+ [A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`,
			`([A-Z][a-z]+ [A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)[,\s]*leads?\s+(?:the\s+)?(healthcare|investment|portfolio|fund)`,
			`([A-Z][a-z]+ [A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)[,\s]*(?:is\s+)?responsible\s+for\s+(healthcare|investment|portfolio)`,
		),
		investmentPatterns: compileAll(
			`(?i)(?:invested|investment|funding|raised|acquired|purchased)\s+(?:in\s+)?([A-Z][a-zA-Z\s&\-]+?)(?:\s+for\s+)?\$([0-9]+(?:\.[0-9]+)?)\s*(million|billion|M|B|k)`,
			`(?i)\$([0-9]+(?:\.[0-9]+)?)\s*(million|billion|M|B|k)\s+(?:investment\s+)?(?:in\s+)?([A-Z][a-zA-Z\s&\-]+)`,
			`(?i)([A-Z][a-zA-Z\s&\-]+?)\s+(?:received|raised|secured)\s+\$([0-9]+(?:\.[0-9]+)?)\s*(million|billion|M|B|k)`,
			`(?i)(?:Series\s+[A-Z]|seed|growth)\s+(?:round\s+)?(?:of\s+)?\$([0-9]+(?:\.[0-9]+)?)\s*(million|billion|M|B|k)\s+(?:in\s+)?([A-Z][a-zA-Z\s&\-]+)`,
		),
		companyPatterns: compileAll(
			`([A-Z][a-zA-Z\s&\-]+?)(?:\s+Inc\.?|\s+LLC|\s+Ltd\.?|\s+Corporation|\s+Corp\.?|\s+Limited|\s+LP|\s+LLP)`,
			`([A-Z][a-zA-Z\s&\-]+?)\s+(?:is\s+a|develops|provides|offers|specializes\s+in)`,
			`([A-Z][a-zA-Z\s&\-]+?)\s+(?:platform|solution|technology|software|device|drug|treatment)`,
		),
		opportunityPatterns: compileAll(
			`(?i)(?:opportunity|gap|potential|growth|expansion|market|emerging|trend|unmet\s+need|whitespace)`,
			`(?i)(?:could|should|might|may)\s+(?:invest|explore|consider|target)`,
			`(?i)(?:lacking|missing|absent|underserved|untapped|unexplored)`,
			`(?i)(?:future|next|upcoming|emerging|growing|expanding)\s+(?:market|sector|area|opportunity)`,
		),
		sentenceSplit: regexp.MustCompile(`[.!?]+`),
		numberPattern: regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`),
	}
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// ContentRelevance scores how relevant a retrieved document is to the
// extraction context, in [0,1]. Target-name mentions dominate, followed by
// domain vocabulary and intent keywords; low-signal reference sites are
// penalized.
func (b *Brain) ContentRelevance(content, title, url string, ctx Context) float64 {
	score := 0.0
	contentLower := strings.ToLower(content)
	titleLower := strings.ToLower(title)

	matches := 0
	for _, v := range CompanyVariations(ctx.Target) {
		vl := strings.ToLower(v)
		if strings.Contains(contentLower, vl) || strings.Contains(titleLower, vl) {
			matches++
		}
	}
	score += capped(float64(matches)*0.3, 0.6)

	domainHits := 0
	for _, kw := range b.Knowledge(ctx.FocusDomain).CompanyIndicators {
		if strings.Contains(contentLower, kw) {
			domainHits++
		}
	}
	score += capped(float64(domainHits)*0.1, 0.3)

	var intentKeywords []string
	switch ctx.Intent {
	case "decision_makers":
		intentKeywords = []string{"ceo", "president", "partner", "director", "executive", "management", "leadership"}
	case "investments":
		intentKeywords = []string{"investment", "funding", "portfolio", "deal", "acquisition", "merger", "raised"}
	}
	intentHits := 0
	for _, kw := range intentKeywords {
		if strings.Contains(contentLower, kw) {
			intentHits++
		}
	}
	score += capped(float64(intentHits)*0.05, 0.2)

	if strings.Contains(url, "linkedin") || strings.Contains(url, "crunchbase") || strings.Contains(url, "bloomberg") {
		score += 0.1
	} else if strings.Contains(url, "wikipedia") || strings.Contains(url, "dictionary") || strings.Contains(url, ".gov") {
		score -= 0.2
	}

	if score < 0 {
		return 0
	}
	return capped(score, 1.0)
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
