package brain

import "strings"

// DomainKnowledge captures sector-specific vocabulary used for query
// construction and relevance scoring.
type DomainKnowledge struct {
	InvestmentTypes   []string
	ExecutiveTitles   []string
	CompanyIndicators []string
	FundingStages     []string
	KeyMetrics        []string
}

// Context scopes one extraction pass: the target organization, the sector
// being analyzed and the search intent driving relevance weighting.
type Context struct {
	Target      string
	FocusDomain string
	Intent      string // "decision_makers", "investments", "gaps"
}

func defaultKnowledge() map[string]DomainKnowledge {
	return map[string]DomainKnowledge{
		"healthcare": {
			InvestmentTypes: []string{
				"biotech", "pharmaceuticals", "medical devices", "digital health",
				"healthtech", "medtech", "diagnostics", "therapeutics",
				"clinical trials", "drug discovery", "medical AI", "telemedicine",
			},
			ExecutiveTitles: []string{
				"Healthcare Investment Director", "Life Sciences Partner",
				"Biotech Investment Manager", "Healthcare Portfolio Manager",
				"Medical Technology Analyst", "Pharmaceutical Investment Lead",
			},
			CompanyIndicators: []string{
				"bio", "pharma", "medical", "health", "clinical", "therapeutic",
				"diagnostic", "genomic", "biotech", "medtech", "drug", "device",
			},
			FundingStages: []string{
				"seed", "series a", "series b", "series c", "growth", "ipo",
				"acquisition", "merger", "licensing deal", "partnership",
			},
			KeyMetrics: []string{
				"clinical trial", "fda approval", "regulatory", "pipeline",
				"patient outcomes", "efficacy", "safety", "market access",
			},
		},
		"fintech": {
			InvestmentTypes: []string{
				"payments", "lending", "insurtech", "wealthtech", "regtech",
				"blockchain", "cryptocurrency", "digital banking", "robo-advisor",
			},
			ExecutiveTitles: []string{
				"Fintech Investment Director", "Financial Services Partner",
				"Digital Banking Analyst", "Payments Investment Lead",
			},
			CompanyIndicators: []string{
				"pay", "bank", "finance", "credit", "loan", "insurance",
				"wealth", "trading", "crypto", "blockchain", "digital wallet",
			},
		},
	}
}

// Knowledge returns the vocabulary for a focus domain, or a zero value for
// unknown domains.
func (b *Brain) Knowledge(domain string) DomainKnowledge {
	return b.knowledge[strings.ToLower(domain)]
}

// CompanyVariations generates alternate spellings of a company name so
// queries and relevance checks match abbreviated mentions. The input name is
// always first.
func CompanyVariations(name string) []string {
	variations := []string{name}

	if strings.Contains(name, "Capital") {
		variations = append(variations,
			strings.ReplaceAll(name, "Capital", "Cap"),
			strings.ReplaceAll(name, " Capital", ""),
		)
	}
	if strings.Contains(name, "Management") {
		variations = append(variations,
			strings.ReplaceAll(name, "Management", "Mgmt"),
			strings.ReplaceAll(name, " Management", ""),
		)
	}
	if strings.Contains(name, "Partners") {
		variations = append(variations, strings.ReplaceAll(name, "Partners", "Partner"))
	}

	words := strings.Fields(name)
	if len(words) > 1 {
		var abbr strings.Builder
		for _, w := range words {
			if w[0] >= 'A' && w[0] <= 'Z' {
				abbr.WriteByte(w[0])
			}
		}
		if abbr.Len() > 1 {
			variations = append(variations, abbr.String())
		}
	}
	return variations
}
