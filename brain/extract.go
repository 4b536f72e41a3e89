package brain

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Finding is one extracted fact with a domain-relevance weight used for
// ranking and confidence blending. Kind is "executive", "investment",
// "opportunity" or "company"; Key carries the kind-specific fields.
type Finding struct {
	Kind            string
	Name            string
	Title           string
	Company         string
	Amount          string
	Text            string
	DomainRelevance float64
	Confidence      float64
	Source          string
}

// Common false positives that pattern-match a person name but name a firm.
var nameFalsePositives = []string{
	"asset management", "capital partners", "investment group",
	"financial services", "private equity", "venture capital",
	"healthcare solutions", "medical technology",
}

// IsPersonName validates that a candidate string plausibly names a person:
// two or more capitalized words, bounded length, and not a known firm-style
// phrase.
func IsPersonName(name string) bool {
	if len(name) < 4 || len(name) > 50 {
		return false
	}
	words := strings.Fields(name)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		first, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(first) {
			return false
		}
	}
	lower := strings.ToLower(name)
	for _, fp := range nameFalsePositives {
		if strings.Contains(lower, fp) {
			return false
		}
	}
	return true
}

// ExtractExecutives pulls name/title pairs from content using the executive
// pattern library, keeping only findings relevant to the focus domain.
// Returns at most the top five, ranked by domain relevance.
func (b *Brain) ExtractExecutives(content, sourceTitle string, ctx Context) []Finding {
	domainTitles := b.Knowledge(ctx.FocusDomain).ExecutiveTitles
	allTitles := append([]string{"CEO", "President", "Partner", "Director", "VP", "Head of"}, domainTitles...)

	var findings []Finding
	for _, pattern := range b.executivePatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			var name, title string
			for _, group := range match[1:] {
				if len(group) <= 2 {
					continue
				}
				if containsAnyTitle(group, allTitles) {
					title = strings.TrimSpace(group)
				} else if IsPersonName(group) {
					name = strings.TrimSpace(group)
				}
			}
			if name == "" || title == "" {
				continue
			}
			relevance := b.executiveDomainRelevance(title, ctx.FocusDomain)
			if relevance < 0.3 {
				continue
			}
			findings = append(findings, Finding{
				Kind:            "executive",
				Name:            name,
				Title:           title,
				DomainRelevance: relevance,
				Confidence:      0.8 + relevance*0.2,
				Source:          sourceTitle,
			})
		}
	}
	return topRanked(dedupeBy(findings, func(f Finding) string { return strings.ToLower(f.Name) }), 5)
}

// ExtractInvestments pulls company/amount pairs from content using the
// investment pattern library. Returns at most the top five by relevance.
func (b *Brain) ExtractInvestments(content, sourceTitle string, ctx Context) []Finding {
	var findings []Finding
	for _, pattern := range b.investmentPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			var company, amount, unit string
			for _, group := range match[1:] {
				switch {
				case group == "":
				case b.numberPattern.MatchString(group):
					amount = group
				case isAmountUnit(group):
					unit = group
				case len(group) > 3 && group[0] >= 'A' && group[0] <= 'Z':
					company = strings.TrimSpace(group)
				}
			}
			if company == "" || amount == "" || unit == "" {
				continue
			}
			relevance := b.indicatorRelevance(company, ctx.FocusDomain)
			if relevance <= 0.2 {
				continue
			}
			findings = append(findings, Finding{
				Kind:            "investment",
				Company:         company,
				Amount:          "$" + amount + unit,
				DomainRelevance: relevance,
				Confidence:      0.7 + relevance*0.3,
				Source:          sourceTitle,
			})
		}
	}
	return topRanked(dedupeBy(findings, func(f Finding) string { return strings.ToLower(f.Company) }), 5)
}

// ExtractOpportunities scans sentences for opportunity language and keeps
// those with enough domain vocabulary. Returns at most the top three.
func (b *Brain) ExtractOpportunities(content, sourceTitle string, ctx Context) []Finding {
	var findings []Finding
	for _, sentence := range b.sentenceSplit.Split(content, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) < 20 || len(sentence) > 300 {
			continue
		}
		matched := false
		for _, pattern := range b.opportunityPatterns {
			if pattern.MatchString(sentence) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		relevance := b.textRelevance(sentence, ctx.FocusDomain)
		if relevance <= 0.3 {
			continue
		}
		findings = append(findings, Finding{
			Kind:            "opportunity",
			Text:            sentence,
			DomainRelevance: relevance,
			Confidence:      0.6 + relevance*0.4,
			Source:          sourceTitle,
		})
	}
	return topRanked(findings, 3)
}

// ExtractCompanies pulls company mentions from content. Returns at most the
// top five by relevance.
func (b *Brain) ExtractCompanies(content, sourceTitle string, ctx Context) []Finding {
	var findings []Finding
	for _, pattern := range b.companyPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			company := strings.TrimSpace(match[1])
			if len(company) <= 3 || company[0] < 'A' || company[0] > 'Z' {
				continue
			}
			relevance := b.indicatorRelevance(company, ctx.FocusDomain)
			if relevance <= 0.4 {
				continue
			}
			findings = append(findings, Finding{
				Kind:            "company",
				Company:         company,
				DomainRelevance: relevance,
				Confidence:      0.7 + relevance*0.3,
				Source:          sourceTitle,
			})
		}
	}
	return topRanked(dedupeBy(findings, func(f Finding) string { return strings.ToLower(f.Company) }), 5)
}

func (b *Brain) executiveDomainRelevance(title, domain string) float64 {
	relevance := 0.0
	titleLower := strings.ToLower(title)

	for _, dt := range b.Knowledge(domain).ExecutiveTitles {
		if strings.Contains(titleLower, strings.ToLower(dt)) {
			relevance += 0.8
			break
		}
	}
	if domain == "healthcare" {
		for _, kw := range []string{"healthcare", "health", "medical", "bio", "pharma", "clinical", "life sciences"} {
			if strings.Contains(titleLower, kw) {
				relevance += 0.6
				break
			}
		}
	}
	for _, kw := range []string{"investment", "portfolio", "fund", "partner", "director"} {
		if strings.Contains(titleLower, kw) {
			relevance += 0.3
			break
		}
	}
	return capped(relevance, 1.0)
}

func (b *Brain) indicatorRelevance(name, domain string) float64 {
	lower := strings.ToLower(name)
	for _, indicator := range b.Knowledge(domain).CompanyIndicators {
		if strings.Contains(lower, indicator) {
			return 0.7
		}
	}
	return 0
}

func (b *Brain) textRelevance(text, domain string) float64 {
	lower := strings.ToLower(text)
	matches := 0
	for _, indicator := range b.Knowledge(domain).CompanyIndicators {
		if strings.Contains(lower, indicator) {
			matches++
		}
	}
	return capped(float64(matches)*0.3, 0.9)
}

func containsAnyTitle(s string, titles []string) bool {
	for _, t := range titles {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func isAmountUnit(s string) bool {
	switch strings.ToLower(s) {
	case "million", "billion", "m", "b", "k":
		return true
	}
	return false
}

// dedupeBy keeps the first finding per key, preserving input order so
// repeated extraction runs yield the same set.
func dedupeBy(findings []Finding, key func(Finding) string) []Finding {
	seen := make(map[string]bool, len(findings))
	unique := findings[:0:0]
	for _, f := range findings {
		k := key(f)
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, f)
	}
	return unique
}

// topRanked sorts by domain relevance (stable, descending) and truncates.
func topRanked(findings []Finding, n int) []Finding {
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].DomainRelevance > findings[j].DomainRelevance
	})
	if len(findings) > n {
		findings = findings[:n]
	}
	return findings
}
