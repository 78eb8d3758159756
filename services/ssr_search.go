package services

import (
	"sort"
	"strings"
)

// MinQueryLength is the shortest query the SSR search accepts.
const MinQueryLength = 2

// DefaultMaxResults caps the number of suggestions returned when the caller
// does not ask for a specific count.
const DefaultMaxResults = 5

// SSRItem is one Standard Schedule of Rates entry available for lookup.
type SSRItem struct {
	ID          string   `json:"primary_key"`
	SrNo        string   `json:"sr_no"`
	Description string   `json:"description"`
	Unit        string   `json:"unit"`
	Rate2023    float64  `json:"rate_2023_24"`
	Rate2024    float64  `json:"rate_2024_25"`
	Section     string   `json:"section"`
	PageNumber  int      `json:"page_number"`
	Keywords    []string `json:"-"`
}

// SSRSuggestion is one ranked search result.
type SSRSuggestion struct {
	Item            SSRItem  `json:"item"`
	RelevanceScore  float64  `json:"relevance_score"`
	MatchType       string   `json:"match_type"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// SearchSSRItems ranks rate-list entries against a free-text description
// query and returns the top maxResults suggestions. Scoring is additive over
// several heuristics (item number, keyword, description and section matches)
// and capped at 1.0; entries scoring 0.1 or below are dropped.
func SearchSSRItems(items []SSRItem, query string, maxResults int) []SSRSuggestion {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < MinQueryLength {
		return nil
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	queryWords := strings.Fields(query)
	var results []SSRSuggestion

	for _, item := range items {
		confidence, matched := scoreSSRItem(item, query, queryWords)
		if confidence <= 0.1 {
			continue
		}

		if len(matched) > 5 {
			matched = matched[:5]
		}
		results = append(results, SSRSuggestion{
			Item:            item,
			RelevanceScore:  min(confidence, 1.0),
			MatchType:       classifyMatch(item, query, matched, confidence),
			MatchedKeywords: matched,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func scoreSSRItem(item SSRItem, query string, queryWords []string) (float64, []string) {
	var confidence float64
	var matched []string

	// Exact item number ("42" or "item 42")
	if item.SrNo != "" && (query == item.SrNo || query == "item "+item.SrNo) {
		confidence += 1.0
		matched = append(matched, "item "+item.SrNo)
	}

	// Keyword containment, either direction
	for _, keyword := range item.Keywords {
		for _, word := range queryWords {
			if strings.Contains(keyword, word) || strings.Contains(word, keyword) {
				confidence += 0.15
				if !containsString(matched, keyword) {
					matched = append(matched, keyword)
				}
			}
		}
	}

	// Exact keyword hits get a boost on top of containment
	for _, keyword := range item.Keywords {
		if containsString(queryWords, keyword) {
			confidence += 0.3
		}
	}

	desc := strings.ToLower(item.Description)
	if strings.Contains(desc, query) {
		confidence += 0.4
	}
	if desc == query {
		confidence += 0.5
	}

	// Partial overlaps between query words and description words
	descWords := strings.Fields(desc)
	for _, word := range queryWords {
		if len(word) <= 2 {
			continue
		}
		for _, dw := range descWords {
			if strings.Contains(dw, word) || strings.Contains(word, dw) {
				confidence += 0.1
			}
		}
	}

	if strings.Contains(strings.ToLower(item.Section), query) {
		confidence += 0.2
	}
	if item.Unit != "" && strings.Contains(strings.ToLower(item.Unit), query) {
		confidence += 0.1
	}

	return confidence, matched
}

func classifyMatch(item SSRItem, query string, matched []string, confidence float64) string {
	desc := strings.ToLower(item.Description)
	switch {
	case item.SrNo != "" && strings.Contains(query, item.SrNo):
		return "exact_item"
	case strings.Contains(desc, query):
		return "exact"
	case len(matched) > 0:
		return "keyword"
	case confidence > 0.3:
		return "partial"
	default:
		return "semantic"
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
