// Package scoring computes the keyword-overlap match between a résumé and a
// job description.
//
// Job description keywords are the lowercase whitespace-delimited tokens of
// the description, duplicates retained. A keyword occurrence matches when the
// same token appears anywhere in the lowercase résumé. The score is the
// matched share of occurrences as a percentage, rounded to two decimals.
package scoring

import (
	"math"
	"strings"
)

// MaxScore is the upper bound of Score.
const MaxScore = 100.0

// Score returns the match percentage of resumeText against jobDescriptionText.
func Score(resumeText, jobDescriptionText string) float64 {
	keywords := tokenize(jobDescriptionText)
	if len(keywords) == 0 {
		return 0
	}
	words := wordSet(resumeText)
	matched := 0
	for _, kw := range keywords {
		if _, ok := words[kw]; ok {
			matched++
		}
	}
	score := float64(matched) / float64(len(keywords)) * 100
	return round2(math.Min(MaxScore, score))
}

// Explanation lists distinct job keywords found and not found in a résumé,
// in order of first appearance in the job description.
type Explanation struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// Explain reports which keywords contributed to Score.
func Explain(resumeText, jobDescriptionText string) Explanation {
	words := wordSet(resumeText)
	seen := make(map[string]struct{})
	out := Explanation{Matched: []string{}, Missing: []string{}}
	for _, kw := range tokenize(jobDescriptionText) {
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		if _, ok := words[kw]; ok {
			out.Matched = append(out.Matched, kw)
		} else {
			out.Missing = append(out.Missing, kw)
		}
	}
	return out
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

func wordSet(text string) map[string]struct{} {
	tokens := tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
