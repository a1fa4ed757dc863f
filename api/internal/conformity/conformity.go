// Package conformity decides whether a report satisfies a single requirement
// and grades a set of verdicts.
package conformity

import (
	"math"
	"regexp"
	"strings"

	"report-checker/api/internal/types"
)

// Verdict is the evaluator output for one (content, requirement) pair.
type Verdict struct {
	IsConformant        bool
	Suggestion          string
	Feedback            string
	RevisionInstruction string
}

// Result stamps the verdict with the requirement it was produced for.
func (v Verdict) Result(req types.Requirement) types.ConformanceResult {
	return types.ConformanceResult{
		Requirement:         req.Description,
		IsConformant:        v.IsConformant,
		Suggestion:          v.Suggestion,
		Feedback:            v.Feedback,
		RevisionInstruction: v.RevisionInstruction,
		Source:              req.Source,
	}
}

// Check describes how one requirement is verified and what is said about it.
type Check struct {
	Match      func(content string) bool
	Pass       string // feedback when conformant
	Fail       string // feedback when not
	Suggestion string
	Revision   string
}

// apaReference is structural: Author. (Year). Title. Source.
var apaReference = regexp.MustCompile(`[A-Za-z\s.,]+ \(\d{4}\)\.\s[A-Za-z\s.,]+\.\s[A-Za-z\s.,]+`)

func keywords(pattern string) func(string) bool {
	re := regexp.MustCompile(`(?i)` + pattern)
	return re.MatchString
}

// Checks is the requirement id -> verification table.
var Checks = map[types.RequirementID]Check{
	types.PivotTable: {
		Match:      keywords(`pivot\s*table`),
		Pass:       "Pivot table detected.",
		Fail:       "No pivot table found.",
		Suggestion: "Include a pivot table with specified fields.",
		Revision:   "Use Excel: Insert > PivotTable, include fields like Business Student, Athlete, Cheated.",
	},
	types.BarChart: {
		Match:      keywords(`bar\s*chart|figure|chart`),
		Pass:       "Bar chart detected.",
		Fail:       "No bar chart found.",
		Suggestion: "Include a bar chart visualizing data.",
		Revision:   "Create a bar chart in Excel: Insert > Bar Chart, embed in document.",
	},
	types.HypothesisTests: {
		Match:      keywords(`hypothesis|h0|p-value`),
		Pass:       "Hypothesis tests documented.",
		Fail:       "No hypothesis tests found.",
		Suggestion: "Document hypothesis tests with H0, Ha, p-values.",
		Revision:   "Use Excel/SPSS: Define H0, Ha, calculate p-values, document results.",
	},
	types.EthicalSummary: {
		Match:      keywords(`ethical|ethics|bretag`),
		Pass:       "Ethical summary detected.",
		Fail:       "No ethical summary found.",
		Suggestion: "Include an ethical summary with three references.",
		Revision:   "Write an ethical summary citing sources (e.g., Bretag, 2016).",
	},
	types.APAStyle: {
		Match:      apaReference.MatchString,
		Pass:       "APA-style references detected.",
		Fail:       "References not in APA Style.",
		Suggestion: "Ensure APA Style references.",
		Revision:   "Format references per APA 7th: Author. (Year). Title. Source.",
	},
	types.BiblicalPrinciples: {
		Match:      keywords(`biblical|luke|proverbs`),
		Pass:       "Biblical principles included.",
		Fail:       "No biblical principles found.",
		Suggestion: "Include biblical principles (e.g., Luke 16:10-12).",
		Revision:   "Add biblical principles (e.g., Luke 16:10-12) in ethical summary.",
	},
	types.GeneralContent: {
		Match:      func(content string) bool { return strings.TrimSpace(content) != "" },
		Pass:       "Content present.",
		Fail:       "No relevant content found.",
		Suggestion: "Ensure file contains relevant content.",
		Revision:   "Review rubric and include required content.",
	},
}

var unknown = Verdict{
	Suggestion:          "Review the requirement manually.",
	Feedback:            "Requirement type is not supported by automatic checks.",
	RevisionInstruction: "Compare the report against the rubric for this requirement.",
}

// Evaluate checks content against req. Deterministic and side-effect free.
func Evaluate(content string, req types.Requirement) Verdict {
	c, ok := Checks[req.ID]
	if !ok {
		return unknown
	}
	if c.Match(content) {
		return Verdict{IsConformant: true, Feedback: c.Pass}
	}
	return Verdict{
		Suggestion:          c.Suggestion,
		Feedback:            c.Fail,
		RevisionInstruction: c.Revision,
	}
}

// EvaluateAll runs every requirement against content in order.
func EvaluateAll(content string, reqs []types.Requirement) []types.ConformanceResult {
	out := make([]types.ConformanceResult, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, Evaluate(content, req).Result(req))
	}
	return out
}

// Grade is the rounded percentage of conformant results; 0 for none.
func Grade(results []types.ConformanceResult) float64 {
	if len(results) == 0 {
		return 0
	}
	pass := 0
	for _, r := range results {
		if r.IsConformant {
			pass++
		}
	}
	return math.Round(float64(pass) * 100 / float64(len(results)))
}

// Letter maps a 0-100 grade onto the usual A-F scale.
func Letter(grade float64) string {
	switch {
	case grade >= 90:
		return "A"
	case grade >= 80:
		return "B"
	case grade >= 70:
		return "C"
	case grade >= 60:
		return "D"
	default:
		return "F"
	}
}
