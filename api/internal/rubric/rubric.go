// Package rubric derives grading requirements from free-text rubrics and
// assignment instructions using a fixed keyword table.
package rubric

import (
	"regexp"
	"strings"

	"report-checker/api/internal/types"
)

// Rule maps a keyword pattern to the requirement it implies.
type Rule struct {
	ID          types.RequirementID
	Pattern     *regexp.Regexp
	Description string
	Source      string
}

// Requirement returns the requirement contributed when the rule fires.
func (r Rule) Requirement() types.Requirement {
	return types.Requirement{ID: r.ID, Description: r.Description, Source: r.Source}
}

// Rules is evaluated top to bottom; its order is the output order of Extract.
var Rules = []Rule{
	{
		ID:          types.PivotTable,
		Pattern:     regexp.MustCompile(`(?i)pivot\s*table`),
		Description: "Include pivot table with specific fields (e.g., Business Student, Athlete, Cheated)",
		Source:      "Excel documentation: https://support.microsoft.com/en-us/office/create-a-pivottable",
	},
	{
		ID:          types.BarChart,
		Pattern:     regexp.MustCompile(`(?i)bar\s*chart|figure|chart`),
		Description: "Include bar chart visualizing data, embedded in the document",
		Source:      "Excel charting guide: https://support.microsoft.com/en-us/office/create-a-chart",
	},
	{
		ID:          types.HypothesisTests,
		Pattern:     regexp.MustCompile(`(?i)hypothesis\s*test|hypothes[ie]s|h0|p-value`),
		Description: "Perform hypothesis tests with H0, Ha, test statistics, and p-values",
		Source:      `Statistics textbook: "Introduction to Statistics" by Weiss`,
	},
	{
		ID:          types.EthicalSummary,
		Pattern:     regexp.MustCompile(`(?i)ethical\s*summary|ethics|bretag`),
		Description: "Include ethical summary with at least three references",
		Source:      "Bretag, T. (2016). Handbook of Academic Integrity.",
	},
	{
		ID:          types.APAStyle,
		Pattern:     regexp.MustCompile(`(?i)apa\s*style|apa\s*format`),
		Description: "Follow APA Style formatting for references",
		Source:      "APA Style Guide: https://apastyle.apa.org",
	},
	{
		ID:          types.BiblicalPrinciples,
		Pattern:     regexp.MustCompile(`(?i)biblical\s*principles|luke|proverbs`),
		Description: "Include biblical principles in the ethical summary (e.g., Luke 16:10-12)",
		Source:      "Holy Bible, NIV: Luke 16:10-12",
	},
}

// General is emitted when a rubric is present but matches no rule.
var General = types.Requirement{
	ID:          types.GeneralContent,
	Description: "Ensure content aligns with guidelines",
	Source:      "Consult assignment guidelines.",
}

// Extract returns the requirements implied by the rubric and instructions.
// An empty (or blank) corpus yields no requirements; callers must treat that
// as an input error.
func Extract(rubricText, instructions string) []types.Requirement {
	corpus := strings.ToLower(rubricText + " " + instructions)
	if strings.TrimSpace(corpus) == "" {
		return nil
	}

	var reqs []types.Requirement
	for _, r := range Rules {
		if r.Pattern.MatchString(corpus) {
			reqs = append(reqs, r.Requirement())
		}
	}
	if len(reqs) == 0 {
		reqs = append(reqs, General)
	}
	return reqs
}

// Lookup finds the rule-backed requirement for id. general_content is
// included.
func Lookup(id types.RequirementID) (types.Requirement, bool) {
	if id == types.GeneralContent {
		return General, true
	}
	for _, r := range Rules {
		if r.ID == id {
			return r.Requirement(), true
		}
	}
	return types.Requirement{}, false
}
