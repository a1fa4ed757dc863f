package types

// RequirementID tags a grading criterion. The set is closed.
type RequirementID string

const (
	PivotTable         RequirementID = "pivot_table"
	BarChart           RequirementID = "bar_chart"
	HypothesisTests    RequirementID = "hypothesis_tests"
	EthicalSummary     RequirementID = "ethical_summary"
	APAStyle           RequirementID = "apa_style"
	BiblicalPrinciples RequirementID = "biblical_principles"
	GeneralContent     RequirementID = "general_content"
)

// Requirement is one rubric-derived criterion. Never mutated after extraction.
type Requirement struct {
	ID          RequirementID `json:"id"`
	Description string        `json:"description"`
	Source      string        `json:"source"`
}

// Pseudo requirements used when a whole file could not be assessed.
const (
	FileProcessing = "File Processing"
	APIProcessing  = "API Processing"
)
