package types

import "strings"

// --- CHECK REPORTS ----------------------------------------------------------
// Payloads of POST /api/check. Keys are camelCase because the browser client
// posts them as-is.

// CheckRequest is the inbound body.
type CheckRequest struct {
	RubricText   string          `json:"rubricText,omitempty"`
	Instructions string          `json:"instructions,omitempty"`
	FileContents []SubmittedFile `json:"fileContents"`
}

// SubmittedFile is one report converted to plain text by the caller.
// Error is set instead of Content when the caller could not convert the file.
type SubmittedFile struct {
	FileName string `json:"fileName"`
	Content  string `json:"content,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HasRubric reports whether rubric text or instructions were supplied.
func (r *CheckRequest) HasRubric() bool {
	return r.RubricText != "" || r.Instructions != ""
}

// Failed reports whether the caller flagged the file as unreadable.
func (f SubmittedFile) Failed() bool {
	return strings.TrimSpace(f.Error) != ""
}

// CheckResponse is the 200 body.
type CheckResponse struct {
	FileResults []FileResult `json:"fileResults"`
}

// ErrorResponse is the body of every non-200 reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FileResult groups the assessment of one submitted file.
type FileResult struct {
	FileName    string              `json:"fileName"`
	Results     []ConformanceResult `json:"results"`
	Grade       *float64            `json:"grade,omitempty"`
	LetterGrade string              `json:"letterGrade,omitempty"`
}

// ConformanceResult is the verdict for one (file, requirement) pair.
type ConformanceResult struct {
	Requirement         string `json:"requirement"`
	IsConformant        bool   `json:"isConformant"`
	Suggestion          string `json:"suggestion"`
	Feedback            string `json:"feedback"`
	RevisionInstruction string `json:"revisionInstruction"`
	Source              string `json:"source"`
}

// Graded sets grade and letter on the file result.
func (fr *FileResult) Graded(grade float64, letter string) {
	fr.Grade = &grade
	fr.LetterGrade = letter
}
