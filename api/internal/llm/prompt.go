package llm

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"report-checker/api/internal/types"
)

//go:embed prompt/evaluate.system.txt
var defaultSystemPrompt string

const replyShape = `{
  "results": [
    {
      "requirement": string,
      "isConformant": boolean,
      "suggestion": string,
      "feedback": string,
      "revisionInstruction": string,
      "source": string
    }
  ],
  "grade": number,       // 0..100
  "letterGrade": string  // "A" | "B" | "C" | "D" | "F"
}`

// LoadSystemPrompt reads <dir>/evaluate.system.txt, falling back to the
// embedded prompt when dir is empty or the file is missing or blank.
func LoadSystemPrompt(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return strings.TrimSpace(defaultSystemPrompt), nil
	}
	p := filepath.Join(dir, "evaluate.system.txt")
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return strings.TrimSpace(defaultSystemPrompt), nil
		}
		return "", fmt.Errorf("read prompt %s: %w", p, err)
	}
	if s := strings.TrimSpace(string(b)); s != "" {
		return s, nil
	}
	return strings.TrimSpace(defaultSystemPrompt), nil
}

// AssessInput is everything the model sees about one file.
type AssessInput struct {
	RubricText   string
	Instructions string
	Requirements []types.Requirement
	FileName     string
	Content      string
}

// Prompter turns an AssessInput into a Prompt.
type Prompter struct {
	System      string
	MaxTokens   int
	Temperature float32
}

// Build embeds rubric, instructions and content verbatim.
func (p Prompter) Build(in AssessInput) Prompt {
	var b strings.Builder
	b.WriteString("Evaluate the academic report below against the rubric and instructions.\n\n")

	b.WriteString("RUBRIC:\n")
	b.WriteString(orNone(in.RubricText))
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString(orNone(in.Instructions))

	b.WriteString("\n\nREQUIREMENTS (return one result per requirement, in this order):\n")
	for i, r := range in.Requirements {
		fmt.Fprintf(&b, "%d. %s (source: %s)\n", i+1, r.Description, r.Source)
	}

	fmt.Fprintf(&b, "\nREPORT %q:\n", in.FileName)
	b.WriteString(in.Content)

	b.WriteString("\n\nReturn strictly a JSON object of this shape:\n")
	b.WriteString(replyShape)

	system := p.System
	if system == "" {
		system = strings.TrimSpace(defaultSystemPrompt)
	}
	return Prompt{
		System:      system,
		User:        b.String(),
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		JSON:        true,
	}
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
