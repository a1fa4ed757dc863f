package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"report-checker/api/internal/conformity"
	"report-checker/api/internal/types"
)

// Assessment is the normalized model verdict for one file.
type Assessment struct {
	Results     []types.ConformanceResult
	Grade       float64
	LetterGrade string
}

// Assessor runs one file through an engine.
type Assessor struct {
	Engine   Engine
	Prompter Prompter
}

// Assess builds the prompt, calls the engine and normalizes the reply.
// Every failure (transport, upstream status, bad reply) is returned as an
// error; the caller decides how to report it.
func (a *Assessor) Assess(ctx context.Context, in AssessInput) (Assessment, error) {
	out, err := a.Engine.Complete(ctx, a.Prompter.Build(in))
	if err != nil {
		return Assessment{}, err
	}
	return ParseAssessment(out)
}

// ParseAssessment decodes a raw model reply.
func ParseAssessment(reply string) (Assessment, error) {
	txt := ExtractJSON(StripCodeFences(reply))
	if txt == "" {
		return Assessment{}, fmt.Errorf("%w: no JSON object in reply", ErrMalformedReply)
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(txt), &raw); err != nil {
		return Assessment{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return normalizeAssessment(raw)
}

var letterRe = regexp.MustCompile(`^[A-F][+-]?$`)

// normalizeAssessment coerces arbitrary model output into the strict reply
// shape: required fields enforced, optional ones defaulted, grade clamped.
func normalizeAssessment(m map[string]any) (Assessment, error) {
	rawResults, ok := m["results"].([]any)
	if !ok {
		return Assessment{}, fmt.Errorf("%w: results missing", ErrMalformedReply)
	}

	results := make([]types.ConformanceResult, 0, len(rawResults))
	for _, it := range rawResults {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		requirement := strings.TrimSpace(str(obj["requirement"]))
		if requirement == "" {
			continue // required
		}
		results = append(results, types.ConformanceResult{
			Requirement:         requirement,
			IsConformant:        boolean(obj["isConformant"]),
			Suggestion:          str(obj["suggestion"]),
			Feedback:            str(obj["feedback"]),
			RevisionInstruction: str(obj["revisionInstruction"]),
			Source:              str(obj["source"]),
		})
	}
	if len(results) == 0 {
		return Assessment{}, fmt.Errorf("%w: results empty", ErrMalformedReply)
	}

	// grade (0..100)
	grade, hasGrade := number(m["grade"])
	grade = math.Max(0, math.Min(100, grade))

	// letterGrade (A..F, optional +/-)
	letter := strings.ToUpper(strings.TrimSpace(str(m["letterGrade"])))
	switch {
	case letter == "":
		letter = "F"
	case !letterRe.MatchString(letter) && hasGrade:
		letter = conformity.Letter(grade)
	case !letterRe.MatchString(letter):
		letter = "F"
	}

	return Assessment{Results: results, Grade: grade, LetterGrade: letter}, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func boolean(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		ok, _ := strconv.ParseBool(strings.TrimSpace(b))
		return ok
	default:
		return false
	}
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(n), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	// "NaN" and "Inf" parse but cannot be encoded back to JSON
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
