package llm

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-checker/api/internal/rubric"
	"report-checker/api/internal/types"
)

type stubEngine struct {
	reply string
	err   error
	got   Prompt
}

func (s *stubEngine) Name() string     { return "stub" }
func (s *stubEngine) GetModel() string { return "stub-1" }
func (s *stubEngine) Complete(_ context.Context, p Prompt) (string, error) {
	s.got = p
	return s.reply, s.err
}

func TestParseAssessment_Defaults(t *testing.T) {
	a, err := ParseAssessment(`{"results":[{"requirement":"Include pivot table","isConformant":true,"feedback":"ok"}]}`)
	require.NoError(t, err)

	require.Len(t, a.Results, 1)
	assert.Equal(t, types.ConformanceResult{
		Requirement:  "Include pivot table",
		IsConformant: true,
		Feedback:     "ok",
	}, a.Results[0])
	assert.Equal(t, float64(0), a.Grade)
	assert.Equal(t, "F", a.LetterGrade)
}

func TestParseAssessment_PassThrough(t *testing.T) {
	reply := "```json\n" + `{
  "results": [
    {"requirement": "APA", "isConformant": false, "suggestion": "fix refs", "feedback": "bad refs",
     "revisionInstruction": "use APA 7", "source": "APA guide"},
    {"requirement": "Ethics", "isConformant": "true", "feedback": "good"},
  ],
  "grade": 84.5,
  "letterGrade": "b+"
}` + "\n```"

	a, err := ParseAssessment(reply)
	require.NoError(t, err)
	require.Len(t, a.Results, 2)
	assert.Equal(t, "fix refs", a.Results[0].Suggestion)
	assert.Equal(t, "use APA 7", a.Results[0].RevisionInstruction)
	assert.Equal(t, "APA guide", a.Results[0].Source)
	assert.True(t, a.Results[1].IsConformant)
	assert.Equal(t, 84.5, a.Grade)
	assert.Equal(t, "B+", a.LetterGrade)
}

func TestParseAssessment_ClampAndLetterFromGrade(t *testing.T) {
	a, err := ParseAssessment(`Here you go: {"results":[{"requirement":"x"}],"grade":140,"letterGrade":"excellent"}`)
	require.NoError(t, err)
	assert.Equal(t, float64(100), a.Grade)
	assert.Equal(t, "A", a.LetterGrade)
}

func TestParseAssessment_NonFiniteGrade(t *testing.T) {
	for _, g := range []string{`"NaN"`, `"Inf"`, `"-Infinity"`} {
		t.Run(g, func(t *testing.T) {
			a, err := ParseAssessment(`{"results":[{"requirement":"x","isConformant":true}],"grade":` + g + `,"letterGrade":"B"}`)
			require.NoError(t, err)
			assert.Equal(t, float64(0), a.Grade)
			assert.Equal(t, "B", a.LetterGrade)

			_, err = json.Marshal(a)
			assert.NoError(t, err)
		})
	}
}

func TestParseAssessment_KeepsStringContents(t *testing.T) {
	a, err := ParseAssessment(`{"results":[{"requirement":"Lists","isConformant":false,"feedback":"Listed: a, b, ]","suggestion":"use {x, }"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "Listed: a, b, ]", a.Results[0].Feedback)
	assert.Equal(t, "use {x, }", a.Results[0].Suggestion)
}

func TestParseAssessment_Malformed(t *testing.T) {
	tests := map[string]string{
		"not json":         "I cannot grade this report.",
		"broken json":      `{"results": [`,
		"missing results":  `{"grade": 90, "letterGrade": "A"}`,
		"results not list": `{"results": "all good"}`,
		"no requirements":  `{"results": [{"feedback": "nameless"}, 3]}`,
	}
	for name, reply := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAssessment(reply)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedReply)
		})
	}
}

func TestAssessor_Assess(t *testing.T) {
	eng := &stubEngine{reply: `{"results":[{"requirement":"Include pivot table","isConformant":true}],"grade":92,"letterGrade":"A"}`}
	a := &Assessor{Engine: eng, Prompter: Prompter{System: "sys", MaxTokens: 500, Temperature: 0.2}}

	out, err := a.Assess(context.Background(), AssessInput{
		RubricText:   "Pivot table required",
		Requirements: rubric.Extract("Pivot table required", ""),
		FileName:     "report.docx",
		Content:      "REPORT BODY",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(92), out.Grade)
	assert.Equal(t, "A", out.LetterGrade)

	assert.Equal(t, "sys", eng.got.System)
	assert.Equal(t, 500, eng.got.MaxTokens)
	assert.True(t, eng.got.JSON)
	assert.Contains(t, eng.got.User, "Pivot table required")
	assert.Contains(t, eng.got.User, "REPORT BODY")
	assert.Contains(t, eng.got.User, `REPORT "report.docx"`)
	assert.Contains(t, eng.got.User, "(none)")
}

func TestAssessor_AssessEngineError(t *testing.T) {
	upstream := &UpstreamError{Engine: "stub", StatusCode: 503, Message: "overloaded"}
	a := &Assessor{Engine: &stubEngine{err: upstream}}

	_, err := a.Assess(context.Background(), AssessInput{Content: "x"})
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
	assert.Equal(t, "upstream_status", Outcome(err))
	assert.Equal(t, "transport", Outcome(errors.New("dial tcp: refused")))
	assert.Equal(t, "ok", Outcome(nil))
}

func TestLoadSystemPrompt(t *testing.T) {
	def, err := LoadSystemPrompt("")
	require.NoError(t, err)
	assert.Contains(t, def, "academic assistant")

	dir := t.TempDir()
	missing, err := LoadSystemPrompt(dir)
	require.NoError(t, err)
	assert.Equal(t, def, missing)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "evaluate.system.txt"), []byte("  custom prompt \n"), 0o644))
	custom, err := LoadSystemPrompt(dir)
	require.NoError(t, err)
	assert.Equal(t, "custom prompt", custom)
}

func TestEngines_GetEngine(t *testing.T) {
	eng := &stubEngine{}
	engs := &Engines{OpenAI: eng}

	got, err := engs.GetEngine("GPT")
	require.NoError(t, err)
	assert.Same(t, eng, got)

	_, err = engs.GetEngine("xai")
	assert.Error(t, err)
	_, err = engs.GetEngine("claude")
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, ExtractJSON("```json\n{\"a\":1}\n```\n\nextra"))
	assert.Equal(t, `{"a":[1]}`, ExtractJSON(`noise {"a":[1,]} tail`))
	assert.Equal(t, "", ExtractJSON("no object here"))
	assert.Equal(t, `{"s":"a, ]"}`, ExtractJSON(`{"s":"a, ]"}`))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
}
