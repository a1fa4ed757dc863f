package rubric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-checker/api/internal/types"
)

func ids(reqs []types.Requirement) []types.RequirementID {
	out := make([]types.RequirementID, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.ID)
	}
	return out
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name         string
		rubric       string
		instructions string
		want         []types.RequirementID
	}{
		{
			name:   "pivot table lowercase",
			rubric: "Build a pivot table of the survey",
			want:   []types.RequirementID{types.PivotTable},
		},
		{
			name:   "pivot table any case and no space",
			rubric: "PIVOTTABLE required",
			want:   []types.RequirementID{types.PivotTable},
		},
		{
			name:         "rubric and instructions combined in table order",
			rubric:       "Use APA format. Cite Proverbs.",
			instructions: "Add a Figure and run hypothesis tests, then a pivot table",
			want: []types.RequirementID{
				types.PivotTable,
				types.BarChart,
				types.HypothesisTests,
				types.APAStyle,
				types.BiblicalPrinciples,
			},
		},
		{
			name:   "rule fires once for repeated matches",
			rubric: "chart chart bar chart figure",
			want:   []types.RequirementID{types.BarChart},
		},
		{
			name:   "unanchored substring match",
			rubric: "discuss the bretagne case",
			want:   []types.RequirementID{types.EthicalSummary},
		},
		{
			name:   "h0 and p-value",
			rubric: "state H0 and report the p-value",
			want:   []types.RequirementID{types.HypothesisTests},
		},
		{
			name:   "no rule matches falls back to general content",
			rubric: "Write a reflective essay about your internship",
			want:   []types.RequirementID{types.GeneralContent},
		},
		{
			name:         "instructions only",
			instructions: "Discuss ethics",
			want:         []types.RequirementID{types.EthicalSummary},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.rubric, tt.instructions)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestExtract_EmptyCorpus(t *testing.T) {
	assert.Empty(t, Extract("", ""))
	assert.Empty(t, Extract("   ", "\n\t"))
}

func TestExtract_Idempotent(t *testing.T) {
	first := Extract("pivot table, APA style, ethics", "luke 16")
	second := Extract("pivot table, APA style, ethics", "luke 16")
	assert.Equal(t, first, second)
}

func TestExtract_CarriesDescriptionAndSource(t *testing.T) {
	reqs := Extract("apa style", "")
	require.Len(t, reqs, 1)
	assert.Equal(t, "Follow APA Style formatting for references", reqs[0].Description)
	assert.Equal(t, "APA Style Guide: https://apastyle.apa.org", reqs[0].Source)
}

func TestLookup(t *testing.T) {
	r, ok := Lookup(types.HypothesisTests)
	require.True(t, ok)
	assert.Equal(t, types.HypothesisTests, r.ID)

	r, ok = Lookup(types.GeneralContent)
	require.True(t, ok)
	assert.Equal(t, General, r)

	_, ok = Lookup("word_count")
	assert.False(t, ok)
}
