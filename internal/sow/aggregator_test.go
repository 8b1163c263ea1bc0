package sow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sowforge/sowforge/internal/models"
)

func TestAggregate_MergesOnlyAnalyzedDocuments(t *testing.T) {
	docs := []models.SourceDocument{
		{
			ID:               "d1",
			OriginalFilename: "rfp.pdf",
			Status:           models.DocStatusAnalyzedSuccess,
			Analysis: &models.Analysis{
				Requirements: []map[string]any{
					{"id": "R1", "text": "must scale"},
					{"id": "R2", "text": "must log"},
				},
				Summary: "an RFP",
			},
		},
		{
			ID:               "d2",
			OriginalFilename: "notes.pdf",
			Status:           models.DocStatusAnalysisFailed,
			Analysis: &models.Analysis{
				Requirements: []map[string]any{{"id": "IGNORED"}},
				Summary:      "ignored",
			},
		},
		{
			ID:               "d3",
			OriginalFilename: "appendix.pdf",
			Status:           models.DocStatusAnalyzedSuccess,
			Analysis: &models.Analysis{
				Requirements: []map[string]any{{"id": "R3"}},
				Summary:      "an appendix",
			},
		},
	}

	agg := Aggregate(docs)

	require.Len(t, agg.Requirements, 3)
	assert.Equal(t, "rfp.pdf", agg.Requirements[0]["source_file"])
	assert.Equal(t, "rfp.pdf", agg.Requirements[1]["source_file"])
	assert.Equal(t, "appendix.pdf", agg.Requirements[2]["source_file"])
	assert.Equal(t, "R1", agg.Requirements[0]["id"])
	assert.Equal(t, "R3", agg.Requirements[2]["id"])

	require.Len(t, agg.Summaries, 2)
	assert.Equal(t, FileSummary{Filename: "rfp.pdf", Summary: "an RFP"}, agg.Summaries[0])
	assert.Equal(t, FileSummary{Filename: "appendix.pdf", Summary: "an appendix"}, agg.Summaries[1])
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	docs := []models.SourceDocument{
		{
			ID:               "d1",
			OriginalFilename: "a.pdf",
			Status:           models.DocStatusAnalyzedSuccess,
			Analysis: &models.Analysis{
				Requirements: []map[string]any{{"id": "R1"}},
			},
		},
	}

	Aggregate(docs)

	_, tagged := docs[0].Analysis.Requirements[0]["source_file"]
	assert.False(t, tagged, "aggregation must copy requirements, not tag them in place")
}

func TestAggregate_UnknownFilenameFallback(t *testing.T) {
	docs := []models.SourceDocument{
		{
			ID:     "d1",
			Status: models.DocStatusAnalyzedSuccess,
			Analysis: &models.Analysis{
				Requirements: []map[string]any{{"id": "R1"}},
				Summary:      "no name",
			},
		},
	}

	agg := Aggregate(docs)

	require.Len(t, agg.Requirements, 1)
	assert.Equal(t, UnknownSourceFile, agg.Requirements[0]["source_file"])
	require.Len(t, agg.Summaries, 1)
	assert.Equal(t, UnknownSourceFile, agg.Summaries[0].Filename)
}

func TestAggregate_SkipsEmptySummariesAndNilAnalysis(t *testing.T) {
	docs := []models.SourceDocument{
		{
			ID:               "d1",
			OriginalFilename: "a.pdf",
			Status:           models.DocStatusAnalyzedSuccess,
			Analysis: &models.Analysis{
				Requirements: []map[string]any{{"id": "R1"}},
			},
		},
		{
			ID:               "d2",
			OriginalFilename: "b.pdf",
			Status:           models.DocStatusAnalyzedSuccess,
			Analysis:         nil,
		},
	}

	agg := Aggregate(docs)

	assert.Len(t, agg.Requirements, 1)
	assert.Empty(t, agg.Summaries)
}

func TestAggregate_EmptyInputYieldsEmptyNonNilSlices(t *testing.T) {
	agg := Aggregate(nil)

	// The prompt serializes this struct; nil slices would render as JSON null
	// instead of [].
	assert.NotNil(t, agg.Requirements)
	assert.NotNil(t, agg.Summaries)
	assert.Empty(t, agg.Requirements)
	assert.Empty(t, agg.Summaries)
}

func TestHasAnalyzedDocuments(t *testing.T) {
	assert.False(t, hasAnalyzedDocuments(nil))
	assert.False(t, hasAnalyzedDocuments([]models.SourceDocument{
		{Status: models.DocStatusPendingUpload},
		{Status: models.DocStatusAnalysisFailed},
		{Status: models.DocStatusReAnalyzing},
	}))
	assert.True(t, hasAnalyzedDocuments([]models.SourceDocument{
		{Status: models.DocStatusAnalysisFailed},
		{Status: models.DocStatusAnalyzedSuccess},
	}))
}
