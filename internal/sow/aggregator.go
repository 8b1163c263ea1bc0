package sow

import "github.com/sowforge/sowforge/internal/models"

// UnknownSourceFile is recorded when a document carries no original filename.
const UnknownSourceFile = "Unknown"

// FileSummary is one analyzed document's summary, tagged with its filename.
type FileSummary struct {
	Filename string `json:"filename"`
	Summary  string `json:"summary"`
}

// AggregatedAnalysis is the merged view of every successfully analyzed source
// document, serialized into the generation prompt.
type AggregatedAnalysis struct {
	Requirements []map[string]any `json:"requirements"`
	Summaries    []FileSummary    `json:"summaries"`
}

// Aggregate flattens the analysis payloads of the ANALYZED_SUCCESS documents
// into one structure. Each requirement is tagged with a source_file field so
// the generated SOW can cite where it came from. Document iteration order is
// preserved; requirements from the same document stay contiguous. Documents
// in any other status contribute nothing.
func Aggregate(docs []models.SourceDocument) AggregatedAnalysis {
	agg := AggregatedAnalysis{
		Requirements: []map[string]any{},
		Summaries:    []FileSummary{},
	}

	for _, doc := range docs {
		if doc.Status != models.DocStatusAnalyzedSuccess || doc.Analysis == nil {
			continue
		}

		filename := doc.OriginalFilename
		if filename == "" {
			filename = UnknownSourceFile
		}

		for _, req := range doc.Analysis.Requirements {
			tagged := make(map[string]any, len(req)+1)
			for k, v := range req {
				tagged[k] = v
			}
			tagged["source_file"] = filename
			agg.Requirements = append(agg.Requirements, tagged)
		}

		if doc.Analysis.Summary != "" {
			agg.Summaries = append(agg.Summaries, FileSummary{
				Filename: filename,
				Summary:  doc.Analysis.Summary,
			})
		}
	}

	return agg
}

// hasAnalyzedDocuments reports whether at least one document qualifies for
// aggregation.
func hasAnalyzedDocuments(docs []models.SourceDocument) bool {
	for _, doc := range docs {
		if doc.Status == models.DocStatusAnalyzedSuccess {
			return true
		}
	}
	return false
}
