package sow

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposePrompt_SubstitutesAllPlaceholders(t *testing.T) {
	promptTemplate := "Fill {template_content} using {aggregated_analysis_json} for {project_name_placeholder}. Mark gaps with {ai_review_tag}."
	agg := AggregatedAnalysis{
		Requirements: []map[string]any{{"id": "R1", "source_file": "a.pdf"}},
		Summaries:    []FileSummary{{Filename: "a.pdf", Summary: "short"}},
	}

	prompt, err := ComposePrompt(promptTemplate, "# Template", agg, "SOW Draft for Acme", "[DRAFT-AI: {content}]")
	require.NoError(t, err)

	assert.Contains(t, prompt, "# Template")
	assert.Contains(t, prompt, "SOW Draft for Acme")
	assert.Contains(t, prompt, "[DRAFT-AI: {content}]")

	// The analysis lands as indented JSON.
	assert.Contains(t, prompt, "\"source_file\": \"a.pdf\"")

	for _, placeholder := range []string{PlaceholderTemplateContent, PlaceholderAggregatedAnalysis, PlaceholderProjectName, PlaceholderAIReviewTag} {
		assert.NotContains(t, prompt, placeholder)
	}
}

func TestComposePrompt_AnalysisJSONRoundTrips(t *testing.T) {
	promptTemplate := "{template_content}|{project_name_placeholder}|{aggregated_analysis_json}"
	agg := Aggregate(nil)

	prompt, err := ComposePrompt(promptTemplate, "", agg, "t", "")
	require.NoError(t, err)

	parts := strings.SplitN(prompt, "|", 3)
	require.Len(t, parts, 3)

	var decoded AggregatedAnalysis
	require.NoError(t, json.Unmarshal([]byte(parts[2]), &decoded))
	assert.Empty(t, decoded.Requirements)
	assert.Empty(t, decoded.Summaries)
}

func TestComposePrompt_MissingRequiredPlaceholder(t *testing.T) {
	cases := map[string]string{
		"no template content": "{aggregated_analysis_json} {project_name_placeholder}",
		"no analysis":         "{template_content} {project_name_placeholder}",
		"no project name":     "{template_content} {aggregated_analysis_json}",
		"empty prompt":        "",
	}
	for name, promptTemplate := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ComposePrompt(promptTemplate, "body", AggregatedAnalysis{}, "title", "")
			require.Error(t, err)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestComposePrompt_AIReviewTagIsOptional(t *testing.T) {
	promptTemplate := "{template_content} {aggregated_analysis_json} {project_name_placeholder}"

	prompt, err := ComposePrompt(promptTemplate, "body", AggregatedAnalysis{}, "title", "[TAG]")
	require.NoError(t, err)
	assert.NotContains(t, prompt, "[TAG]")
}

func TestComposePrompt_RepeatedPlaceholdersAllReplaced(t *testing.T) {
	promptTemplate := "{project_name_placeholder} {template_content} {aggregated_analysis_json} {project_name_placeholder}"

	prompt, err := ComposePrompt(promptTemplate, "body", AggregatedAnalysis{}, "Acme", "")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(prompt, "Acme"))
	assert.NotContains(t, prompt, PlaceholderProjectName)
}
