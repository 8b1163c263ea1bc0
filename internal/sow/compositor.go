package sow

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Placeholder slots the generation prompt text must contain. A prompt missing
// a required slot would silently produce a malformed model input, so
// composition refuses it up front.
const (
	PlaceholderTemplateContent    = "{template_content}"
	PlaceholderAggregatedAnalysis = "{aggregated_analysis_json}"
	PlaceholderProjectName        = "{project_name_placeholder}"

	// PlaceholderAIReviewTag is optional; not every prompt revision uses it.
	PlaceholderAIReviewTag = "{ai_review_tag}"
)

// ComposePrompt substitutes the template markdown, the aggregated analysis
// (as indented JSON) and the computed title into the prompt template. The
// three required placeholders must all be present or a ConfigError is
// returned.
func ComposePrompt(promptTemplate, templateMarkdown string, aggregated AggregatedAnalysis, title, aiReviewTag string) (string, error) {
	for _, placeholder := range []string{PlaceholderTemplateContent, PlaceholderAggregatedAnalysis, PlaceholderProjectName} {
		if !strings.Contains(promptTemplate, placeholder) {
			return "", &ConfigError{Reason: fmt.Sprintf("prompt text is missing the %s placeholder", placeholder)}
		}
	}

	analysisJSON, err := json.MarshalIndent(aggregated, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize aggregated analysis: %w", err)
	}

	prompt := promptTemplate
	prompt = strings.ReplaceAll(prompt, PlaceholderTemplateContent, templateMarkdown)
	prompt = strings.ReplaceAll(prompt, PlaceholderAggregatedAnalysis, string(analysisJSON))
	prompt = strings.ReplaceAll(prompt, PlaceholderProjectName, title)
	prompt = strings.ReplaceAll(prompt, PlaceholderAIReviewTag, aiReviewTag)
	return prompt, nil
}
