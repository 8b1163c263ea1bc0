package models

import "time"

// Project status values persisted on sow_projects documents.
const (
	ProjectStatusDrafting     = "DRAFTING"
	ProjectStatusSowGenerated = "SOW_GENERATED"
	ProjectStatusSowGenFailed = "SOW_GENERATION_FAILED"
)

// Source document status values. The analysis pipeline owns the transitions
// between PENDING_UPLOAD and ANALYZED_SUCCESS/ANALYSIS_FAILED; this service
// only ever writes RE_ANALYZING.
const (
	DocStatusPendingUpload   = "PENDING_UPLOAD"
	DocStatusAnalyzedSuccess = "ANALYZED_SUCCESS"
	DocStatusAnalysisFailed  = "ANALYSIS_FAILED"
	DocStatusReAnalyzing     = "RE_ANALYZING"
)

// Project is the top-level record in the sow_projects collection. It owns the
// source_documents and generated_sow subcollections.
type Project struct {
	ID            string    `firestore:"-" json:"id"`
	ProjectName   string    `firestore:"projectName" json:"projectName"`
	Status        string    `firestore:"status" json:"status"`
	ErrorMessage  string    `firestore:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	CreatedAt     time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	LastUpdatedAt time.Time `firestore:"lastUpdatedAt,omitempty" json:"lastUpdatedAt,omitempty"`
}

// Analysis is the structured payload the analysis pipeline writes onto a
// source document. Requirements are kept as free-form maps because their
// shape varies by document category.
type Analysis struct {
	Requirements []map[string]any `firestore:"requirements,omitempty" json:"requirements,omitempty"`
	Summary      string           `firestore:"summary,omitempty" json:"summary,omitempty"`
}

// SourceDocument is a record in the source_documents subcollection of a
// project. It is created at upload time and mutated by the external analysis
// pipeline, which fills in Analysis and flips Status.
type SourceDocument struct {
	ID               string    `firestore:"-" json:"id"`
	OriginalFilename string    `firestore:"originalFilename" json:"originalFilename"`
	DisplayName      string    `firestore:"displayName" json:"displayName"`
	Category         string    `firestore:"category" json:"category"`
	Status           string    `firestore:"status" json:"status"`
	Analysis         *Analysis `firestore:"analysis,omitempty" json:"analysis,omitempty"`
	CreatedAt        time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	LastUpdatedAt    time.Time `firestore:"lastUpdatedAt,omitempty" json:"lastUpdatedAt,omitempty"`
}

// GeneratedSow is one generation attempt's output, a record in the
// generated_sow subcollection. Records are append-only: each successful
// generation writes a new one, never overwriting an earlier attempt.
type GeneratedSow struct {
	ID               string    `firestore:"-" json:"id"`
	TemplateID       string    `firestore:"templateId" json:"templateId"`
	TemplateName     string    `firestore:"templateName" json:"templateName"`
	GeneratedSowText string    `firestore:"generatedSowText" json:"generatedSowText"`
	GoogleDocURL     string    `firestore:"googleDocUrl,omitempty" json:"googleDocUrl,omitempty"`
	CreatedAt        time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
}

// Template metadata lives in Firestore; the markdown body lives in the
// templates bucket at GCSPath.
type Template struct {
	ID          string `firestore:"-" json:"id"`
	Name        string `firestore:"name" json:"name"`
	Description string `firestore:"description" json:"description"`
	GCSPath     string `firestore:"gcs_path" json:"gcs_path"`
}

// Prompt is a named prompt template with placeholder slots.
type Prompt struct {
	ID         string `firestore:"-" json:"id"`
	Name       string `firestore:"name" json:"name"`
	PromptText string `firestore:"prompt_text" json:"prompt_text"`
}
