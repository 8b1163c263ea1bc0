package models

// These structs define the JSON payloads for the REST API.

// CreateProjectRequest is the body of POST /api/projects.
type CreateProjectRequest struct {
	ProjectName string              `json:"projectName"`
	Files       []ProjectFileUpload `json:"files"`
}

// ProjectFileUpload describes one file the client intends to upload.
type ProjectFileUpload struct {
	Filename    string `json:"filename"`
	Category    string `json:"category"`
	ContentType string `json:"contentType"`
}

// UploadInfo carries the signed write URL the client uses to upload one file.
type UploadInfo struct {
	DocID     string `json:"docId"`
	SignedURL string `json:"signedUrl"`
	Filename  string `json:"filename"`
}

// CreateProjectResponse is the response of POST /api/projects.
type CreateProjectResponse struct {
	ProjectID  string       `json:"projectId"`
	UploadInfo []UploadInfo `json:"uploadInfo"`
}

// ProjectDetail is the response of GET /api/projects/{projectId}.
type ProjectDetail struct {
	Project
	SourceDocuments []SourceDocument `json:"sourceDocuments"`
	GeneratedSows   []GeneratedSow   `json:"generatedSows"`
}

// GenerateSowRequest is the body of POST /api/generate-sow.
type GenerateSowRequest struct {
	ProjectID  string `json:"projectId"`
	TemplateID string `json:"templateId"`
}

// GenerateSowResponse is the success response of POST /api/generate-sow.
type GenerateSowResponse struct {
	Message string `json:"message"`
	SowID   string `json:"sowId"`
}

// ReanalysisEvent is the Pub/Sub payload published to re-trigger analysis of
// a single uploaded file. It mirrors the GCS event shape the analysis
// pipeline already consumes.
type ReanalysisEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// TemplateDetail is the response of GET /api/templates/{templateId}.
type TemplateDetail struct {
	Metadata        Template `json:"metadata"`
	MarkdownContent string   `json:"markdownContent"`
}
