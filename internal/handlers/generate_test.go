package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sowforge/sowforge/internal/settings"
	"github.com/sowforge/sowforge/internal/sow"
	"github.com/sowforge/sowforge/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGenerator struct {
	sowID string
	err   error

	gotProjectID  string
	gotTemplateID string
}

func (s *stubGenerator) GenerateSow(ctx context.Context, cfg *settings.Settings, projectID, templateID string) (string, error) {
	s.gotProjectID = projectID
	s.gotTemplateID = templateID
	if s.err != nil {
		return "", s.err
	}
	return s.sowID, nil
}

type stubTrigger struct {
	err error
}

func (s *stubTrigger) Retrigger(ctx context.Context, projectID, docID string) error {
	return s.err
}

// stubStore panics on any method the test does not expect to be hit.
type stubStore struct {
	store.Store
}

func newTestHandlers(gen SowGenerator, trigger Retriggerer) *Handlers {
	cfg := &settings.Settings{
		GCPProjectID:           "test-project",
		CreateGoogleDocFuncURL: "",
	}
	return New(stubStore{}, nil, nil, cfg, gen, trigger)
}

func performJSON(h gin.HandlerFunc, method, path, body string, params ...gin.Param) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	h(c)
	return rec
}

func TestGenerateSowHandler_Success(t *testing.T) {
	gen := &stubGenerator{sowID: "sow-123"}
	h := newTestHandlers(gen, nil)

	rec := performJSON(h.GenerateSow, http.MethodPost, "/api/generate-sow", `{"projectId":"p1","templateId":"t1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sow-123", resp["sowId"])
	assert.Equal(t, "SOW generated successfully.", resp["message"])
	assert.Equal(t, "p1", gen.gotProjectID)
	assert.Equal(t, "t1", gen.gotTemplateID)
}

func TestGenerateSowHandler_InvalidInput(t *testing.T) {
	cases := map[string]struct {
		body string
		err  error
	}{
		"malformed json":        {body: `{"projectId":`},
		"orchestrator rejected": {body: `{"projectId":"p1"}`, err: sow.ErrInvalidInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			h := newTestHandlers(&stubGenerator{err: tc.err}, nil)

			rec := performJSON(h.GenerateSow, http.MethodPost, "/api/generate-sow", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Missing 'projectId' or 'templateId'")
		})
	}
}

func TestGenerateSowHandler_NoAnalyzedDocuments(t *testing.T) {
	h := newTestHandlers(&stubGenerator{err: fmt.Errorf("wrapped: %w", sow.ErrNoAnalyzedDocuments)}, nil)

	rec := performJSON(h.GenerateSow, http.MethodPost, "/api/generate-sow", `{"projectId":"p1","templateId":"t1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No successfully analyzed documents found in this project.")
}

func TestGenerateSowHandler_InternalFailuresAreOpaque(t *testing.T) {
	cases := map[string]error{
		"config error":     &sow.ConfigError{Reason: "prompt text is missing a placeholder"},
		"upstream failure": fmt.Errorf("vertex ai exploded"),
	}
	for name, genErr := range cases {
		t.Run(name, func(t *testing.T) {
			h := newTestHandlers(&stubGenerator{err: genErr}, nil)

			rec := performJSON(h.GenerateSow, http.MethodPost, "/api/generate-sow", `{"projectId":"p1","templateId":"t1"}`)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), "Could not generate SOW.")

			// Internal detail stays out of the response body.
			assert.NotContains(t, rec.Body.String(), "placeholder")
			assert.NotContains(t, rec.Body.String(), "vertex")
		})
	}
}

func TestRetriggerAnalysisHandler(t *testing.T) {
	params := []gin.Param{{Key: "projectId", Value: "p1"}, {Key: "docId", Value: "d1"}}

	t.Run("success", func(t *testing.T) {
		h := newTestHandlers(nil, &stubTrigger{})
		rec := performJSON(h.RetriggerAnalysis, http.MethodPost, "/api/projects/p1/source_documents/d1/regenerate", "", params...)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown document", func(t *testing.T) {
		h := newTestHandlers(nil, &stubTrigger{err: fmt.Errorf("doc d1: %w", store.ErrNotFound)})
		rec := performJSON(h.RetriggerAnalysis, http.MethodPost, "/api/projects/p1/source_documents/d1/regenerate", "", params...)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("pipeline failure", func(t *testing.T) {
		h := newTestHandlers(nil, &stubTrigger{err: fmt.Errorf("publish failed")})
		rec := performJSON(h.RetriggerAnalysis, http.MethodPost, "/api/projects/p1/source_documents/d1/regenerate", "", params...)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCreateGoogleDocHandler_ProxiesWithIdentityToken(t *testing.T) {
	var gotBody map[string]string
	var gotContentType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"docUrl":"https://docs.google.com/d/abc"}`)
	}))
	defer upstream.Close()

	h := newTestHandlers(nil, nil)
	h.cfg.CreateGoogleDocFuncURL = upstream.URL
	var gotAudience string
	h.proxyClient = func(ctx context.Context, audience string) (*http.Client, error) {
		gotAudience = audience
		return upstream.Client(), nil
	}

	rec := performJSON(h.CreateGoogleDoc, http.MethodPost, "/api/create-google-doc", `{"projectId":"p1","sowId":"s1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docs.google.com")
	assert.Equal(t, upstream.URL, gotAudience)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]string{"projectId": "p1", "sowId": "s1"}, gotBody)
}

func TestCreateGoogleDocHandler_MissingConfiguration(t *testing.T) {
	h := newTestHandlers(nil, nil)

	rec := performJSON(h.CreateGoogleDoc, http.MethodPost, "/api/create-google-doc", `{"projectId":"p1","sowId":"s1"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCreateGoogleDocHandler_MissingProjectID(t *testing.T) {
	h := newTestHandlers(nil, nil)

	rec := performJSON(h.CreateGoogleDoc, http.MethodPost, "/api/create-google-doc", `{"sowId":"s1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing 'projectId'")
}
