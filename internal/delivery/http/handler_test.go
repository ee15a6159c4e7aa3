package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pncpbot/backend/config"
	"github.com/pncpbot/backend/internal/domain"
	"github.com/pncpbot/backend/internal/infrastructure/export"
	"github.com/pncpbot/backend/internal/usecase"
)

// stubClient returns one canned process with one matching item
type stubClient struct{}

func (s *stubClient) SearchProcesses(ctx context.Context, keyword string, page, pageSize int, status, uf string) ([]domain.Process, int, error) {
	return nil, 0, nil
}

func (s *stubClient) GetItemsCount(ctx context.Context, cnpj string, ano, seq int) (int, error) {
	return 1, nil
}

func (s *stubClient) GetItems(ctx context.Context, cnpj string, ano, seq int) ([]domain.Item, error) {
	return []domain.Item{{Number: 1, Descricao: "CABO VERMELHO 2,5MM"}}, nil
}

func (s *stubClient) GetProcessDetail(ctx context.Context, cnpj string, ano, seq int) (map[string]any, error) {
	return map[string]any{}, nil
}

func (s *stubClient) DiscoverProcesses(ctx context.Context, keywords []string, filter domain.DiscoveryFilter) ([]domain.Process, error) {
	return []domain.Process{{
		ControlNumber: "P-1",
		ItemURL:       "/compras/12345678000199/2026/42",
		OrgaoName:     "Prefeitura de Salvador",
		PublishedAt:   "2026-02-01T10:00:00",
	}}, nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := usecase.NewExtractionService(
		func(rateLimit float64) domain.ProcurementClient { return &stubClient{} },
		nil,
		nil,
		usecase.ExtractionServiceConfig{},
	)

	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Extraction.OutputDir = t.TempDir()

	jobs := NewJobStore(time.Hour)
	handler := NewHandler(service, export.NewFileExporter(), jobs, cfg.Extraction.OutputDir)
	return SetupRouter(cfg, handler)
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestStartSearch_RunsJobToCompletion(t *testing.T) {
	router := testRouter(t)

	body, _ := json.Marshal(map[string]any{"keywords": "cabo [vermelho]", "max_processes": 1})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var started struct {
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	require.Len(t, started.JobID, 8)

	// The job runs in a background goroutine; poll until terminal
	var view JobView
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/job/"+started.JobID, nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

		if view.Status != JobQueued && view.Status != JobRunning {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	assert.Equal(t, domain.StatusDone, view.Status)
	assert.Equal(t, 1, view.TotalResults)
	require.Len(t, view.Results, 1)
	assert.Equal(t, "P-1", view.Results[0].ProcessID)
	assert.Equal(t, "exact", view.Results[0].MatchQuality)
	assert.NotEmpty(t, view.Logs)
}

func TestStartSearch_InvalidPayload(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader([]byte("{invalid")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobStatus_NotFound(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/job/deadbeef", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportRecords(t *testing.T) {
	router := testRouter(t)

	records := []domain.Record{{ProcessID: "P-1", ItemID: 1, Descricao: "CABO", Status: "pending"}}
	body, _ := json.Marshal(map[string]any{"records": records})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/export", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		JSONPath string `json:"json_path"`
		CSVPath  string `json:"csv_path"`
		Count    int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.NotEmpty(t, resp.JSONPath)
	assert.NotEmpty(t, resp.CSVPath)
}

func TestExportRecords_Empty(t *testing.T) {
	router := testRouter(t)

	body, _ := json.Marshal(map[string]any{"records": []domain.Record{}})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/export", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
