// internal/handler/handler_test.go
package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/model"
	"escpos-service/internal/repository"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

var receipt = []byte("\x1b@\x1ba\x01STORE\n\x1ba\x00Item 1.00\n\x1bd\x03\x1dV\x00")

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *utils.APIError `json:"error"`
}

type decodeData struct {
	Job      model.DecodeJob     `json:"job"`
	Commands []model.CommandView `json:"commands"`
}

type testServer struct {
	router *gin.Engine
	decode *service.DecodeService
	repo   repository.JobRepository
	bus    *service.EventBus
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "escpos-service", Version: "test"},
		Decoder: config.DecoderConfig{
			DefaultTable:    "escpos",
			MaxPayloadBytes: 1024,
			StoreRaw:        true,
			CompressRaw:     true,
		},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	logger := zap.NewNop()
	repo := repository.NewMemoryJobRepository(100)
	bus := service.NewEventBus(logger)
	go bus.Start()
	t.Cleanup(bus.Stop)

	decodeService, err := service.NewDecodeService(repo, nil, bus, nil, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(decodeService.Close)

	decodeHandler := NewDecodeHandler(decodeService, logger)
	jobHandler := NewJobHandler(decodeService, logger)
	tableHandler := NewTableHandler()
	captureHandler := NewCaptureHandler(nil, nil, logger)
	healthHandler := NewHealthHandler(nil, nil, cfg, logger)

	router := gin.New()
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	api := router.Group("/api/v1")
	api.POST("/decode", decodeHandler.Decode)
	api.GET("/jobs", jobHandler.ListJobs)
	api.GET("/jobs/stats", jobHandler.GetJobStats)
	api.GET("/jobs/:id", jobHandler.GetJob)
	api.GET("/jobs/:id/raw", jobHandler.GetJobRaw)
	api.POST("/jobs/:id/redecode", jobHandler.RedecodeJob)
	api.DELETE("/jobs/:id", jobHandler.DeleteJob)
	api.GET("/events", jobHandler.ListEvents)
	api.GET("/tables", tableHandler.ListTables)
	api.GET("/tables/:name", tableHandler.GetTable)
	api.GET("/capture/sources", captureHandler.ListSources)
	api.POST("/capture/ports/suggest", captureHandler.SuggestSource)

	return &testServer{router: router, decode: decodeService, repo: repo, bus: bus}
}

func (s *testServer) do(t *testing.T, method, path, contentType string, body []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *testServer) decodeReceipt(t *testing.T) decodeData {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/decode", "application/octet-stream", receipt)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data decodeData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestDecodeRawBody(t *testing.T) {
	s := newTestServer(t)

	data := s.decodeReceipt(t)
	assert.Equal(t, model.JobStatusDecoded, data.Job.Status)
	assert.Equal(t, len(receipt), data.Job.ByteCount)
	assert.Contains(t, data.Job.TextPreview, "STORE")
	require.NotEmpty(t, data.Commands)
	assert.Equal(t, "INITIALIZE", data.Commands[0].Name)
	assert.Equal(t, "CUT", data.Commands[len(data.Commands)-1].Name)

	_, total, err := s.repo.List(context.Background(), &repository.JobFilter{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestDecodeThermalSource(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/decode?persist=false", "text/x-thermal", []byte(`ESC "@" "Hello" LF`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data decodeData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "INITIALIZE", data.Commands[0].Name)
	assert.Contains(t, data.Job.TextPreview, "Hello")

	_, total, err := s.repo.List(context.Background(), &repository.JobFilter{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDecodeJSONBody(t *testing.T) {
	s := newTestServer(t)

	body, err := json.Marshal(map[string]interface{}{
		"data_base64": base64.StdEncoding.EncodeToString(receipt),
		"table":       "epson",
		"source":      "front-counter",
		"persist":     false,
	})
	require.NoError(t, err)

	w, env := s.do(t, http.MethodPost, "/api/v1/decode", "application/json", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data decodeData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "epson", data.Job.TableName)
	assert.Equal(t, "front-counter", data.Job.Source)
}

func TestDecodeErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name        string
		path        string
		contentType string
		body        []byte
		status      int
		code        string
	}{
		{"empty body", "/api/v1/decode", "application/octet-stream", nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown table", "/api/v1/decode?table=nope", "application/octet-stream", receipt, http.StatusBadRequest, "BAD_REQUEST"},
		{"too large", "/api/v1/decode", "application/octet-stream", bytes.Repeat([]byte("A"), 2048), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{"bad thermal", "/api/v1/decode", "text/x-thermal", []byte(`"open`), http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
		{"unsupported type", "/api/v1/decode", "image/png", receipt, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"},
		{"bad base64", "/api/v1/decode", "application/json", []byte(`{"data_base64":"!!"}`), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"two sources", "/api/v1/decode", "application/json", []byte(`{"data_base64":"QQ==","thermal":"LF"}`), http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := s.do(t, http.MethodPost, tt.path, tt.contentType, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestJobEndpoints(t *testing.T) {
	s := newTestServer(t)
	job := s.decodeReceipt(t).Job
	path := "/api/v1/jobs/" + job.ID.String()

	w, env := s.do(t, http.MethodGet, "/api/v1/jobs?source=api", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Jobs       []model.DecodeJob        `json:"jobs"`
		Pagination service.PaginationResult `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Jobs, 1)
	assert.Equal(t, job.ID, list.Jobs[0].ID)
	assert.Equal(t, 1, list.Pagination.Total)

	w, env = s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got model.DecodeJob
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, job.ByteCount, got.ByteCount)

	w, _ = s.do(t, http.MethodGet, path+"/raw", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, receipt, w.Body.Bytes())
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))

	w, env = s.do(t, http.MethodPost, path+"/redecode?table=epson", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var redecoded decodeData
	require.NoError(t, json.Unmarshal(env.Data, &redecoded))
	assert.Equal(t, "epson", redecoded.Job.TableName)
	assert.NotEqual(t, job.ID, redecoded.Job.ID)

	w, env = s.do(t, http.MethodGet, "/api/v1/jobs/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats repository.JobStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.TotalJobs)

	w, _ = s.do(t, http.MethodDelete, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/jobs/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventsWithoutJournal(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/v1/events?limit=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestTableEndpoints(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/v1/tables", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tables []service.TableInfo
	require.NoError(t, json.Unmarshal(env.Data, &tables))
	var names []string
	for _, table := range tables {
		names = append(names, table.Name)
		assert.Positive(t, table.Opcodes)
	}
	assert.Contains(t, names, "escpos")
	assert.Contains(t, names, "epson")

	w, env = s.do(t, http.MethodGet, "/api/v1/tables/escpos", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var table service.TableInfo
	require.NoError(t, json.Unmarshal(env.Data, &table))
	assert.Len(t, table.Entries, table.Opcodes)

	w, _ = s.do(t, http.MethodGet, "/api/v1/tables/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCaptureEndpoints(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/v1/capture/sources", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	port := []byte(`{"type":"USB","address":"04b8:0e15","vendor_id":"04b8","product_id":"0e15"}`)
	w, env = s.do(t, http.MethodPost, "/api/v1/capture/ports/suggest", "application/json", port)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var src config.CaptureSource
	require.NoError(t, json.Unmarshal(env.Data, &src))
	assert.Equal(t, config.SourceUSB, src.Type)
	assert.Equal(t, "epson", src.Table)
	assert.Equal(t, uint16(0x04b8), src.USB.VendorID)

	w, _ = s.do(t, http.MethodPost, "/api/v1/capture/ports/suggest", "application/json", []byte(`{"type":"BLUETOOTH"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthWithoutDatabase(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "disabled", health.Checks["database"].Status)

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func waitForEvent(t *testing.T, ch <-chan *model.JobEvent) *model.JobEvent {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestDecodeAnnouncesJob(t *testing.T) {
	s := newTestServer(t)
	ch := s.bus.Subscribe(model.EventJobDecoded)

	job := s.decodeReceipt(t).Job
	event := waitForEvent(t, ch)
	require.NotNil(t, event.JobID)
	assert.Equal(t, job.ID, *event.JobID)
}
