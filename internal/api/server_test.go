package api

import (
	"context"
	"encoding/json/v2"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runwaylens/runwaylens-server/internal/config"
	"github.com/runwaylens/runwaylens-server/internal/domain"
	"github.com/runwaylens/runwaylens-server/internal/folder"
	"github.com/runwaylens/runwaylens-server/internal/service"
)

type stubSource struct {
	records []domain.GarmentRecord
	mapping folder.Mapping
	fail    bool
}

func (s *stubSource) FetchRecords(_ context.Context) ([]domain.GarmentRecord, error) {
	if s.fail {
		return nil, errors.New("upstream unavailable")
	}
	return s.records, nil
}

func (s *stubSource) FetchFolderMap(_ context.Context) (folder.Mapping, error) {
	return s.mapping, nil
}

func testRecords() []domain.GarmentRecord {
	return []domain.GarmentRecord{
		{ID: "r1", Designer: "Chanel", Season: "spring-2024", ItemName: "Coat", ColorName: "Black", ColorHex: "#111111", Materials: "Wool", OriginalImageName: "look-01.jpg"},
		{ID: "r2", Designer: "Chanel", Season: "spring-2024", ItemName: "Coat", ColorName: "Red", Materials: "Silk", OriginalImageName: "look-01.jpg"},
		{ID: "r3", Designer: "Dior", Season: "fall-2023", ItemName: "Skirt", ColorName: "Black", Materials: "Cotton", OriginalImageName: "look-02.jpg"},
	}
}

// setupTestServer creates a server backed by a stub upstream with a loaded
// snapshot.
func setupTestServer(t *testing.T, source *stubSource) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assets := config.AssetsConfig{Bucket: "runwayimages", Region: "eu-west-2"}

	svc := service.NewAnalysisService(source, assets, logger)
	err := svc.Refresh(context.Background())
	if source.fail {
		require.Error(t, err)
	} else {
		require.NoError(t, err)
	}

	server := NewServer(svc, logger)
	t.Cleanup(server.Close)
	return server
}

func doGET(t *testing.T, server *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	w := doGET(t, server, "/health")

	assert.Equal(t, http.StatusOK, w.Code)

	var result HealthResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, "healthy", result.Status)
	assert.Equal(t, "healthy", result.Components["snapshot"].Status)
}

func TestHealthCheck_UpstreamFailure(t *testing.T) {
	server := setupTestServer(t, &stubSource{fail: true})

	w := doGET(t, server, "/health")

	assert.Equal(t, http.StatusOK, w.Code)

	var result HealthResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, "unhealthy", result.Status)
}

func TestListRecords_Success(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	w := doGET(t, server, "/api/v1/records")

	assert.Equal(t, http.StatusOK, w.Code)

	var result ListRecordsResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Count)
	require.Len(t, result.Records, 3)
	// No folder mapping configured, so URLs use the synthesized folder.
	assert.Equal(t,
		"https://runwayimages.s3.eu-west-2.amazonaws.com/chanel-ready-to-wear-spring-2024-paris/look-01.jpg",
		result.Records[0].ImageURL)
}

func TestListRecords_Filtered(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	w := doGET(t, server, "/api/v1/records?designer=dior")

	assert.Equal(t, http.StatusOK, w.Code)

	var result ListRecordsResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "Dior", result.Records[0].Designer)
}

func TestListRecords_SeasonSeparatorInsensitive(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	w := doGET(t, server, "/api/v1/records?season=spring_2024")

	var result ListRecordsResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
}

func TestListRecords_SnapshotLoading(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewAnalysisService(&stubSource{}, config.AssetsConfig{Bucket: "b", Region: "r"}, logger)
	server := NewServer(svc, logger)
	t.Cleanup(server.Close)

	w := doGET(t, server, "/api/v1/records")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var result APIError
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "UNAVAILABLE", result.Code)
}

func TestListFilters_Cascading(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	w := doGET(t, server, "/api/v1/filters?designer=chanel")

	assert.Equal(t, http.StatusOK, w.Code)

	var result ListFiltersResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, []string{"Chanel"}, result.Designers)
	assert.Equal(t, []string{"Spring 2024"}, result.Seasons)
	assert.ElementsMatch(t, []string{"Black", "Red"}, result.Colors)
	assert.Equal(t, []string{"Coat"}, result.Items)
}

func TestGetDistribution_Success(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	w := doGET(t, server, "/api/v1/distributions/item")

	assert.Equal(t, http.StatusOK, w.Code)

	var result DistributionResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, "item", result.Field)
	require.Len(t, result.Buckets, 2)
	assert.Equal(t, "Coat", result.Buckets[0].Name)
	assert.Equal(t, 2, result.Buckets[0].Value)
	require.Len(t, result.Legend, 2)
	assert.True(t, result.Legend[0].Visible)
}

func TestGetDistribution_ColorHex(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	w := doGET(t, server, "/api/v1/distributions/color")

	var result DistributionResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	require.Len(t, result.Buckets, 2)
	assert.Equal(t, "Black", result.Buckets[0].Name)
	assert.Equal(t, "#111111", result.Buckets[0].Color)
	assert.Equal(t, "#808080", result.Buckets[1].Color)
}

func TestGetDistribution_InvalidField(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	w := doGET(t, server, "/api/v1/distributions/designer")

	// Rejected by the enum constraint before reaching the service.
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetChart_SVG(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	w := doGET(t, server, "/api/v1/charts/item")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "<svg"))
	assert.Contains(t, body, "Coat: 2")
}

func TestGetChart_EmptyResult(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	w := doGET(t, server, "/api/v1/charts/item?designer=nonexistent")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No data")
}

func TestListDatasets(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	w := doGET(t, server, "/api/v1/datasets")

	assert.Equal(t, http.StatusOK, w.Code)

	var result ListDatasetsResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "chanel-spring-2024", result.Datasets[0].ID)
	assert.Equal(t, 2, result.Datasets[0].RecordCount)
}

func TestListImages(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	w := doGET(t, server, "/api/v1/images")

	assert.Equal(t, http.StatusOK, w.Code)

	var result ListImagesResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Images, 2)
	first := result.Images[0]
	assert.Equal(t, "look-01.jpg", first.ImageName)
	assert.ElementsMatch(t, []string{"Black", "Red"}, first.Colors)
}

func TestRefresh(t *testing.T) {
	source := &stubSource{records: testRecords()[:1]}
	server := setupTestServer(t, source)

	source.records = testRecords()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", http.NoBody)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result MessageResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Contains(t, result.Message, "3 records")
}

func TestClose_Idempotent(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	// The cleanup registered by setupTestServer closes again afterwards.
	server.Close()
	server.Close()
}

func TestRefresh_RateLimited(t *testing.T) {
	server := setupTestServer(t, &stubSource{records: testRecords()})

	var last *httptest.ResponseRecorder
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", http.NoBody)
		last = httptest.NewRecorder()
		server.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
}

func TestRefresh_UpstreamError(t *testing.T) {
	source := &stubSource{records: testRecords()}
	server := setupTestServer(t, source)

	source.fail = true

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", http.NoBody)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
