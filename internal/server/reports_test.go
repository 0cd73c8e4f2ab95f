package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/propfolio/propfolio/internal/report/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportService struct {
	report reportdomain.Report
	err    error
	lastQ  reportdomain.Query
}

func (f *fakeReportService) PropertyReport(ctx context.Context, q reportdomain.Query) (reportdomain.Report, error) {
	f.lastQ = q
	return f.report, f.err
}

func (f *fakeReportService) ProviderReport(ctx context.Context, q reportdomain.Query) (reportdomain.Report, error) {
	f.lastQ = q
	return f.report, f.err
}

func (f *fakeReportService) CombinedReport(ctx context.Context, q reportdomain.Query) (reportdomain.Report, error) {
	f.lastQ = q
	return f.report, f.err
}

func (f *fakeReportService) OverviewReport(ctx context.Context, q reportdomain.Query) (reportdomain.Report, error) {
	f.lastQ = q
	return f.report, f.err
}

func newTestServer(t *testing.T, reports reportdomain.Service) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	s := &Server{
		engine:    engine,
		reportSvc: reports,
	}
	s.registerAPIRoutes()
	return s
}

func TestPropertyReportEndpointPreservesFieldNames(t *testing.T) {
	report := reportdomain.EmptyReport()
	report.Summary.Revenue = 1000
	report.ByProperty = []reportdomain.GroupMetrics{
		{PropertyID: "1001", Name: "Harborview Apartments", Revenue: 1000, MarginPct: 70, InvoicesPaidPct: 100},
	}
	fake := &fakeReportService{report: report}
	s := newTestServer(t, fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/properties?granularity=month", nil)
	s.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	for _, field := range []string{"summary", "byProperty", "byProvider", "series", "combinedData"} {
		assert.Contains(t, payload, field)
	}

	// lowercase granularity is normalized before it reaches the service
	assert.Equal(t, reportdomain.GranularityMonth, fake.lastQ.Granularity)
}

func TestReportEndpointRejectsBadPropertyID(t *testing.T) {
	s := newTestServer(t, &fakeReportService{report: reportdomain.EmptyReport()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/properties?property_id=nonsense", nil)
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_property_id")
}

func TestReportEndpointMapsSourceFailureTo503(t *testing.T) {
	s := newTestServer(t, &fakeReportService{err: reportdomain.ErrSourceUnavailable})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/overview", nil)
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "service_unavailable")
}

func TestReportEndpointMapsInvalidGranularityTo400(t *testing.T) {
	s := newTestServer(t, &fakeReportService{err: reportdomain.ErrInvalidGranularity})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/providers?granularity=DECADE", nil)
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestExportReportCSV(t *testing.T) {
	report := reportdomain.EmptyReport()
	report.Summary.Revenue = 1500
	report.ByProperty = []reportdomain.GroupMetrics{
		{PropertyID: "1001", Name: "Harborview Apartments", Revenue: 1500, MarginPct: 70},
	}
	s := newTestServer(t, &fakeReportService{report: report})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/export?shape=property", nil)
	s.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report-property.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "section,"))
	assert.Contains(t, lines[2], "Harborview Apartments")
}

func TestExportReportCSVRejectsUnknownShape(t *testing.T) {
	s := newTestServer(t, &fakeReportService{report: reportdomain.EmptyReport()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/export?shape=quarterly", nil)
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_shape")
}
