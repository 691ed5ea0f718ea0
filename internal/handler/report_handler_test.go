package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/dafibh/underwriter/underwriter-backend/internal/service"
	"github.com/dafibh/underwriter/underwriter-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReports_StorageDisabled(t *testing.T) {
	f := newDealFixture()
	h := NewReportHandler(service.NewReportService(nil, f.repo))

	c, rec := newRequest(http.MethodPost, "/api/v1/deals/1/reports", "")
	withID(c, "1")

	require.NoError(t, h.GenerateReports(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, ErrorTypeServiceUnavailable, decodeProblem(t, rec).Type)
}

func TestGenerateReports_NotAnalyzed(t *testing.T) {
	f := newDealFixture()
	deal := f.create(t)
	id := strconv.Itoa(int(deal.ID))
	h := NewReportHandler(service.NewReportService(testutil.NewMockObjectStore(), f.repo))

	c, rec := newRequest(http.MethodPost, "/api/v1/deals/"+id+"/reports", "")
	withID(c, id)

	require.NoError(t, h.GenerateReports(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGenerateReports_UnknownDeal(t *testing.T) {
	f := newDealFixture()
	h := NewReportHandler(service.NewReportService(testutil.NewMockObjectStore(), f.repo))

	c, rec := newRequest(http.MethodPost, "/api/v1/deals/42/reports", "")
	withID(c, "42")

	require.NoError(t, h.GenerateReports(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateReports_Success(t *testing.T) {
	f := newDealFixture()
	deal := f.create(t)
	id := strconv.Itoa(int(deal.ID))

	c, rec := newRequest(http.MethodPost, "/api/v1/deals/"+id+"/analyze", "")
	withID(c, id)
	require.NoError(t, f.handler.AnalyzeDeal(c))
	require.Equal(t, http.StatusOK, rec.Code)

	store := testutil.NewMockObjectStore()
	h := NewReportHandler(service.NewReportService(store, f.repo))

	c, rec = newRequest(http.MethodPost, "/api/v1/deals/"+id+"/reports", "")
	withID(c, id)
	require.NoError(t, h.GenerateReports(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var report service.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, deal.ID, report.DealID)
	require.Len(t, report.Documents, 3)

	formats := make([]string, 0, len(report.Documents))
	for _, doc := range report.Documents {
		formats = append(formats, doc.Format)
		assert.NotEmpty(t, doc.URL)
		stored, ok := store.Object(doc.Key)
		require.True(t, ok, doc.Key)
		assert.Equal(t, doc.ContentType, stored.ContentType)
	}
	assert.ElementsMatch(t, []string{
		service.ReportFormatMarkdown, service.ReportFormatHTML, service.ReportFormatXML,
	}, formats)
}
