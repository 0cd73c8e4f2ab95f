package server

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/propfolio/propfolio/internal/report/domain"
)

// ExportReportCSV renders one report shape as a CSV download for the
// dashboard's export button.
func (s *Server) ExportReportCSV(c *gin.Context) {
	q, ok := s.bindReportQuery(c)
	if !ok {
		return
	}

	shape := strings.ToLower(strings.TrimSpace(c.Query("shape")))
	if shape == "" {
		shape = "overview"
	}

	var (
		report reportdomain.Report
		err    error
	)
	switch shape {
	case "property":
		report, err = s.reportSvc.PropertyReport(c.Request.Context(), q)
	case "provider":
		report, err = s.reportSvc.ProviderReport(c.Request.Context(), q)
	case "combined":
		report, err = s.reportSvc.CombinedReport(c.Request.Context(), q)
	case "overview":
		report, err = s.reportSvc.OverviewReport(c.Request.Context(), q)
	default:
		AbortWithError(c, newValidationError("shape", "invalid_shape", "invalid shape"))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payload, err := renderReportCSV(report)
	if err != nil {
		AbortWithError(c, ErrInternal)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.csv", shape))
	c.Data(http.StatusOK, "text/csv", payload)
}

func renderReportCSV(report reportdomain.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	margin := ""
	if report.Summary.MarginPct != nil {
		margin = formatAmount(*report.Summary.MarginPct)
	}
	rows := [][]string{
		{"section", "propertyId", "providerId", "name", "revenue", "expenses", "profit", "marginPct", "invoicesPaidPct", "paidCount", "invoiceCount"},
		{
			"summary", "", "", "",
			formatAmount(report.Summary.Revenue),
			formatAmount(report.Summary.Expenses),
			formatAmount(report.Summary.Profit),
			margin,
			formatAmount(report.Summary.InvoicesPaidPct),
			fmt.Sprintf("%d", report.Summary.PaidCount),
			fmt.Sprintf("%d", report.Summary.InvoiceCount),
		},
	}

	for _, row := range report.ByProperty {
		rows = append(rows, groupRow("byProperty", row))
	}
	for _, row := range report.ByProvider {
		rows = append(rows, groupRow("byProvider", row))
	}
	for _, row := range report.CombinedData {
		rows = append(rows, []string{
			"combinedData", row.PropertyID, row.ProviderID,
			fmt.Sprintf("%s / %s", row.PropertyName, row.ProviderName),
			formatAmount(row.Revenue),
			formatAmount(row.Expenses),
			formatAmount(row.Profit),
			formatAmount(row.MarginPct),
			formatAmount(row.InvoicesPaidPct),
			fmt.Sprintf("%d", row.PaidCount),
			fmt.Sprintf("%d", row.InvoiceCount),
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func groupRow(section string, row reportdomain.GroupMetrics) []string {
	return []string{
		section, row.PropertyID, row.ProviderID, row.Name,
		formatAmount(row.Revenue),
		formatAmount(row.Expenses),
		formatAmount(row.Profit),
		formatAmount(row.MarginPct),
		formatAmount(row.InvoicesPaidPct),
		fmt.Sprintf("%d", row.PaidCount),
		fmt.Sprintf("%d", row.InvoiceCount),
	}
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
