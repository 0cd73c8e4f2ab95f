package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/propfolio/propfolio/internal/report/domain"
)

type reportQuery struct {
	PropertyID  string `form:"property_id"`
	ProviderID  string `form:"provider_id"`
	From        string `form:"from"`
	To          string `form:"to"`
	Granularity string `form:"granularity"`
	TrendMode   string `form:"trend"`
}

func (s *Server) bindReportQuery(c *gin.Context) (reportdomain.Query, bool) {
	var query reportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return reportdomain.Query{}, false
	}

	propertyID, err := parseOptionalSnowflakeID(query.PropertyID)
	if err != nil {
		AbortWithError(c, newValidationError("property_id", "invalid_property_id", "invalid property_id"))
		return reportdomain.Query{}, false
	}
	providerID, err := parseOptionalSnowflakeID(query.ProviderID)
	if err != nil {
		AbortWithError(c, newValidationError("provider_id", "invalid_provider_id", "invalid provider_id"))
		return reportdomain.Query{}, false
	}

	from, err := validateOptionalDate(query.From)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return reportdomain.Query{}, false
	}
	to, err := validateOptionalDate(query.To)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return reportdomain.Query{}, false
	}

	return reportdomain.Query{
		PropertyID:  propertyID,
		ProviderID:  providerID,
		From:        from,
		To:          to,
		Granularity: reportdomain.Granularity(strings.ToUpper(strings.TrimSpace(query.Granularity))),
		TrendMode:   reportdomain.TrendMode(strings.ToLower(strings.TrimSpace(query.TrendMode))),
	}, true
}

func (s *Server) PropertyReport(c *gin.Context) {
	q, ok := s.bindReportQuery(c)
	if !ok {
		return
	}

	report, err := s.reportSvc.PropertyReport(c.Request.Context(), q)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) ProviderReport(c *gin.Context) {
	q, ok := s.bindReportQuery(c)
	if !ok {
		return
	}

	report, err := s.reportSvc.ProviderReport(c.Request.Context(), q)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) CombinedReport(c *gin.Context) {
	q, ok := s.bindReportQuery(c)
	if !ok {
		return
	}

	report, err := s.reportSvc.CombinedReport(c.Request.Context(), q)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) OverviewReport(c *gin.Context) {
	q, ok := s.bindReportQuery(c)
	if !ok {
		return
	}

	report, err := s.reportSvc.OverviewReport(c.Request.Context(), q)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func isReportValidationError(err error) bool {
	switch err {
	case reportdomain.ErrInvalidGranularity,
		reportdomain.ErrInvalidQuery:
		return true
	default:
		return false
	}
}
