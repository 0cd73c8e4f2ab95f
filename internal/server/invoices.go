package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/propfolio/propfolio/internal/invoice/domain"
	propertydomain "github.com/propfolio/propfolio/internal/property/domain"
	providerdomain "github.com/propfolio/propfolio/internal/provider/domain"
	"github.com/propfolio/propfolio/internal/providers/pdf"
	"github.com/propfolio/propfolio/pkg/db/pagination"
)

type createInvoiceRequest struct {
	PropertyID string  `json:"property_id"`
	ProviderID string  `json:"provider_id"`
	IssueDate  string  `json:"issue_date"`
	DueDate    string  `json:"due_date"`
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	Currency   string  `json:"currency"`
	Notes      string  `json:"notes"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		PropertyID: strings.TrimSpace(req.PropertyID),
		ProviderID: strings.TrimSpace(req.ProviderID),
		IssueDate:  strings.TrimSpace(req.IssueDate),
		DueDate:    strings.TrimSpace(req.DueDate),
		Subtotal:   req.Subtotal,
		Tax:        req.Tax,
		Currency:   strings.TrimSpace(req.Currency),
		Notes:      req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		PropertyID string `form:"property_id"`
		ProviderID string `form:"provider_id"`
		Status     string `form:"status"`
		IssuedFrom string `form:"issued_from"`
		IssuedTo   string `form:"issued_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	issuedFrom, err := validateOptionalDate(query.IssuedFrom)
	if err != nil {
		AbortWithError(c, newValidationError("issued_from", "invalid_issued_from", "invalid issued_from"))
		return
	}
	issuedTo, err := validateOptionalDate(query.IssuedTo)
	if err != nil {
		AbortWithError(c, newValidationError("issued_to", "invalid_issued_to", "invalid issued_to"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		PageToken:  query.PageToken,
		PageSize:   query.PageSize,
		PropertyID: strings.TrimSpace(query.PropertyID),
		ProviderID: strings.TrimSpace(query.ProviderID),
		Status:     strings.TrimSpace(query.Status),
		IssuedFrom: issuedFrom,
		IssuedTo:   issuedTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), invoicedomain.GetInvoiceRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	var req updateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), invoicedomain.UpdateInvoiceStatusRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Status: strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// DownloadInvoicePDF renders one invoice as a printable statement.
func (s *Server) DownloadInvoicePDF(c *gin.Context) {
	ctx := c.Request.Context()

	invoice, err := s.invoiceSvc.GetByID(ctx, invoicedomain.GetInvoiceRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data := pdf.StatementData{
		InvoiceNumber: invoice.Number,
		IssueDate:     invoice.IssueDate,
		DueDate:       invoice.DueDate,
		Status:        string(invoice.Status),
		Subtotal:      fmt.Sprintf("%.2f", invoice.Subtotal),
		Tax:           fmt.Sprintf("%.2f", invoice.Tax),
		Total:         fmt.Sprintf("%.2f", invoice.Total),
		Currency:      invoice.Currency,
		Notes:         invoice.Notes,
	}

	if property, err := s.propertySvc.GetByID(ctx, propertydomain.GetPropertyRequest{ID: invoice.PropertyID.String()}); err == nil {
		data.PropertyName = property.Name
		data.PropertyAddress = property.Address
	}
	if provider, err := s.providerSvc.GetByID(ctx, providerdomain.GetProviderRequest{ID: invoice.ProviderID.String()}); err == nil {
		data.ProviderName = provider.Name
		data.ProviderService = provider.Service
	}

	reader, err := s.pdfProvider.GenerateStatement(ctx, data)
	if err != nil {
		AbortWithError(c, ErrInternal)
		return
	}

	payload, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, ErrInternal)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.Number))
	c.Data(http.StatusOK, "application/pdf", payload)
}

func isInvoiceValidationError(err error) bool {
	switch err {
	case invoicedomain.ErrInvalidID,
		invoicedomain.ErrInvalidProperty,
		invoicedomain.ErrInvalidProvider,
		invoicedomain.ErrInvalidIssueDate,
		invoicedomain.ErrInvalidAmount,
		invoicedomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}
