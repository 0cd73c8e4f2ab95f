package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	providerdomain "github.com/propfolio/propfolio/internal/provider/domain"
	"github.com/propfolio/propfolio/pkg/db/pagination"
)

type createProviderRequest struct {
	Name        string   `json:"name"`
	Service     string   `json:"service"`
	PropertyIDs []string `json:"property_ids"`
}

func (s *Server) CreateProvider(c *gin.Context) {
	var req createProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.providerSvc.Create(c.Request.Context(), providerdomain.CreateProviderRequest{
		Name:        strings.TrimSpace(req.Name),
		Service:     strings.TrimSpace(req.Service),
		PropertyIDs: req.PropertyIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProviders(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status  string `form:"status"`
		Service string `form:"service"`
		Name    string `form:"name"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.providerSvc.List(c.Request.Context(), providerdomain.ListProviderRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Status:    strings.TrimSpace(query.Status),
		Service:   strings.TrimSpace(query.Service),
		Name:      strings.TrimSpace(query.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProviderByID(c *gin.Context) {
	resp, err := s.providerSvc.GetByID(c.Request.Context(), providerdomain.GetProviderRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateProviderStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateProviderStatus(c *gin.Context) {
	var req updateProviderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.providerSvc.UpdateStatus(c.Request.Context(), providerdomain.UpdateProviderStatusRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Status: strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type assignProviderPropertiesRequest struct {
	PropertyIDs []string `json:"property_ids"`
}

func (s *Server) AssignProviderProperties(c *gin.Context) {
	var req assignProviderPropertiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.providerSvc.AssignProperties(c.Request.Context(), providerdomain.AssignPropertiesRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		PropertyIDs: req.PropertyIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isProviderValidationError(err error) bool {
	switch err {
	case providerdomain.ErrInvalidName,
		providerdomain.ErrInvalidID,
		providerdomain.ErrInvalidStatus,
		providerdomain.ErrInvalidProperty:
		return true
	default:
		return false
	}
}
