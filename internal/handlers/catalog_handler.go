package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/grade-service/internal/services"
	"github.com/SAP-F-2025/grade-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	BaseHandler
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
	}
}

// ListTerms lists term catalogs
// @Summary List terms
// @Tags terms
// @Produce json
// @Param search query string false "Code or name fragment"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} services.TermListResponse
// @Router /terms [get]
func (h *CatalogHandler) ListTerms(c *gin.Context) {
	resp, err := h.catalogService.List(h.requestContext(c), parseTermFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetTerm returns a term with its items in display order
// @Summary Get term
// @Tags terms
// @Produce json
// @Param code path string true "Term code"
// @Success 200 {object} services.TermResponse
// @Failure 404 {object} ErrorResponse
// @Router /terms/{code} [get]
func (h *CatalogHandler) GetTerm(c *gin.Context) {
	code := ParseStringIDParam(c, "code")
	if code == "" {
		return
	}

	resp, err := h.catalogService.Get(h.requestContext(c), code)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateTerm creates a term catalog
// @Summary Create term
// @Tags terms
// @Accept json
// @Produce json
// @Param term body services.CreateTermRequest true "Term catalog"
// @Success 201 {object} services.TermResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /terms [post]
func (h *CatalogHandler) CreateTerm(c *gin.Context) {
	var req services.CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Creating term", "term_code", req.Code, "items", len(req.Items))

	resp, err := h.catalogService.Create(h.requestContext(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DeleteTerm deletes a term catalog
// @Summary Delete term
// @Tags terms
// @Produce json
// @Param code path string true "Term code"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /terms/{code} [delete]
func (h *CatalogHandler) DeleteTerm(c *gin.Context) {
	code := ParseStringIDParam(c, "code")
	if code == "" {
		return
	}

	h.LogRequest(c, "Deleting term", "term_code", code)

	if err := h.catalogService.Delete(h.requestContext(c), code); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Term deleted",
		Data:    gin.H{"code": code},
	})
}

// ImportCatalog imports a catalog spreadsheet into a term
// @Summary Import catalog
// @Tags terms
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx or csv catalog"
// @Param code formData string true "Term code"
// @Param name formData string false "Term name"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} ErrorResponse
// @Router /terms/import [post]
func (h *CatalogHandler) ImportCatalog(c *gin.Context) {
	var req services.ImportCatalogRequest
	if err := c.ShouldBind(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unable to read file", err)
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing catalog", "term_code", req.Code, "filename", fileHeader.Filename, "size", fileHeader.Size)

	result, err := h.catalogService.ImportCatalog(h.requestContext(c), file, fileHeader.Filename, &req)
	if err != nil {
		if result != nil && errors.Is(err, services.ErrInvalidSpreadsheet) {
			h.RespondWithError(c, http.StatusBadRequest, "Catalog rejected", err, result)
			return
		}
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportCatalog downloads a term catalog as a spreadsheet
// @Summary Export catalog
// @Tags terms
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param code path string true "Term code"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /terms/{code}/export [get]
func (h *CatalogHandler) ExportCatalog(c *gin.Context) {
	code := ParseStringIDParam(c, "code")
	if code == "" {
		return
	}

	data, err := h.catalogService.ExportCatalog(h.requestContext(c), code)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	sendSpreadsheet(c, code+"-catalog.xlsx", data)
}
