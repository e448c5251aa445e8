package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/grade-service/internal/services"
	"github.com/SAP-F-2025/grade-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type GradeHandler struct {
	BaseHandler
	gradeService services.GradeService
}

func NewGradeHandler(gradeService services.GradeService, logger utils.Logger) *GradeHandler {
	return &GradeHandler{
		BaseHandler:  NewBaseHandler(logger),
		gradeService: gradeService,
	}
}

// GetWeights returns the fixed category weights
// @Summary Category weights
// @Tags grades
// @Produce json
// @Success 200 {object} services.WeightsResponse
// @Router /weights [get]
func (h *GradeHandler) GetWeights(c *gin.Context) {
	c.JSON(http.StatusOK, h.gradeService.Weights())
}

// CalculateGrade calculates the current grade and final exam projections
// @Summary Calculate grade
// @Description Aggregates entered scores for a term and back-solves the final exam score per threshold
// @Tags grades
// @Accept json
// @Produce json
// @Param code path string true "Term code"
// @Param grade body services.GradeRequest true "Entered scores"
// @Success 200 {object} services.GradeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /terms/{code}/grade [post]
func (h *GradeHandler) CalculateGrade(c *gin.Context) {
	code := ParseStringIDParam(c, "code")
	if code == "" {
		return
	}

	var req services.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Calculating grade", "term_code", code, "entries", len(req.Entries))

	resp, err := h.gradeService.Calculate(h.requestContext(c), code, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DownloadReport calculates a grade and returns it as a spreadsheet
// @Summary Grade report
// @Tags grades
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param code path string true "Term code"
// @Param grade body services.GradeRequest true "Entered scores"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /terms/{code}/report [post]
func (h *GradeHandler) DownloadReport(c *gin.Context) {
	code := ParseStringIDParam(c, "code")
	if code == "" {
		return
	}

	var req services.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	data, err := h.gradeService.Report(h.requestContext(c), code, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	sendSpreadsheet(c, code+"-grade-report.xlsx", data)
}
