package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/grade-service/internal/repositories"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := c.Param(param)
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

// parseTermFilters reads search, paging and sort query parameters. Bad
// numbers fall back to the repository defaults.
func parseTermFilters(c *gin.Context) repositories.TermFilters {
	filters := repositories.TermFilters{
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "code"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		filters.Offset = offset
	}
	return filters
}

func sendSpreadsheet(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
