package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/app/models/dto"
	"github.com/yigit/studentcrm/internal/app/services"
	"github.com/yigit/studentcrm/internal/middleware"
	"github.com/yigit/studentcrm/internal/pkg/helpers"
)

// studentIDQuery is the query parameter every aggregation endpoint takes
const studentIDQuery = "studentId"

// bindFilter reads the optional status/from/to/q parameters. On failure the
// error response is already written and ok is false.
func bindFilter(ctx *gin.Context) (services.RecordFilter, bool) {
	var q dto.RecordFilterQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return services.RecordFilter{}, false
	}
	f, err := services.ParseRecordFilter(q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return services.RecordFilter{}, false
	}
	return f, true
}

// respondRecords writes rows, honouring page/size when the caller sent them.
// X-Total-Count always carries the unpaginated length.
func respondRecords(ctx *gin.Context, rows []models.Record) {
	ctx.Header("X-Total-Count", strconv.Itoa(len(rows)))
	if page, size, ok := helpers.ParsePaginationParams(ctx); ok {
		start, end := helpers.CalculateSliceIndices(page, size, len(rows))
		rows = rows[start:end]
	}
	ctx.JSON(http.StatusOK, rows)
}
