package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentcrm/internal/app/models/dto"
)

// HealthController reports liveness
type HealthController struct {
	recordsDriver   string
	documentsDriver string
}

// NewHealthController creates a new HealthController
func NewHealthController(recordsDriver, documentsDriver string) *HealthController {
	return &HealthController{
		recordsDriver:   recordsDriver,
		documentsDriver: documentsDriver,
	}
}

// Health returns 200 while the process is serving
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthData}
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.HealthData{
			Status:          "ok",
			RecordsDriver:   c.recordsDriver,
			DocumentsDriver: c.documentsDriver,
		},
	})
}
