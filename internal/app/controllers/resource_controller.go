package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/app/models/dto"
	"github.com/yigit/studentcrm/internal/app/services"
	"github.com/yigit/studentcrm/internal/middleware"
)

// ResourceController exposes one document collection as a create/list pair
type ResourceController struct {
	service *services.ResourceService
}

// NewResourceController creates a new ResourceController
func NewResourceController(service *services.ResourceService) *ResourceController {
	return &ResourceController{service: service}
}

// Path is the route segment the collection is mounted at
func (c *ResourceController) Path() string {
	return c.service.Schema().Path
}

// Create stores the posted document
// @Summary Create a document
// @Tags resources
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 409 {object} dto.ErrorResponse "Duplicate unique field"
// @Router /{collection} [post]
func (c *ResourceController) Create(ctx *gin.Context) {
	var doc models.Record
	if err := ctx.ShouldBindJSON(&doc); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	created, err := c.service.Create(ctx.Request.Context(), doc)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// List returns every document of the collection
// @Summary List documents
// @Tags resources
// @Produce json
// @Param page query int false "Page number, 1-based"
// @Param size query int false "Page size"
// @Router /{collection} [get]
func (c *ResourceController) List(ctx *gin.Context) {
	docs, err := c.service.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondRecords(ctx, docs)
}
