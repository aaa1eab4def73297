package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
	"github.com/sangkips/tillpoint-api/pkg/utils"
)

// VoidHandler exposes the void audit trail
type VoidHandler struct {
	voidService *service.VoidService
}

// NewVoidHandler creates a new void handler
func NewVoidHandler(voidService *service.VoidService) *VoidHandler {
	return &VoidHandler{voidService: voidService}
}

// List handles listing void records
// @Summary List voids
// @Tags voids
// @Security BearerAuth
// @Param void_type query string false "product, cart, held_transaction or sale"
// @Param till_id query string false "Till ID"
// @Param owner_id query string false "Cashier ID"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} response.APIResponse
// @Router /voids [get]
func (h *VoidHandler) List(c *gin.Context) {
	var filter request.VoidFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	voidType := enum.VoidType(filter.VoidType)
	if voidType != "" && !voidType.IsValid() {
		response.BadRequest(c, "Invalid void_type")
		return
	}
	tillID, err := utils.ParseOptionalUUID(filter.TillID)
	if err != nil {
		response.BadRequest(c, "Invalid till_id")
		return
	}
	ownerID, err := utils.ParseOptionalUUID(filter.OwnerID)
	if err != nil {
		response.BadRequest(c, "Invalid owner_id")
		return
	}

	params := &repository.VoidFilter{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		VoidType: voidType,
		TillID:   tillID,
		OwnerID:  ownerID,
	}
	params.From, params.To = dateRange(filter.From, filter.To)

	result, err := h.voidService.ListVoids(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Voids retrieved successfully", result)
}
