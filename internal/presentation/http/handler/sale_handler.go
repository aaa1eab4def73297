package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tillpoint-api/pkg/money"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
	"github.com/sangkips/tillpoint-api/pkg/utils"
)

// SaleHandler handles checkout and sale history
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Checkout commits the caller's cart as a sale
// @Summary Checkout
// @Tags sales
// @Security BearerAuth
// @Accept json
// @Param Idempotency-Key header string false "Replays the first successful response"
// @Param request body request.CheckoutRequest true "Payments"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /checkout [post]
func (h *SaleHandler) Checkout(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CheckoutInput{
		Payments:     make([]service.PaymentInput, 0, len(req.Payments)),
		CustomerID:   req.CustomerID,
		RedeemPoints: req.RedeemPoints,
		Notes:        req.Notes,
	}
	for _, p := range req.Payments {
		input.Payments = append(input.Payments, service.PaymentInput{
			Method:    enum.PaymentMethod(p.Method),
			Amount:    money.ToCents(p.Amount),
			Reference: p.Reference,
		})
	}
	if req.CashTendered != nil {
		tendered := money.ToCents(*req.CashTendered)
		input.CashTendered = &tendered
	}

	output, err := h.saleService.Commit(c.Request.Context(), sess, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed", output)
}

// List handles listing sales. Without view_reports a cashier sees only their own.
// @Summary List sales
// @Tags sales
// @Security BearerAuth
// @Param till_id query string false "Till ID"
// @Param customer_id query string false "Customer ID"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} response.APIResponse
// @Router /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}

	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	tillID, err := utils.ParseOptionalUUID(filter.TillID)
	if err != nil {
		response.BadRequest(c, "Invalid till_id")
		return
	}
	customerID, err := utils.ParseOptionalUUID(filter.CustomerID)
	if err != nil {
		response.BadRequest(c, "Invalid customer_id")
		return
	}

	params := &repository.SaleFilter{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		TillID:     tillID,
		CustomerID: customerID,
	}
	params.From, params.To = dateRange(filter.From, filter.To)
	if !sess.HasPermission(entity.PermissionViewReports) {
		params.OwnerID = &sess.OwnerID
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Get handles getting a sale by its transaction number
// @Summary Get sale
// @Tags sales
// @Security BearerAuth
// @Param id path int true "Sale ID"
// @Success 200 {object} response.APIResponse
// @Router /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := saleIDParam(c)
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Reprint returns the receipt again, counting against the reprint limit
// @Summary Reprint receipt
// @Tags sales
// @Security BearerAuth
// @Param id path int true "Sale ID"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /sales/{id}/reprint [post]
func (h *SaleHandler) Reprint(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}
	id, ok := saleIDParam(c)
	if !ok {
		return
	}

	receipt, err := h.saleService.Reprint(c.Request.Context(), sess, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt reprinted", receipt)
}

func saleIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid sale ID")
		return 0, false
	}
	return id, true
}
