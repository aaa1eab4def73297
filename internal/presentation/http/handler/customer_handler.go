package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// CustomerHandler handles loyalty customer requests
type CustomerHandler struct {
	customerService *service.CustomerService
	loyaltyService  *service.LoyaltyService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService, loyaltyService *service.LoyaltyService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		loyaltyService:  loyaltyService,
	}
}

// List handles listing customers
// @Summary List customers
// @Tags customers
// @Security BearerAuth
// @Param search query string false "Name, email or phone"
// @Success 200 {object} response.APIResponse
// @Router /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter request.CustomerFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), &pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}, filter.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// Create handles registering a customer
// @Summary Create customer
// @Tags customers
// @Security BearerAuth
// @Accept json
// @Param request body request.CreateCustomerRequest true "Customer"
// @Success 201 {object} response.APIResponse
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateCustomerInput{
		Name:           req.Name,
		MembershipTier: enum.MembershipTier(req.MembershipTier),
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		input.Email = &email
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		input.Phone = &phone
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Get handles getting a customer by ID
// @Summary Get customer
// @Tags customers
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {object} response.APIResponse
// @Router /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Loyalty returns the customer's points balance and journal
// @Summary Loyalty history
// @Tags customers
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {object} response.APIResponse
// @Router /customers/{id}/loyalty [get]
func (h *CustomerHandler) Loyalty(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	balance, err := h.loyaltyService.Balance(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	history, err := h.loyaltyService.History(ctx, id, pageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loyalty history retrieved successfully", gin.H{
		"balance":      balance,
		"transactions": history,
	})
}
