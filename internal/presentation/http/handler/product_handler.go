package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// ProductHandler handles catalog lookups at the till
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products
// @Summary List products
// @Tags products
// @Security BearerAuth
// @Param search query string false "Name or code"
// @Param low_stock query bool false "Only products at or below their alert level"
// @Success 200 {object} response.APIResponse
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.productService.ListProducts(c.Request.Context(), &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:     filter.Search,
		LowStock:   filter.LowStock,
		ActiveOnly: !IsAdmin(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Get handles getting a product by ID
// @Summary Get product
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} response.APIResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProductByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// GetByCode looks a product up by its scanned code
// @Summary Get product by code
// @Tags products
// @Security BearerAuth
// @Param code path string true "Product code"
// @Success 200 {object} response.APIResponse
// @Router /products/code/{code} [get]
func (h *ProductHandler) GetByCode(c *gin.Context) {
	product, err := h.productService.GetProductByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// CompositeUnits lists the bundles sold on top of a base product
// @Summary List composite units
// @Tags products
// @Security BearerAuth
// @Param id path string true "Base product ID"
// @Success 200 {object} response.APIResponse
// @Router /products/{id}/composites [get]
func (h *ProductHandler) CompositeUnits(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	units, err := h.productService.ListCompositeUnits(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Composite units retrieved successfully", units)
}
