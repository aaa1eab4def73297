package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
)

// CartHandler handles the caller's working cart
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the cart lines and totals
// @Summary Get cart
// @Tags cart
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", cart)
}

// AddLine adds a product or composite unit
// @Summary Add cart line
// @Tags cart
// @Security BearerAuth
// @Accept json
// @Param request body request.AddCartLineRequest true "Line"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /cart/lines [post]
func (h *CartHandler) AddLine(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}

	var req request.AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.AddLine(c.Request.Context(), sess, &service.AddLineInput{
		ProductID:       req.ProductID,
		CompositeUnitID: req.CompositeUnitID,
		Quantity:        req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", cart)
}

// UpdateLine changes a line's quantity by a signed delta
// @Summary Update cart line
// @Tags cart
// @Security BearerAuth
// @Accept json
// @Param id path string true "Line ID"
// @Param request body request.UpdateCartLineRequest true "Delta"
// @Success 200 {object} response.APIResponse
// @Router /cart/lines/{id} [patch]
func (h *CartHandler) UpdateLine(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}
	lineID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req request.UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.UpdateLine(c.Request.Context(), sess, lineID, req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart updated", cart)
}

// RemoveLine deletes a line without recording a void
// @Summary Remove cart line
// @Tags cart
// @Security BearerAuth
// @Param id path string true "Line ID"
// @Success 200 {object} response.APIResponse
// @Router /cart/lines/{id} [delete]
func (h *CartHandler) RemoveLine(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}
	lineID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveLine(c.Request.Context(), sess, lineID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from cart", cart)
}

// VoidLine removes a line and records a product void
// @Summary Void cart line
// @Tags cart
// @Security BearerAuth
// @Accept json
// @Param id path string true "Line ID"
// @Param request body request.ReasonRequest true "Reason"
// @Success 200 {object} response.APIResponse
// @Router /cart/lines/{id}/void [post]
func (h *CartHandler) VoidLine(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}
	lineID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req request.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.VoidLine(c.Request.Context(), sess, lineID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item voided", cart)
}

// VoidCart empties the cart and records a cart void
// @Summary Void cart
// @Tags cart
// @Security BearerAuth
// @Accept json
// @Param request body request.ReasonRequest true "Reason"
// @Success 200 {object} response.APIResponse
// @Router /cart/void [post]
func (h *CartHandler) VoidCart(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}

	var req request.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.cartService.VoidCart(c.Request.Context(), sess, req.Reason); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart voided", nil)
}

// Clear empties the cart without recording a void
// @Summary Clear cart
// @Tags cart
// @Security BearerAuth
// @Success 204
// @Router /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), sess); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
