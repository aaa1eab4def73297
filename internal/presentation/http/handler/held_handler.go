package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
)

// HeldHandler handles parked carts
type HeldHandler struct {
	heldService *service.HeldService
}

// NewHeldHandler creates a new held transaction handler
func NewHeldHandler(heldService *service.HeldService) *HeldHandler {
	return &HeldHandler{heldService: heldService}
}

// Hold parks the caller's cart
// @Summary Hold cart
// @Tags held
// @Security BearerAuth
// @Accept json
// @Param request body request.HoldRequest true "Hold"
// @Success 201 {object} response.APIResponse
// @Router /held [post]
func (h *HeldHandler) Hold(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}

	var req request.HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	held, err := h.heldService.Hold(c.Request.Context(), sess, &service.HoldInput{
		Reason:            req.Reason,
		CustomerReference: req.CustomerReference,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction held", held)
}

// List returns transactions still on hold. Cashiers see their own unless
// they pass a till filter.
// @Summary List held transactions
// @Tags held
// @Security BearerAuth
// @Param till_id query string false "Till ID"
// @Success 200 {object} response.APIResponse
// @Router /held [get]
func (h *HeldHandler) List(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}
	tillID, ok := optionalUUIDQuery(c, "till_id")
	if !ok {
		return
	}

	filter := &service.HeldListFilter{TillID: tillID}
	if tillID == nil && !sess.IsAdmin() {
		filter.OwnerID = &sess.OwnerID
	}

	held, err := h.heldService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Held transactions retrieved successfully", held)
}

// Get returns a held transaction
// @Summary Get held transaction
// @Tags held
// @Security BearerAuth
// @Param id path string true "Held transaction ID"
// @Success 200 {object} response.APIResponse
// @Router /held/{id} [get]
func (h *HeldHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	held, err := h.heldService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Held transaction retrieved successfully", held)
}

// Resume restores a held transaction into the caller's empty cart
// @Summary Resume held transaction
// @Tags held
// @Security BearerAuth
// @Param id path string true "Held transaction ID"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /held/{id}/resume [post]
func (h *HeldHandler) Resume(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	cart, err := h.heldService.Resume(c.Request.Context(), sess, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction resumed", cart)
}

// Void discards a held transaction and records the void
// @Summary Void held transaction
// @Tags held
// @Security BearerAuth
// @Accept json
// @Param id path string true "Held transaction ID"
// @Param request body request.ReasonRequest true "Reason"
// @Success 200 {object} response.APIResponse
// @Router /held/{id}/void [post]
func (h *HeldHandler) Void(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req request.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	held, err := h.heldService.Void(c.Request.Context(), sess, id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Held transaction voided", held)
}
