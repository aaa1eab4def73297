package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tillpoint-api/pkg/money"
)

// TillHandler handles till assignment, cash drops and closing
type TillHandler struct {
	tillService *service.TillService
}

// NewTillHandler creates a new till handler
func NewTillHandler(tillService *service.TillService) *TillHandler {
	return &TillHandler{tillService: tillService}
}

// List handles listing tills
// @Summary List tills
// @Tags tills
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /tills [get]
func (h *TillHandler) List(c *gin.Context) {
	tills, err := h.tillService.ListTills(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tills retrieved successfully", tills)
}

// Create registers a new till
// @Summary Create till
// @Tags tills
// @Security BearerAuth
// @Accept json
// @Param request body request.CreateTillRequest true "Till"
// @Success 201 {object} response.APIResponse
// @Router /tills [post]
func (h *TillHandler) Create(c *gin.Context) {
	var req request.CreateTillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	till, err := h.tillService.CreateTill(c.Request.Context(), &service.CreateTillInput{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Till created successfully", till)
}

// Get handles getting a till by ID
// @Summary Get till
// @Tags tills
// @Security BearerAuth
// @Param id path string true "Till ID"
// @Success 200 {object} response.APIResponse
// @Router /tills/{id} [get]
func (h *TillHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	till, err := h.tillService.GetTill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Till retrieved successfully", till)
}

// Open assigns the till to the caller with an opening float
// @Summary Open till
// @Tags tills
// @Security BearerAuth
// @Accept json
// @Param id path string true "Till ID"
// @Param request body request.OpenTillRequest true "Opening float"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /tills/{id}/open [post]
func (h *TillHandler) Open(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req request.OpenTillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	till, err := h.tillService.Open(c.Request.Context(), sess, id, money.ToCents(req.OpeningFloat))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Till opened", till)
}

// Select makes the till the caller's working till
// @Summary Select till
// @Tags tills
// @Security BearerAuth
// @Param id path string true "Till ID"
// @Success 200 {object} response.APIResponse
// @Router /tills/{id}/select [post]
func (h *TillHandler) Select(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	till, err := h.tillService.SelectTill(c.Request.Context(), sess, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Till selected", till)
}

// Expected returns the expected balance for a day, today by default
// @Summary Expected balance
// @Tags tills
// @Security BearerAuth
// @Param id path string true "Till ID"
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} response.APIResponse
// @Router /tills/{id}/expected [get]
func (h *TillHandler) Expected(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	date := time.Now()
	if s := c.Query("date"); s != "" {
		d, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			response.BadRequest(c, "Invalid date")
			return
		}
		date = d
	}

	balance, err := h.tillService.ComputeExpectedBalance(c.Request.Context(), id, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expected balance computed", balance)
}

// Close reconciles and closes the caller's selected till. The caller must
// re-authenticate afterwards.
// @Summary Close till
// @Tags tills
// @Security BearerAuth
// @Accept json
// @Param request body request.CloseTillRequest true "Counted amounts"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /tills/close [post]
func (h *TillHandler) Close(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}
	var req request.CloseTillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	closing, err := h.tillService.Close(c.Request.Context(), sess, &service.CloseTillInput{
		Counted: service.CountedAmounts{
			Cash:             money.ToCents(req.CountedCash),
			Voucher:          money.ToCents(req.CountedVoucher),
			Loyalty:          money.ToCents(req.CountedLoyalty),
			Other:            money.ToCents(req.CountedOther),
			OtherDescription: req.OtherDescription,
		},
		Notes:            req.Notes,
		Confirmation:     req.Confirmation,
		PhysicalCountAck: req.PhysicalCountAck,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Till closed", closing)
}

// CashDrop removes cash from the caller's open till
// @Summary Cash drop
// @Tags tills
// @Security BearerAuth
// @Accept json
// @Param request body request.CashDropRequest true "Drop"
// @Success 201 {object} response.APIResponse
// @Router /tills/drops [post]
func (h *TillHandler) CashDrop(c *gin.Context) {
	sess, ok := posSession(c)
	if !ok {
		return
	}

	var req request.CashDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	drop, err := h.tillService.RecordCashDrop(c.Request.Context(), sess, &service.CashDropInput{
		Amount: money.ToCents(req.Amount),
		Reason: req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cash drop recorded", drop)
}

// Closings lists a till's reconciliation history
// @Summary Till closings
// @Tags tills
// @Security BearerAuth
// @Param id path string true "Till ID"
// @Success 200 {object} response.APIResponse
// @Router /tills/{id}/closings [get]
func (h *TillHandler) Closings(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.tillService.ListClosings(c.Request.Context(), id, pageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Till closings retrieved successfully", result)
}
