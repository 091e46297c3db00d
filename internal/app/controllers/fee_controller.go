package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/akademix/internal/app/models/dto"
	"github.com/emre/akademix/internal/app/services"
	"github.com/emre/akademix/internal/middleware"
	"github.com/emre/akademix/internal/pkg/helpers"
)

// FeeController handles fee ledger endpoints
type FeeController struct {
	feeService *services.FeeService
}

// NewFeeController creates a new FeeController
func NewFeeController(feeService *services.FeeService) *FeeController {
	return &FeeController{
		feeService: feeService,
	}
}

// List returns a page of fee ledgers
// @Summary List fees
// @Description Retrieves fee ledgers with derived totals
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]dto.FeeResponse} "Fee ledgers"
// @Router /fees [get]
func (c *FeeController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	fees, total, err := c.feeService.ListFees(ctx, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:       fees,
		Pagination: &pagination,
		Timestamp:  time.Now(),
	})
}

// Get returns one fee ledger
// @Summary Get fee
// @Description Retrieves a fee ledger with payments, derived totals and next due date
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee ID"
// @Success 200 {object} dto.APIResponse{data=dto.FeeResponse} "Fee ledger"
// @Failure 404 {object} dto.ErrorResponse "Fee not found"
// @Router /fees/{id} [get]
func (c *FeeController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	fee, err := c.feeService.GetFee(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      fee,
		Timestamp: time.Now(),
	})
}

// RecordPayment appends a payment to a fee ledger
// @Summary Record payment
// @Description Appends a payment and recomputes the ledger status atomically
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee ID"
// @Param request body dto.RecordPaymentRequest true "Payment information"
// @Success 201 {object} dto.APIResponse{data=dto.FeeResponse} "Updated ledger"
// @Failure 400 {object} dto.ErrorResponse "Non-positive amount"
// @Failure 404 {object} dto.ErrorResponse "Fee not found"
// @Router /fees/{id}/payments [post]
func (c *FeeController) RecordPayment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	actor, ok := actorID(ctx)
	if !ok {
		return
	}

	fee, err := c.feeService.RecordPayment(ctx, actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      fee,
		Timestamp: time.Now(),
	})
}
