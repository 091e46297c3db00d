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

// AppointmentController handles visitor appointment endpoints
type AppointmentController struct {
	appointmentService *services.AppointmentService
}

// NewAppointmentController creates a new AppointmentController
func NewAppointmentController(appointmentService *services.AppointmentService) *AppointmentController {
	return &AppointmentController{
		appointmentService: appointmentService,
	}
}

// List returns a page of appointments
// @Summary List appointments
// @Description Retrieves appointments, most recent slot first
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.Appointment} "Appointments"
// @Router /appointments [get]
func (c *AppointmentController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	appointments, total, err := c.appointmentService.List(ctx, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:       appointments,
		Pagination: &pagination,
		Timestamp:  time.Now(),
	})
}

// Schedule books a visitor appointment
// @Summary Schedule appointment
// @Description Books a visitor slot with a staff member
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ScheduleAppointmentRequest true "Appointment information"
// @Success 201 {object} dto.APIResponse{data=models.Appointment} "Appointment scheduled"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Staff member not found"
// @Router /appointments [post]
func (c *AppointmentController) Schedule(ctx *gin.Context) {
	var req dto.ScheduleAppointmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	actor, ok := actorID(ctx)
	if !ok {
		return
	}

	appointment, err := c.appointmentService.Schedule(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      appointment,
		Timestamp: time.Now(),
	})
}
