package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/akademix/internal/app/models/dto"
	"github.com/emre/akademix/internal/app/services"
	"github.com/emre/akademix/internal/middleware"
)

// StaffController handles the staff landing endpoint
type StaffController struct {
	dashboardService *services.DashboardService
}

// NewStaffController creates a new StaffController
func NewStaffController(dashboardService *services.DashboardService) *StaffController {
	return &StaffController{
		dashboardService: dashboardService,
	}
}

// Home returns the staff landing payload
// @Summary Staff home
// @Description Returns the landing payload for a STAFF user
// @Tags staff
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StaffHomeResponse} "Staff home"
// @Router /staff/home [get]
func (c *StaffController) Home(ctx *gin.Context) {
	home, err := c.dashboardService.StaffHome(ctx, middleware.GetUsername(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      home,
		Timestamp: time.Now(),
	})
}
