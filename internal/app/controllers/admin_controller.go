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

// AdminController handles the admin dashboard, audit log, financial report
// and settings endpoints
type AdminController struct {
	dashboardService *services.DashboardService
	auditService     *services.AuditService
	feeService       *services.FeeService
	settingsService  *services.SettingsService
}

// NewAdminController creates a new AdminController
func NewAdminController(
	dashboardService *services.DashboardService,
	auditService *services.AuditService,
	feeService *services.FeeService,
	settingsService *services.SettingsService,
) *AdminController {
	return &AdminController{
		dashboardService: dashboardService,
		auditService:     auditService,
		feeService:       feeService,
		settingsService:  settingsService,
	}
}

// Dashboard returns headline counts
// @Summary Admin dashboard
// @Description Returns headline counts and fee totals
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard"
// @Router /admin/dashboard [get]
func (c *AdminController) Dashboard(ctx *gin.Context) {
	dashboard, err := c.dashboardService.AdminDashboard(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dashboard,
		Timestamp: time.Now(),
	})
}

// AuditLogs returns a page of audit entries
// @Summary List audit logs
// @Description Retrieves audit entries, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.AuditLog} "Audit entries"
// @Router /admin/audit-logs [get]
func (c *AdminController) AuditLogs(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	entries, total, err := c.auditService.ListRecent(ctx, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:       entries,
		Pagination: &pagination,
		Timestamp:  time.Now(),
	})
}

// FinancialReport returns institute-wide fee aggregates
// @Summary Financial report
// @Description Aggregates fee ledgers with student and staff counts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.FinancialReportResponse} "Report"
// @Router /admin/financial-report [get]
func (c *AdminController) FinancialReport(ctx *gin.Context) {
	report, err := c.feeService.FinancialReport(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      report,
		Timestamp: time.Now(),
	})
}

// GetSettings returns the institute settings
// @Summary Get settings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Settings} "Settings"
// @Router /admin/settings [get]
func (c *AdminController) GetSettings(ctx *gin.Context) {
	settings, err := c.settingsService.Get(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      settings,
		Timestamp: time.Now(),
	})
}

// UpdateSettings replaces the institute settings
// @Summary Update settings
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateSettingsRequest true "Settings values"
// @Success 200 {object} dto.APIResponse{data=models.Settings} "Updated settings"
// @Failure 400 {object} dto.ErrorResponse "Invalid values"
// @Router /admin/settings [put]
func (c *AdminController) UpdateSettings(ctx *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	actor, ok := actorID(ctx)
	if !ok {
		return
	}

	settings, err := c.settingsService.Update(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      settings,
		Timestamp: time.Now(),
	})
}
