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

// EnquiryController handles enquiry, admission and student endpoints
type EnquiryController struct {
	admissionService *services.AdmissionService
}

// NewEnquiryController creates a new EnquiryController
func NewEnquiryController(admissionService *services.AdmissionService) *EnquiryController {
	return &EnquiryController{
		admissionService: admissionService,
	}
}

// List returns a page of enquiries
// @Summary List enquiries
// @Description Retrieves enquiries, newest first
// @Tags enquiries
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.Enquiry} "Enquiries"
// @Router /enquiries [get]
func (c *EnquiryController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	enquiries, total, err := c.admissionService.ListEnquiries(ctx, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:       enquiries,
		Pagination: &pagination,
		Timestamp:  time.Now(),
	})
}

// Create records a walk-in enquiry
// @Summary Create enquiry
// @Description Records a new enquiry in NEW state
// @Tags enquiries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEnquiryRequest true "Enquiry information"
// @Success 201 {object} dto.APIResponse{data=models.Enquiry} "Enquiry created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /enquiries [post]
func (c *EnquiryController) Create(ctx *gin.Context) {
	var req dto.CreateEnquiryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	actor, ok := actorID(ctx)
	if !ok {
		return
	}

	enquiry, err := c.admissionService.CreateEnquiry(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      enquiry,
		Timestamp: time.Now(),
	})
}

// Cancel marks an enquiry cancelled
// @Summary Cancel enquiry
// @Description Cancels an enquiry; repeat cancels are no-ops, admitted enquiries are rejected
// @Tags enquiries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enquiry ID"
// @Success 200 {object} dto.APIResponse{data=models.Enquiry} "Enquiry state"
// @Failure 404 {object} dto.ErrorResponse "Enquiry not found"
// @Failure 409 {object} dto.ErrorResponse "Enquiry already admitted"
// @Router /enquiries/{id}/cancel [post]
func (c *EnquiryController) Cancel(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	actor, ok := actorID(ctx)
	if !ok {
		return
	}

	enquiry, err := c.admissionService.CancelEnquiry(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enquiry,
		Timestamp: time.Now(),
	})
}

// Admit converts an enquiry into a student
// @Summary Admit student from enquiry
// @Description Creates the student, fee ledger and optional first payment atomically
// @Tags enquiries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enquiry ID"
// @Param request body dto.AdmitStudentRequest true "Student and fee information"
// @Success 201 {object} dto.APIResponse{data=dto.AdmissionResponse} "Admission completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Enquiry not found"
// @Failure 409 {object} dto.ErrorResponse "Enquiry already admitted"
// @Router /enquiries/{id}/admit [post]
func (c *EnquiryController) Admit(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.AdmitStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	actor, ok := actorID(ctx)
	if !ok {
		return
	}

	resp, err := c.admissionService.AdmitStudent(ctx, actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// DirectAdmission admits a student without a prior enquiry
// @Summary Direct admission
// @Description Admits a student, synthesizing an already-admitted enquiry
// @Tags enquiries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DirectAdmissionRequest true "Student and fee information"
// @Success 201 {object} dto.APIResponse{data=dto.AdmissionResponse} "Admission completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /admissions/direct [post]
func (c *EnquiryController) DirectAdmission(ctx *gin.Context) {
	var req dto.DirectAdmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	actor, ok := actorID(ctx)
	if !ok {
		return
	}

	resp, err := c.admissionService.DirectAdmission(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// ListStudents returns a page of students
// @Summary List students
// @Description Retrieves students, newest admission first
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students"
// @Router /students [get]
func (c *EnquiryController) ListStudents(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	students, total, err := c.admissionService.ListStudents(ctx, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:       students,
		Pagination: &pagination,
		Timestamp:  time.Now(),
	})
}

// GetStudent returns a student profile
// @Summary Get student
// @Description Retrieves a student by ID
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *EnquiryController) GetStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	student, err := c.admissionService.GetStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}
