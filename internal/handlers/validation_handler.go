package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qgen-labs/survey-logic-service/internal/models"
	"github.com/qgen-labs/survey-logic-service/internal/services"
	"github.com/qgen-labs/survey-logic-service/internal/utils"
)

// ValidationHandler serves project validation and the validation report
// export.
type ValidationHandler struct {
	BaseHandler
	validation   *services.ValidationService
	importExport services.ImportExportService
}

func NewValidationHandler(validation *services.ValidationService, importExport services.ImportExportService, logger utils.Logger) *ValidationHandler {
	return &ValidationHandler{
		BaseHandler:  NewBaseHandler(logger),
		validation:   validation,
		importExport: importExport,
	}
}

// ValidateProject handles POST /projects/:id/validate
func (h *ValidationHandler) ValidateProject(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	report, err := h.validation.ValidateProject(c.Request.Context(), id)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ValidateQuestions handles POST /validate (ad-hoc, unsaved questionnaires)
func (h *ValidationHandler) ValidateQuestions(c *gin.Context) {
	var questions []models.Question
	if err := c.ShouldBindJSON(&questions); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	report := h.validation.ValidateQuestions(c.Request.Context(), questions)
	c.JSON(http.StatusOK, report)
}

type validateResponseRequest struct {
	Question  models.Question    `json:"question"`
	Responses models.ResponseMap `json:"responses"`
}

// ValidateResponse handles POST /validate/response
func (h *ValidationHandler) ValidateResponse(c *gin.Context) {
	var req validateResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result := h.validation.ValidateResponse(c.Request.Context(), &req.Question, req.Responses)
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"applicable": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applicable": true, "result": result})
}

// CheckExportReady handles GET /projects/:id/export-ready
func (h *ValidationHandler) CheckExportReady(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.validation.CheckExportReady(c.Request.Context(), id); err != nil {
		if services.IsBusinessRule(err) {
			c.JSON(http.StatusOK, gin.H{"ready": false, "reason": err.Error()})
			return
		}
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ready": true})
}

// ExportValidationReport handles GET /projects/:id/validate/export
func (h *ValidationHandler) ExportValidationReport(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	report, err := h.validation.ValidateProject(c.Request.Context(), id)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	data, err := h.importExport.ExportValidationReport(c.Request.Context(), id, report)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="validation-report.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
