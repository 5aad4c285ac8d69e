package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qgen-labs/survey-logic-service/internal/models"
	"github.com/qgen-labs/survey-logic-service/internal/repositories"
	"github.com/qgen-labs/survey-logic-service/internal/services"
	"github.com/qgen-labs/survey-logic-service/internal/utils"
)

// ProjectHandler serves project and question CRUD plus questionnaire
// import/export.
type ProjectHandler struct {
	BaseHandler
	projects     *services.ProjectService
	importExport services.ImportExportService
}

func NewProjectHandler(projects *services.ProjectService, importExport services.ImportExportService, logger utils.Logger) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:  NewBaseHandler(logger),
		projects:     projects,
		importExport: importExport,
	}
}

// CreateProject handles POST /projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	project, err := h.projects.CreateProject(c.Request.Context(), &req)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Project created", project)
}

// GetProject handles GET /projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.GetProject(c.Request.Context(), id)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// ListProjects handles GET /projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var filters repositories.ProjectFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	projects, total, err := h.projects.ListProjects(c.Request.Context(), filters)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects, "total": total})
}

// UpdateProject handles PUT /projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	project, err := h.projects.UpdateProject(c.Request.Context(), id, &req)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Project updated", project)
}

// DeleteProject handles DELETE /projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.projects.DeleteProject(c.Request.Context(), id); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Project deleted", nil)
}

// ===== QUESTION MANAGEMENT =====

// GetQuestions handles GET /projects/:id/questions
func (h *ProjectHandler) GetQuestions(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	questions, err := h.projects.GetQuestions(c.Request.Context(), id)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// AddQuestion handles POST /projects/:id/questions
func (h *ProjectHandler) AddQuestion(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.SaveQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.projects.AddQuestion(c.Request.Context(), id, &req); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Question added", nil)
}

// UpdateQuestion handles PUT /projects/:id/questions/:qid
func (h *ProjectHandler) UpdateQuestion(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}
	qid := ParseStringIDParam(c, "qid")
	if qid == "" {
		return
	}

	var question models.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.projects.UpdateQuestion(c.Request.Context(), id, qid, question); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Question updated", nil)
}

// DeleteQuestion handles DELETE /projects/:id/questions/:qid
func (h *ProjectHandler) DeleteQuestion(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}
	qid := ParseStringIDParam(c, "qid")
	if qid == "" {
		return
	}

	if err := h.projects.DeleteQuestion(c.Request.Context(), id, qid); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Question deleted", nil)
}

// ReorderQuestions handles PUT /projects/:id/questions/reorder
func (h *ProjectHandler) ReorderQuestions(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	var positions []repositories.QuestionPosition
	if err := c.ShouldBindJSON(&positions); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.projects.ReorderQuestions(c.Request.Context(), id, positions); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Questions reordered", nil)
}

// ===== IMPORT / EXPORT =====

// ImportQuestions handles POST /projects/:id/import
func (h *ProjectHandler) ImportQuestions(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Missing upload file", err)
		return
	}
	defer file.Close()

	result, err := h.importExport.ImportQuestionsFromFile(c.Request.Context(), id, file, header.Filename)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Import completed", result)
}

// ExportQuestions handles GET /projects/:id/export
func (h *ProjectHandler) ExportQuestions(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	data, err := h.importExport.ExportQuestionsToExcel(c.Request.Context(), id)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="questionnaire.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
