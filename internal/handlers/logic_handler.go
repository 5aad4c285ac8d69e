package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qgen-labs/survey-logic-service/internal/logic"
	"github.com/qgen-labs/survey-logic-service/internal/models"
	"github.com/qgen-labs/survey-logic-service/internal/services"
	"github.com/qgen-labs/survey-logic-service/internal/utils"
)

// LogicHandler serves conditional-logic operations: visibility resolution,
// rule evaluation and the condition editor's support endpoints.
type LogicHandler struct {
	BaseHandler
	logic *services.LogicService
}

func NewLogicHandler(logic *services.LogicService, logger utils.Logger) *LogicHandler {
	return &LogicHandler{
		BaseHandler: NewBaseHandler(logger),
		logic:       logic,
	}
}

// ResolveVisibility handles POST /projects/:id/logic/visibility
func (h *LogicHandler) ResolveVisibility(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	var responses models.ResponseMap
	if err := c.ShouldBindJSON(&responses); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	results, err := h.logic.ResolveVisibility(c.Request.Context(), id, responses)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"visibility": results})
}

// PreviewVisibility handles GET /projects/:id/logic/preview
func (h *LogicHandler) PreviewVisibility(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	results, responses, err := h.logic.PreviewVisibility(c.Request.Context(), id)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"visibility": results, "responses": responses})
}

type evaluateRuleRequest struct {
	Rule      models.ConditionRule `json:"rule"`
	Responses models.ResponseMap   `json:"responses"`
}

// EvaluateRule handles POST /projects/:id/logic/evaluate
func (h *LogicHandler) EvaluateRule(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	var req evaluateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	matched, err := h.logic.EvaluateRule(c.Request.Context(), id, req.Rule, req.Responses)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matched": matched})
}

// DescribeConditions handles GET /projects/:id/logic/describe/:qid
func (h *LogicHandler) DescribeConditions(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}
	qid := ParseStringIDParam(c, "qid")
	if qid == "" {
		return
	}

	description, err := h.logic.DescribeConditions(c.Request.Context(), id, qid)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"description": description})
}

// GetOperators handles GET /projects/:id/logic/operators/:qid
func (h *LogicHandler) GetOperators(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}
	qid := ParseStringIDParam(c, "qid")
	if qid == "" {
		return
	}

	catalog, err := h.logic.OperatorsForSource(c.Request.Context(), id, qid)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, catalog)
}

// GetOperatorCatalog handles GET /operators/:type. Unlike GetOperators it
// needs no project context; the catalog depends on the question kind alone.
func (h *LogicHandler) GetOperatorCatalog(c *gin.Context) {
	kind := ParseStringIDParam(c, "type")
	if kind == "" {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":      kind,
		"unified":   logic.ClassifyKind(kind),
		"operators": logic.OperatorsForKind(kind),
	})
}

// GetAvailableSources handles GET /projects/:id/logic/sources?position=N
func (h *LogicHandler) GetAvailableSources(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	position, err := strconv.Atoi(c.DefaultQuery("position", "0"))
	if err != nil || position < 0 {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid position", err)
		return
	}

	sources, err := h.logic.AvailableSources(c.Request.Context(), id, position)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

// ValidateRule handles POST /projects/:id/logic/validate-rule
func (h *LogicHandler) ValidateRule(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	var rule models.ConditionRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	problems, err := h.logic.ValidateRule(c.Request.Context(), id, rule)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": len(problems) == 0, "problems": problems})
}

// GetDependencyGraph handles GET /projects/:id/logic/graph
func (h *LogicHandler) GetDependencyGraph(c *gin.Context) {
	id, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	graph, err := h.logic.DependencyGraph(c.Request.Context(), id)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"graph": graph})
}
