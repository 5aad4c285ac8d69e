package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/qgen-labs/survey-logic-service/internal/services"
	"github.com/qgen-labs/survey-logic-service/internal/utils"
)

type HandlerManager struct {
	projectHandler    *ProjectHandler
	logicHandler      *LogicHandler
	validationHandler *ValidationHandler
}

func NewHandlerManager(
	projects *services.ProjectService,
	logic *services.LogicService,
	validation *services.ValidationService,
	importExport services.ImportExportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		projectHandler:    NewProjectHandler(projects, importExport, logger),
		logicHandler:      NewLogicHandler(logic, logger),
		validationHandler: NewValidationHandler(validation, importExport, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "survey-logic-service",
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Project routes
		projects := v1.Group("/projects")
		{
			projects.POST("", hm.projectHandler.CreateProject)
			projects.GET("", hm.projectHandler.ListProjects)
			projects.GET("/:id", hm.projectHandler.GetProject)
			projects.PUT("/:id", hm.projectHandler.UpdateProject)
			projects.DELETE("/:id", hm.projectHandler.DeleteProject)

			// Question management
			projects.GET("/:id/questions", hm.projectHandler.GetQuestions)
			projects.POST("/:id/questions", hm.projectHandler.AddQuestion)
			projects.PUT("/:id/questions/reorder", hm.projectHandler.ReorderQuestions)
			projects.PUT("/:id/questions/:qid", hm.projectHandler.UpdateQuestion)
			projects.DELETE("/:id/questions/:qid", hm.projectHandler.DeleteQuestion)

			// Import and export
			projects.POST("/:id/import", hm.projectHandler.ImportQuestions)
			projects.GET("/:id/export", hm.projectHandler.ExportQuestions)

			// Conditional logic
			projects.POST("/:id/logic/visibility", hm.logicHandler.ResolveVisibility)
			projects.GET("/:id/logic/preview", hm.logicHandler.PreviewVisibility)
			projects.POST("/:id/logic/evaluate", hm.logicHandler.EvaluateRule)
			projects.GET("/:id/logic/describe/:qid", hm.logicHandler.DescribeConditions)
			projects.GET("/:id/logic/operators/:qid", hm.logicHandler.GetOperators)
			projects.GET("/:id/logic/sources", hm.logicHandler.GetAvailableSources)
			projects.POST("/:id/logic/validate-rule", hm.logicHandler.ValidateRule)
			projects.GET("/:id/logic/graph", hm.logicHandler.GetDependencyGraph)

			// Validation
			projects.POST("/:id/validate", hm.validationHandler.ValidateProject)
			projects.GET("/:id/validate/export", hm.validationHandler.ExportValidationReport)
			projects.GET("/:id/export-ready", hm.validationHandler.CheckExportReady)
		}

		// Ad-hoc validation of unsaved questionnaires
		v1.POST("/validate", hm.validationHandler.ValidateQuestions)
		v1.POST("/validate/response", hm.validationHandler.ValidateResponse)

		// Static operator catalog for the condition editor
		v1.GET("/operators/:type", hm.logicHandler.GetOperatorCatalog)
	}
}
