package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "printcost_go_backend/internal/errors"
	"printcost_go_backend/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	sessionService *services.SessionService,
	ledgerService *services.LedgerService,
	exportService *services.ExportService,
	assistantService *services.AssistantService,
) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "3D Printing Cost Calculator API is running")
	})

	api := r.Group("/api")
	{
		api.POST("/sessions", createSessionHandler(sessionService))
		api.GET("/sessions/:session_id", validateSessionHandler(sessionService))
		api.POST("/calculations", appendCalculationHandler(ledgerService))
		api.GET("/calculations/:session_id", recentCalculationsHandler(ledgerService))
		api.GET("/calculations/:session_id/export", exportCalculationsHandler(exportService))
		api.POST("/chat/message", chatMessageHandler(assistantService))
		api.GET("/chat/:session_id/history", chatHistoryHandler(assistantService))
	}
}

func createSessionHandler(sessionService *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sessionService.CreateSession()
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"session_id": session.ID,
			"expires_at": session.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}
}

func validateSessionHandler(sessionService *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		valid, err := sessionService.ValidateSession(c.Param("session_id"))
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": valid})
	}
}

func appendCalculationHandler(ledgerService *services.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			SessionID string `json:"session_id"`
			services.CostInputs
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.NewInvalidRequestError("invalid request body"))
			return
		}

		calc, err := ledgerService.AppendCalculation(request.SessionID, request.CostInputs)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, calc)
	}
}

func recentCalculationsHandler(ledgerService *services.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))

		calcs, err := ledgerService.RecentCalculations(c.Param("session_id"), limit)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"calculations": calcs})
	}
}

func exportCalculationsHandler(exportService *services.ExportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := c.DefaultQuery("format", services.FormatCSV)

		data, contentType, err := exportService.ExportCalculations(c.Param("session_id"), format)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="calculations.%s"`, format))
		c.Data(http.StatusOK, contentType, data)
	}
}

func chatMessageHandler(assistantService *services.AssistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			SessionID string `json:"session_id"`
			Message   string `json:"message"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.NewInvalidRequestError("invalid request body"))
			return
		}

		reply, err := assistantService.Ask(c.Request.Context(), request.SessionID, request.Message)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reply": reply})
	}
}

func chatHistoryHandler(assistantService *services.AssistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))

		turns, err := assistantService.History(c.Param("session_id"), limit)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": turns})
	}
}
