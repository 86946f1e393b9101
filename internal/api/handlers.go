package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"sentracker/internal/models"
	"sentracker/internal/service/tracker"
)

const defaultHighRiskThreshold = 0.7

// Handler wires HTTP routes to the sentiment tracker service.
type Handler struct {
	tracker *tracker.Service
}

// NewHandler constructs a Handler instance.
func NewHandler(service *tracker.Service) *Handler {
	return &Handler{tracker: service}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	customerRoutes := api.Group("/customers/:id")
	customerRoutes.POST("/analyze", h.analyzeConversation)
	customerRoutes.POST("/analysis", h.recordAnalysis)
	customerRoutes.GET("/history", h.getHistory)
	api.GET("/high-risk", h.listHighRisk)
	api.GET("/statistics", h.getStatistics)
	api.POST("/alerts/:alert_id/resolve", h.resolveAlert)
}

func (h *Handler) customerID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return "", false
	}
	return id, true
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tracker.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, tracker.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
	case errors.Is(err, tracker.ErrAlertNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Conversation analysis interface
type analyzeRequest struct {
	ContextType models.ContextType `json:"context_type"`
	Messages    []models.Message   `json:"messages"`
}

func (h *Handler) analyzeConversation(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	result, err := h.tracker.Analyze(c.Request.Context(), customerID, req.ContextType, req.Messages)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// External result persistence interface
type recordRequest struct {
	ContextType     models.ContextType `json:"context_type"`
	Messages        []string           `json:"messages"`
	SentimentScore  float64            `json:"sentiment_score"`
	Trend           models.Trend       `json:"trend"`
	RiskLevel       models.RiskLevel   `json:"risk_level"`
	PredictedAction models.Action      `json:"predicted_action"`
	Confidence      float64            `json:"confidence"`
}

func (h *Handler) recordAnalysis(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	conversationID, alert, err := h.tracker.RecordAnalysis(c.Request.Context(), tracker.RecordInput{
		CustomerID:      customerID,
		ContextType:     req.ContextType,
		Messages:        req.Messages,
		SentimentScore:  req.SentimentScore,
		Trend:           req.Trend,
		RiskLevel:       req.RiskLevel,
		PredictedAction: req.PredictedAction,
		Confidence:      req.Confidence,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	payload := gin.H{"conversation_id": conversationID}
	if alert != nil {
		payload["alert"] = alert
	}
	c.JSON(http.StatusCreated, payload)
}

func (h *Handler) getHistory(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	history, err := h.tracker.GetHistory(c.Request.Context(), customerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) listHighRisk(c *gin.Context) {
	threshold := defaultHighRiskThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid threshold"})
			return
		}
		threshold = parsed
	}
	profiles, err := h.tracker.ListHighRisk(c.Request.Context(), threshold)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if profiles == nil {
		profiles = make([]models.CustomerProfile, 0)
	}
	c.JSON(http.StatusOK, gin.H{"customers": profiles})
}

func (h *Handler) getStatistics(c *gin.Context) {
	stats, err := h.tracker.GetStatistics(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type resolveRequest struct {
	Note string `json:"note"`
}

func (h *Handler) resolveAlert(c *gin.Context) {
	alertID, err := strconv.ParseInt(c.Param("alert_id"), 10, 64)
	if err != nil || alertID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}
	// note body is optional
	var req resolveRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.tracker.ResolveAlert(c.Request.Context(), alertID, req.Note); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
