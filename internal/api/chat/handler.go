// Package chat serves the public chat endpoints.
package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liliang-cn/askclinic/internal/domain"
)

// User-facing messages
const (
	MsgInvalidQuery   = "Please enter a valid question."
	MsgNotInitialized = "Server Error: AI system is not initialized. Please check the server logs for API key or vector store errors."
	msgInternalPrefix = "I apologize, an internal error occurred while processing your request. Please try again later. Check the server log for details. Detailed Error: "
)

// Service is the chat pipeline as seen by the handler
type Service interface {
	Chat(ctx context.Context, query string) (*domain.ChatResult, error)
	LogClient(ctx context.Context, query, status string)
}

// Handler handles chat API requests
type Handler struct {
	chatService Service
}

// NewHandler creates a new chat handler
func NewHandler(chatService Service) *Handler {
	return &Handler{chatService: chatService}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/chat", h.Chat)
	r.POST("/log_query", h.LogQuery)
}

// Chat answers a question
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	// A malformed body is treated as an empty question.
	_ = c.ShouldBindJSON(&req)

	result, err := h.chatService.Chat(c.Request.Context(), req.Query)
	if err != nil {
		status, msg := errorResponse(err)
		c.JSON(status, domain.ChatResponse{Response: msg, Sources: []domain.Source{}})
		return
	}

	sources := result.Sources
	if sources == nil {
		sources = []domain.Source{}
	}
	c.JSON(http.StatusOK, domain.ChatResponse{Response: result.Text, Sources: sources})
}

// LogQuery records a client-side log line
func (h *Handler) LogQuery(c *gin.Context) {
	var req domain.LogQueryRequest
	_ = c.ShouldBindJSON(&req)

	h.chatService.LogClient(c.Request.Context(), req.Query, req.Status)
	c.JSON(http.StatusOK, gin.H{"status": "logged"})
}

func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return http.StatusBadRequest, MsgInvalidQuery
	case errors.Is(err, domain.ErrNotInitialized):
		return http.StatusServiceUnavailable, MsgNotInitialized
	}
	return http.StatusInternalServerError, msgInternalPrefix + err.Error()
}
