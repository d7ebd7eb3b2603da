package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/liliang-cn/askclinic/internal/domain"
	"github.com/liliang-cn/askclinic/internal/service"
)

// Handler handles admin API requests
type Handler struct {
	adminService *service.AdminService
}

// NewHandler creates a new admin handler
func NewHandler(adminService *service.AdminService) *Handler {
	return &Handler{adminService: adminService}
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/queries", h.ListQueries)
	r.GET("/stats", h.GetStats)
}

var validOutcomes = map[domain.Outcome]bool{
	domain.OutcomeAnswered:  true,
	domain.OutcomeNoContext: true,
	domain.OutcomeRejected:  true,
	domain.OutcomeFailed:    true,
}

// ListQueries returns the audited chat requests, newest first
func (h *Handler) ListQueries(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}

	outcome := domain.Outcome(c.Query("outcome"))
	if outcome != "" && !validOutcomes[outcome] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown outcome"})
		return
	}

	queries, err := h.adminService.ListQueries(c.Request.Context(), limit, outcome)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"queries": queries, "total": len(queries)})
}

// GetStats returns audit and collection statistics
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
