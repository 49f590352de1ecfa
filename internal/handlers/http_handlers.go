package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"secretsanta/internal/models"
	"secretsanta/internal/notify"
	"secretsanta/internal/roster"
	"secretsanta/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
)

const (
	tenantHeader    = "X-Tenant-ID"
	tenantKey       = "tenantID"
	defaultTenantID = "default"
)

// HTTPHandler holds the dependencies for the HTTP handlers, like the santa service.
type HTTPHandler struct {
	service    *services.SantaService
	dispatcher notify.Dispatcher
}

// NewHTTPHandler creates a new HTTPHandler. dispatcher may be nil, in which
// case notifications are disabled.
func NewHTTPHandler(service *services.SantaService, dispatcher notify.Dispatcher) *HTTPHandler {
	return &HTTPHandler{
		service:    service,
		dispatcher: dispatcher,
	}
}

// TenantMiddleware resolves the tenant of a request from the X-Tenant-ID header.
func (h *HTTPHandler) TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := strings.TrimSpace(c.GetHeader(tenantHeader))
		if tenantID == "" {
			tenantID = defaultTenantID
		}
		c.Set(tenantKey, tenantID)
		c.Next()
	}
}

func tenant(c *gin.Context) string {
	return c.GetString(tenantKey)
}

// RegisterPublicRoutes registers the routes that need no tenant.
func (h *HTTPHandler) RegisterPublicRoutes(router gin.IRouter) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterTenantRoutes registers the tenant-scoped routes.
func (h *HTTPHandler) RegisterTenantRoutes(router gin.IRouter) {
	router.GET("/participants", h.GetParticipants)
	router.POST("/participants", h.AddParticipant)
	router.POST("/upload-participants-csv", h.UploadParticipantsCSV)
	router.POST("/draw", h.PerformDraw)
	router.GET("/assignments", h.GetAssignments)
	router.GET("/export-assignments-csv", h.ExportAssignmentsCSV)
	router.POST("/notify", h.Notify)
	router.DELETE("/session", h.ClearSession)
}

// GetParticipants returns the tenant's roster.
func (h *HTTPHandler) GetParticipants(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"participants": h.service.GetParticipants(tenant(c))})
}

type participantRequest struct {
	Name    string `json:"name" binding:"required"`
	Group   string `json:"group" binding:"required"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// AddParticipant handles adding a single participant.
func (h *HTTPHandler) AddParticipant(c *gin.Context) {
	var req participantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Participant name and group cannot be empty"})
		return
	}
	if err := roster.Validate(req.Name, req.Group, req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.service.AddParticipant(tenant(c), req.Name, req.Group, req.Email, req.Message)
	c.JSON(http.StatusOK, gin.H{"participants": h.service.GetParticipants(tenant(c))})
}

// UploadParticipantsCSV replaces the tenant's roster with an uploaded CSV file.
func (h *HTTPHandler) UploadParticipantsCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("participantCSV")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving file: " + err.Error()})
		return
	}
	defer file.Close()

	people, err := roster.Parse(file)
	if err != nil {
		logger.Infof("Rejected participant CSV for tenant %s: %v", tenant(c), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.service.SetRoster(tenant(c), people)
	c.JSON(http.StatusOK, gin.H{"participants": h.service.GetParticipants(tenant(c))})
}

// PerformDraw assigns a recipient to every participant of the tenant.
func (h *HTTPHandler) PerformDraw(c *gin.Context) {
	draw, err := h.service.Draw(tenant(c))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, draw)
	case errors.Is(err, services.ErrSessionEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInfeasible):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetAssignments returns the tenant's latest draw.
func (h *HTTPHandler) GetAssignments(c *gin.Context) {
	draw, ok := h.latestDraw(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, draw)
}

func (h *HTTPHandler) latestDraw(c *gin.Context) (*models.Draw, bool) {
	draw, err := h.service.GetDraw(tenant(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return draw, true
}

// ExportAssignmentsCSV handles the request to download the latest draw as a CSV file.
func (h *HTTPHandler) ExportAssignmentsCSV(c *gin.Context) {
	draw, ok := h.latestDraw(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=assignments.csv")

	// Add BOM to ensure UTF-8 compatibility in Excel
	c.Writer.Write([]byte("\xef\xbb\xbf"))

	w := csv.NewWriter(c.Writer)

	if err := w.Write([]string{"Giver Index", "Giver", "Recipient Index", "Recipient"}); err != nil {
		logger.Infof("Error writing CSV header: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
		return
	}

	for _, p := range draw.Pairings {
		row := []string{strconv.Itoa(p.GiverIndex), p.GiverName, strconv.Itoa(p.RecipientIndex), p.RecipientName}
		if err := w.Write(row); err != nil {
			logger.Infof("Error writing CSV row: %v", err)
			c.String(http.StatusInternalServerError, "Error writing CSV")
			return
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		logger.Infof("Error flushing CSV writer: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
	}
}

// Notify sends every participant of the latest draw their assignment.
func (h *HTTPHandler) Notify(c *gin.Context) {
	if h.dispatcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notifications are not configured"})
		return
	}

	people, err := h.service.AssignedParticipants(tenant(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err := notify.DispatchAll(c.Request.Context(), h.dispatcher, people); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notified": len(people)})
}

// ClearSession removes all data of the tenant.
func (h *HTTPHandler) ClearSession(c *gin.Context) {
	h.service.ClearSession(tenant(c))
	c.Status(http.StatusNoContent)
}
