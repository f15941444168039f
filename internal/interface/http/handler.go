package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mstolarz/astro-advisor/internal/domain/conditions"
	"github.com/mstolarz/astro-advisor/internal/domain/equipment"
	"github.com/mstolarz/astro-advisor/internal/domain/planner"
	apperrors "github.com/mstolarz/astro-advisor/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	plannerSvc    planner.Service
	conditionsSvc conditions.Service
	catalog       *equipment.Catalog
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(plannerSvc planner.Service, conditionsSvc conditions.Service, catalog *equipment.Catalog, logger *slog.Logger) *Handler {
	return &Handler{
		plannerSvc:    plannerSvc,
		conditionsSvc: conditionsSvc,
		catalog:       catalog,
		logger:        logger.With("component", "http.handler"),
	}
}

// GenerateReport triggers one synchronous report run. Stage codes carried by
// the pipeline error decide the response status.
func (h *Handler) GenerateReport(c *gin.Context) {
	report, err := h.plannerSvc.GenerateReport(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// GetReport fetches one archived report by id.
func (h *Handler) GetReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid report id", err))
		return
	}

	report, err := h.plannerSvc.GetReport(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListReports returns archived reports, newest first.
func (h *Handler) ListReports(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInvalidInput, "limit must be a positive integer", err))
			return
		}
		limit = parsed
	}

	reports, err := h.plannerSvc.ListReports(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if reports == nil {
		reports = []planner.Report{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// Conditions returns the current sky conditions with the inferred seeing.
func (h *Handler) Conditions(c *gin.Context) {
	cond, err := h.conditionsSvc.Current(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cond)
}

// Equipment returns the configured catalog plus derived optics.
func (h *Handler) Equipment(c *gin.Context) {
	items := h.catalog.Ordered()
	payload := make([]gin.H, 0, len(items))
	for _, item := range items {
		payload = append(payload, gin.H{
			"role":  item.Role,
			"model": item.Model,
			"specs": item.Specs,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"equipment": payload,
		"optics":    equipment.ComputeOptics(h.catalog),
	})
}

// Healthz answers liveness probes.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
