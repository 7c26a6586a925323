package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopwire/content-engine/internal/domain"
	"github.com/shopwire/content-engine/internal/logging"
	"github.com/shopwire/content-engine/internal/resolver"
)

// ContentResolver is the resolution engine as seen by the HTTP layer.
// Implemented by resolver.Engine.
type ContentResolver interface {
	ResolvePage(ctx context.Context, req resolver.Request) ([]domain.ContentRecord, error)
	ResolveCategory(ctx context.Context, req resolver.Request) ([]domain.ContentRecord, error)
	PageCategories(ctx context.Context, page string) ([]string, error)
}

// Pinger reports storage reachability for the readiness probe.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler handles HTTP requests for the content engine API.
type Handler struct {
	engine  ContentResolver
	pinger  Pinger
	logger  logging.Logger
	name    string
	version string
}

// NewHandler creates a new API handler.
func NewHandler(engine ContentResolver, pinger Pinger, log logging.Logger, name, version string) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{engine: engine, pinger: pinger, logger: log, name: name, version: version}
}

// ContentByPage handles GET /api/content/page/:page.
func (h *Handler) ContentByPage(c *gin.Context) {
	page := strings.TrimSpace(c.Param("page"))
	if page == "" {
		respondBadRequest(c, "page name is required")
		return
	}

	req := parseRequest(c)
	req.Page = page

	records, err := h.engine.ResolvePage(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("page resolution failed",
			logging.String("page", page),
			logging.Error(err))
		respondDatabaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// ContentByCategory handles GET /api/content/category/:category.
func (h *Handler) ContentByCategory(c *gin.Context) {
	category := strings.TrimSpace(c.Param("category"))
	if category == "" {
		respondBadRequest(c, "category name is required")
		return
	}

	req := parseRequest(c)
	req.Category = category

	records, err := h.engine.ResolveCategory(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("category resolution failed",
			logging.String("category", category),
			logging.Error(err))
		respondDatabaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// CategoriesByPage handles GET /api/categories/page/:page.
func (h *Handler) CategoriesByPage(c *gin.Context) {
	page := strings.TrimSpace(c.Param("page"))
	if page == "" {
		respondBadRequest(c, "page name is required")
		return
	}

	names, err := h.engine.PageCategories(c.Request.Context(), page)
	if err != nil {
		h.logger.Error("page category listing failed",
			logging.String("page", page),
			logging.Error(err))
		respondDatabaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, names)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.name,
		"version": h.version,
	})
}

// ReadyCheck handles GET /ready. Ready means the database file is reachable.
func (h *Handler) ReadyCheck(c *gin.Context) {
	if h.pinger != nil {
		if err := h.pinger.PingContext(c.Request.Context()); err != nil {
			h.logger.Warn("readiness probe failed", logging.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": "database unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// parseRequest reads the shared query parameters. Unparseable values fall
// back to defaults rather than erroring: a storefront page render should not
// break over a mangled limit.
func parseRequest(c *gin.Context) resolver.Request {
	req := resolver.Request{
		Category: strings.TrimSpace(c.Query("category")),
		Gender:   strings.TrimSpace(c.Query("gender")),
		Limit:    resolver.DefaultLimit,
		Interval: resolver.DefaultRotateInterval,
	}

	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Limit = n
		}
	}
	req.Limit = resolver.ClampLimit(req.Limit)

	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Offset = n
		}
	}
	req.Offset = resolver.ClampOffset(req.Offset)

	req.Rotate = c.Query("rotate") == "true"
	if v := c.Query("interval"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			req.Interval = time.Duration(n) * time.Second
		}
	}

	return req
}
