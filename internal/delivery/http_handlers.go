package delivery

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"insightgo/internal/domain"
	"insightgo/internal/usecase"
	"insightgo/pkg/logger"
	"insightgo/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// handles HTTP requests
type HTTPHandlers struct {
	reportService *usecase.ReportService
	defaultBlogID int
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

// creates new HTTP handlers
func NewHTTPHandlers(
	reportService *usecase.ReportService,
	defaultBlogID int,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *HTTPHandlers {
	return &HTTPHandlers{
		reportService: reportService,
		defaultBlogID: defaultBlogID,
		logger:        logger,
		metrics:       metrics,
	}
}

// HealthCheck returns the health status of the service
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"service":    "insightgo",
		"version":    "1.0.0",
		"request_id": c.GetString("request_id"),
	})
}

// GetAPIInfo returns API v1 information and available endpoints
func (h *HTTPHandlers) GetAPIInfo(c *gin.Context) {
	apiInfo := gin.H{
		"api_version": "v1",
		"service":     "Marketing Report Service",
		"version":     "1.0.0",
		"description": "Aggregates social and web analytics into period-comparison reports with AI narratives",
		"endpoints": gin.H{
			"projects": gin.H{
				"path":        "/api/v1/projects",
				"description": "List client projects visible to the configured account",
				"methods":     []string{"GET"},
			},
			"availability": gin.H{
				"path":         "/api/v1/projects/:blogId/availability",
				"default_path": "/api/v1/availability",
				"description":  "Resolve which networks are configured and have data for a project",
				"methods":      []string{"GET"},
			},
			"network_metrics": gin.H{
				"path":        "/api/v1/projects/:blogId/networks/:network/metrics",
				"description": "Metric bundle with period comparison for one network",
				"methods":     []string{"GET"},
				"parameters": gin.H{
					"from": "Optional: Start date (YYYY-MM-DD), defaults to last full month",
					"to":   "Optional: End date (YYYY-MM-DD), defaults to last full month",
				},
				"example": "/api/v1/projects/4827857/networks/instagram/metrics?from=2025-07-01&to=2025-07-31",
			},
			"report": gin.H{
				"path":         "/api/v1/projects/:blogId/report",
				"default_path": "/api/v1/report",
				"description":  "Generate and download the full HTML report",
				"methods":      []string{"GET"},
				"parameters": gin.H{
					"from": "Optional: Start date (YYYY-MM-DD), defaults to last full month",
					"to":   "Optional: End date (YYYY-MM-DD), defaults to last full month",
				},
				"example": "/api/v1/projects/4827857/report?from=2025-07-01&to=2025-07-31",
			},
		},
		"request_id": c.GetString("request_id"),
	}

	c.JSON(http.StatusOK, apiInfo)
}

// GetProjects lists the client accounts available to the configured user.
func (h *HTTPHandlers) GetProjects(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	projects, err := h.reportService.ListProjects(ctx)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to list projects")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "Failed to retrieve projects",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       projects,
		"total":      len(projects),
		"request_id": requestID,
	})
}

// GetAvailability resolves the report sections applicable to a project.
func (h *HTTPHandlers) GetAvailability(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	blogID, ok := h.parseBlogID(c)
	if !ok {
		return
	}

	profile, availability, err := h.reportService.GetAvailability(ctx, blogID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "Project profile unavailable",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blog_id":      blogID,
		"project":      profile.Name,
		"availability": availability,
		"request_id":   requestID,
	})
}

// GetNetworkMetrics returns the metric bundle for one network and date range.
func (h *HTTPHandlers) GetNetworkMetrics(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	blogID, ok := h.parseBlogID(c)
	if !ok {
		return
	}

	network := domain.Network(c.Param("network"))
	if _, ok := domain.CatalogFor(network); !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Unknown network",
			"message":    fmt.Sprintf("network %q is not supported", c.Param("network")),
			"request_id": requestID,
		})
		return
	}

	from, to, err := h.parsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid date range",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	bundle, err := h.reportService.GetNetworkBundle(ctx, blogID, network, from, to)
	if err != nil {
		if errors.Is(err, usecase.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":      "No data available",
				"message":    fmt.Sprintf("no data for %s in the selected period", network),
				"request_id": requestID,
			})
			return
		}
		h.logger.WithContext(ctx).WithError(err).Error("Failed to build metric bundle")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "Failed to retrieve metrics",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	prevFrom, prevTo := usecase.PreviousWindow(from, to)

	c.JSON(http.StatusOK, gin.H{
		"data": bundle,
		"comparison_period": gin.H{
			"from": prevFrom.Format("2006-01-02"),
			"to":   prevTo.Format("2006-01-02"),
		},
		"request_id": requestID,
	})
}

// DownloadReport generates the full HTML report and serves it as an attachment.
func (h *HTTPHandlers) DownloadReport(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	blogID, ok := h.parseBlogID(c)
	if !ok {
		return
	}

	from, to, err := h.parsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid date range",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	doc, err := h.reportService.GenerateReport(ctx, blogID, from, to)
	if err != nil {
		if errors.Is(err, usecase.ErrProfileUnavailable) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":      "Project profile unavailable",
				"message":    err.Error(),
				"request_id": requestID,
			})
			return
		}
		h.logger.WithContext(ctx).WithError(err).Error("Report generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Report generation failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc.HTML)
}

// parseBlogID reads the project id from the path. Routes registered without the
// parameter resolve to the configured default project.
func (h *HTTPHandlers) parseBlogID(c *gin.Context) (int, bool) {
	raw := c.Param("blogId")
	if raw == "" {
		return h.defaultBlogID, true
	}

	blogID, err := strconv.Atoi(raw)
	if err != nil || blogID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid project identifier",
			"message":    "blogId must be a positive integer",
			"request_id": c.GetString("request_id"),
		})
		return 0, false
	}
	return blogID, true
}

// parsePeriod reads the from/to query parameters. Both default to the last
// fully completed calendar month when absent.
func (h *HTTPHandlers) parsePeriod(c *gin.Context) (from, to time.Time, err error) {
	defaultFrom, defaultTo := usecase.LastFullMonth(time.Now())

	fromStr := c.Query("from")
	if fromStr == "" {
		from = defaultFrom
	} else {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from must be in YYYY-MM-DD format")
		}
	}

	toStr := c.Query("to")
	if toStr == "" {
		to = defaultTo
	} else {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to must be in YYYY-MM-DD format")
		}
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not precede from")
	}

	return from, to, nil
}
