package handler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Harshrb2424/jntuh-mcp-server/model"
	"github.com/Harshrb2424/jntuh-mcp-server/pkg/logger"
	"github.com/Harshrb2424/jntuh-mcp-server/service"
	"github.com/gin-gonic/gin"
)

type ResultsHandler struct {
	catalog   *service.CatalogStore
	jntuh     *service.JNTUHService
	renderer  service.Renderer
	publisher service.Publisher
	registry  *service.ArtifactRegistry
	pdfDir    string
}

func NewResultsHandler(
	catalog *service.CatalogStore,
	jntuh *service.JNTUHService,
	renderer service.Renderer,
	publisher service.Publisher,
	registry *service.ArtifactRegistry,
	pdfDir string,
) *ResultsHandler {
	return &ResultsHandler{
		catalog:   catalog,
		jntuh:     jntuh,
		renderer:  renderer,
		publisher: publisher,
		registry:  registry,
		pdfDir:    pdfDir,
	}
}

// Context returns the assistant context document: the available actions
// and the current facet values for the discovery step.
func (h *ResultsHandler) Context(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":       "JNTUH Results Assistant",
		"description": "Helps students find and download their results from JNTUH",
		"actions": []gin.H{
			{
				"name":        "search_results",
				"description": "Search for available results based on filters",
				"parameters": []gin.H{
					{"name": "degree_type", "type": "string", "required": true, "options": []string{"BTech", "B.Pharmacy", "MTech", "M.Pharmacy"}},
					{"name": "year", "type": "string", "required": false},
					{"name": "semester", "type": "string", "required": false},
					{"name": "regulation", "type": "string", "required": false},
					{"name": "exam_type", "type": "string", "required": false, "options": []string{"Regular", "Supplementary"}},
					{"name": "rc_rv", "type": "string", "required": false, "options": []string{"Yes", "No"}},
				},
			},
			{
				"name":        "generate_result",
				"description": "Generate a PDF result for a specific roll number",
				"parameters": []gin.H{
					{"name": "examCode", "type": "string", "required": true},
					{"name": "htno", "type": "string", "required": true},
				},
			},
		},
		"state": gin.H{
			"current_step": "initial",
			"available_filters": gin.H{
				"degree_types":  []string{"BTech", "B.Pharmacy", "MTech", "M.Pharmacy"},
				"years":         h.catalog.DistinctValues("Year"),
				"semesters":     h.catalog.DistinctValues("Semester"),
				"regulations":   h.catalog.DistinctValues("Regulation"),
				"exam_types":    []string{"Regular", "Supplementary"},
				"rc_rv_options": []string{"Yes", "No"},
			},
		},
	})
}

// Search filters the catalog and returns the matching configurations.
func (h *ResultsHandler) Search(c *gin.Context) {
	var criteria model.FilterCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid filter criteria",
		})
		return
	}

	rows := h.catalog.Filter(criteria)

	results := make([]gin.H, len(rows))
	for i, row := range rows {
		isRCRV := "No"
		if service.IsRCRV(row.Title) {
			isRCRV = "Yes"
		}
		results[i] = gin.H{
			"id":         i,
			"title":      row.Title,
			"exam_date":  row.ExamDate,
			"regulation": row.Regulation,
			"year":       row.Year,
			"semester":   row.Semester,
			"exam_type":  row.ExamType,
			"exam_code":  row.ExamCode,
			"is_rc_rv":   isRCRV,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"count":   len(results),
			"results": results,
		},
		"next_action": "select_result",
	})
}

type GenerateRequest struct {
	ExamCode string `json:"examCode"`
	HallNo   string `json:"htno"`
}

// Generate runs the full pipeline for one student: resolve the exam's
// parameter set, fetch the result page, render it to PDF and publish the
// artifact. Every failure class maps to a structured envelope; nothing
// reaches the caller unclassified.
func (h *ResultsHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ExamCode == "" || req.HallNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": service.ErrInvalidRequest.Error(),
		})
		return
	}

	ctx := context.WithValue(c.Request.Context(), logger.HallTicketKey, req.HallNo)
	ctx = context.WithValue(ctx, logger.ExamCodeKey, req.ExamCode)

	params, referer, err := h.catalog.Resolve(req.ExamCode)
	if err != nil {
		// No catalog row, no network call.
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": service.ErrCatalogEntryNotFound.Error(),
		})
		return
	}

	html, err := h.jntuh.FetchResult(ctx, params, req.HallNo, referer)
	if err != nil {
		var transportErr *service.TransportError
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": service.ErrRecordNotFound.Error(),
			})
		case errors.As(err, &transportErr):
			logger.Error(ctx, "result fetch failed", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{
				"status":  "error",
				"message": transportErr.Error(),
			})
		default:
			logger.Error(ctx, "result fetch failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to fetch results",
			})
		}
		return
	}

	pdf, err := h.renderer.Render(ctx, html)
	if err != nil {
		logger.Error(ctx, "render failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	artifact, err := h.publisher.Publish(ctx, req.HallNo, req.ExamCode, pdf)
	if err != nil {
		logger.Error(ctx, "publish failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to store result PDF",
		})
		return
	}
	h.registry.Add(artifact)

	logger.Info(ctx, "result artifact published",
		"filename", artifact.Filename,
		"size", artifact.Size,
	)

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"pdf_url":  artifact.URL,
			"filename": artifact.Filename,
			"size":     artifact.Size,
			"message":  "Result PDF generated successfully",
		},
		"next_action": "download_pdf",
	})
}

// ListArtifacts returns the artifacts generated during this process's
// lifetime, newest first.
func (h *ResultsHandler) ListArtifacts(c *gin.Context) {
	artifacts := h.registry.List()

	result := make([]gin.H, len(artifacts))
	for i, a := range artifacts {
		result[i] = gin.H{
			"id":         a.ID,
			"htno":       a.HallTicket,
			"exam_code":  a.ExamCode,
			"filename":   a.Filename,
			"pdf_url":    a.URL,
			"size":       a.Size,
			"created_at": a.CreatedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, gin.H{"artifacts": result})
}

// Download serves a locally published artifact as an attachment.
func (h *ResultsHandler) Download(c *gin.Context) {
	filename := c.Param("filename")

	// Reject anything that isn't a bare filename.
	if filename == "" || filename != filepath.Base(filename) {
		c.JSON(http.StatusNotFound, gin.H{"error": "PDF not found"})
		return
	}

	path := filepath.Join(h.pdfDir, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "PDF not found"})
		return
	}

	c.FileAttachment(path, filename)
}

// Health reports process liveness plus catalog and registry counts.
func (h *ResultsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"results_count":  h.catalog.Count(),
		"artifact_count": h.registry.Count(),
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}
