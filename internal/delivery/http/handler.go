package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/anshumaan69/tenderflow/internal/domain"
	"github.com/anshumaan69/tenderflow/internal/usecase"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"

	// DefaultMaxUploadBytes bounds multipart uploads when not configured
	DefaultMaxUploadBytes = 20 << 20
)

// QuoteProcessor runs the quote pipeline
type QuoteProcessor interface {
	ProcessDocument(ctx context.Context, documentText string) *domain.QuoteResult
	ProcessUpload(ctx context.Context, data []byte) *domain.QuoteResult
}

// HandlerConfig holds optional handler dependencies
type HandlerConfig struct {
	Archive        domain.QuoteArchive // nil disables archiving
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	quotes         QuoteProcessor
	inventory      usecase.Inventory
	archive        domain.QuoteArchive
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(quotes QuoteProcessor, inventory usecase.Inventory, cfg HandlerConfig) *Handler {
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &Handler{
		quotes:         quotes,
		inventory:      inventory,
		archive:        cfg.Archive,
		maxUploadBytes: maxUpload,
		logger:         cfg.Logger,
	}
}

// QuoteRequest is the body of POST /api/v1/quotes
type QuoteRequest struct {
	DocumentText string `json:"documentText" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "tenderflow",
		"version": "1.0.0",
	})
}

// GetCatalog lists the products and services quotes are priced from
func (h *Handler) GetCatalog(c *gin.Context) {
	if h.inventory == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": h.inventory.Products(),
		"services": h.inventory.Services(),
	})
}

// CreateQuote quotes a document submitted as text
func (h *Handler) CreateQuote(c *gin.Context) {
	format, ok := h.outputFormat(c)
	if !ok {
		return
	}
	if h.quotes == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Quote service not configured"})
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "documentText is required"})
		return
	}

	result := h.quotes.ProcessDocument(c.Request.Context(), req.DocumentText)
	h.respond(c, result, format)
}

// UploadQuote quotes an uploaded PDF or text file sent as multipart field "file"
func (h *Handler) UploadQuote(c *gin.Context) {
	format, ok := h.outputFormat(c)
	if !ok {
		return
	}
	if h.quotes == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Quote service not configured"})
		return
	}

	// Allow room for multipart framing around the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read uploaded file"})
		return
	}

	h.logger.Debug().
		Str("filename", fileHeader.Filename).
		Int("bytes", len(data)).
		Msg("processing upload")

	result := h.quotes.ProcessUpload(c.Request.Context(), data)
	h.respond(c, result, format)
}

// outputFormat reads ?format=; an unsupported value is answered with 400
func (h *Handler) outputFormat(c *gin.Context) (string, bool) {
	format := c.DefaultQuery("format", formatJSON)
	if format != formatJSON && format != formatCSV {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be 'json' or 'csv'"})
		return "", false
	}
	return format, true
}

// respond archives successful quotes and writes the result.
// Failed pipeline runs are still 200: the payload carries the failure.
func (h *Handler) respond(c *gin.Context, result *domain.QuoteResult, format string) {
	if h.archive != nil && !result.Failed() {
		if err := h.archive.Save(c.Request.Context(), result); err != nil {
			h.logger.Error().Err(err).Str("quote_id", result.ID).Msg("failed to archive quote")
		}
	}

	if format == formatCSV {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=quote-%s.csv", result.ID))
		c.Status(http.StatusOK)
		if err := usecase.WriteQuoteCSV(c.Writer, result); err != nil {
			h.logger.Error().Err(err).Str("quote_id", result.ID).Msg("failed to write csv")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
