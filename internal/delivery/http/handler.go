package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scanify/backend/internal/domain"
)

// MatchingUsecase resolves filenames and product rows
type MatchingUsecase interface {
	IdentifyStockist(ctx context.Context, filename string) (domain.MatchResult, error)
	MatchProducts(ctx context.Context, queries []domain.ProductQuery) ([]domain.MatchResult, error)
}

// StatementUsecase imports statement archives
type StatementUsecase interface {
	BulkImport(ctx context.Context, month string, archive []byte) (*domain.BatchReport, error)
	SuggestArchive(ctx context.Context, archive []byte) ([]domain.Suggestion, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matching   MatchingUsecase
	statements StatementUsecase
	maxUpload  int64
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler. maxUploadBytes <= 0 leaves uploads unbounded.
func NewHandler(matching MatchingUsecase, statements StatementUsecase, maxUploadBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		matching:   matching,
		statements: statements,
		maxUpload:  maxUploadBytes,
		logger:     logger,
	}
}

// MatchStockistRequest asks which stockist a statement file belongs to
type MatchStockistRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// ProductItem is one extracted row to resolve
type ProductItem struct {
	Name string `json:"name"`
	Pack string `json:"pack"`
}

// MatchProductsRequest asks for catalog products for extracted rows
type MatchProductsRequest struct {
	Items []ProductItem `json:"items" binding:"required,min=1,max=1000"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "scanify-backend",
		"version": "1.0.0",
	})
}

// MatchStockist handles filename identification requests
func (h *Handler) MatchStockist(c *gin.Context) {
	if h.matching == nil {
		h.notConfigured(c, "matching")
		return
	}

	var req MatchStockistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	result, err := h.matching.IdentifyStockist(c.Request.Context(), req.Filename)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MatchProducts handles product row matching requests
func (h *Handler) MatchProducts(c *gin.Context) {
	if h.matching == nil {
		h.notConfigured(c, "matching")
		return
	}

	var req MatchProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	queries := make([]domain.ProductQuery, len(req.Items))
	for i, item := range req.Items {
		queries[i] = domain.ProductQuery{Name: item.Name, Pack: item.Pack}
	}

	results, err := h.matching.MatchProducts(c.Request.Context(), queries)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// BulkImport handles multipart statement archive uploads (fields: month, file)
func (h *Handler) BulkImport(c *gin.Context) {
	if h.statements == nil {
		h.notConfigured(c, "statement import")
		return
	}

	month := c.PostForm("month")
	if month == "" {
		h.respondError(c, fmt.Errorf("%w: month is required", domain.ErrInvalidRequest))
		return
	}
	archive, err := h.readUpload(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	report, err := h.statements.BulkImport(c.Request.Context(), month, archive)
	if err != nil {
		if report != nil {
			status, message := h.statusFor(err)
			c.JSON(status, gin.H{"error": message, "report": report})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// SuggestStockists handles multipart archive uploads and lists likely stockists per file
func (h *Handler) SuggestStockists(c *gin.Context) {
	if h.statements == nil {
		h.notConfigured(c, "statement import")
		return
	}

	archive, err := h.readUpload(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	suggestions, err := h.statements.SuggestArchive(c.Request.Context(), archive)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// readUpload reads the "file" form field
func (h *Handler) readUpload(c *gin.Context) ([]byte, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: file is required", domain.ErrInvalidRequest)
	}
	if h.maxUpload > 0 && header.Size > h.maxUpload {
		return nil, fmt.Errorf("%w: file is larger than %d bytes", domain.ErrInvalidRequest, h.maxUpload)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

func (h *Handler) notConfigured(c *gin.Context, what string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": what + " service not configured",
	})
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status, message := h.statusFor(err)
	c.JSON(status, gin.H{"error": message})
}

func (h *Handler) statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnsupportedFile):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrExtractionFailed):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, domain.ErrEmptyReferenceSet),
		errors.Is(err, domain.ErrExtractorUnavailable),
		errors.Is(err, domain.ErrCacheUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, "request cancelled"
	default:
		h.logger.Error("request failed", zap.Error(err))
		return http.StatusInternalServerError, "internal server error"
	}
}
