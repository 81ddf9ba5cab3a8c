package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kenlim/foodvision/internal/config"
	"github.com/kenlim/foodvision/internal/domain"
	"github.com/kenlim/foodvision/internal/logger"
	"github.com/kenlim/foodvision/internal/service"
)

// Machine-readable reason codes for validation failures. The mobile
// client keys retry UX off these, so they are part of the wire contract.
const (
	CodeInvalidUpload     = "invalid_upload"
	CodeMinPhotosRequired = "min_photos_required"
	CodeTooManyPhotos     = "too_many_photos"
	CodeUnsupportedMedia  = "unsupported_media"
	CodeInvalidMetadata   = "invalid_metadata"
	CodeInvalidRequest    = "invalid_request"
	CodeMealNotFound      = "meal_not_found"
	CodeAnalysisFailed    = "analysis_failed"
	CodeStorageError      = "storage_error"
)

// MealHandler handles the meal analysis and persistence endpoints.
type MealHandler struct {
	analyzeService *service.AnalyzeService
	mealService    *service.MealService
	minPhotos      int
	maxPhotos      int
	maxUploadBytes int64
}

// NewMealHandler creates a new meal handler.
// Parameters:
//   - analyzeService: analysis pipeline service.
//   - mealService: meal persistence service.
//   - analysisCfg: photo count limits.
//   - serverCfg: upload size limit.
// Returns:
//   - *MealHandler: initialized handler.
func NewMealHandler(
	analyzeService *service.AnalyzeService,
	mealService *service.MealService,
	analysisCfg config.AnalysisConfig,
	serverCfg config.ServerConfig,
) *MealHandler {
	return &MealHandler{
		analyzeService: analyzeService,
		mealService:    mealService,
		minPhotos:      analysisCfg.MinPhotos,
		maxPhotos:      analysisCfg.MaxPhotos,
		maxUploadBytes: serverCfg.MaxUploadBytes,
	}
}

// Analyze handles POST /meals/analyze.
// Accepts multipart form-data with 3-8 JPEG/PNG images and an optional
// metadata JSON form field; returns the analysis result.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MealHandler) Analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		rejectRequest(c, CodeInvalidUpload, "Invalid multipart request: "+err.Error())
		return
	}

	files := form.File["images[]"]
	if len(files) == 0 {
		files = form.File["images"]
	}

	if len(files) < h.minPhotos {
		rejectRequest(c, CodeMinPhotosRequired, "At least 3 photos are required")
		return
	}
	if len(files) > h.maxPhotos {
		rejectRequest(c, CodeTooManyPhotos, "At most 8 photos are allowed")
		return
	}

	images := make([][]byte, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			rejectRequest(c, CodeInvalidUpload, "Failed to read uploaded file")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			rejectRequest(c, CodeInvalidUpload, "Failed to read uploaded file")
			return
		}

		if ct := http.DetectContentType(data); ct != "image/jpeg" && ct != "image/png" {
			rejectRequest(c, CodeUnsupportedMedia, "Only JPEG and PNG photos are supported")
			return
		}
		images = append(images, data)
	}

	var meta *domain.AnalysisMetadata
	if raw := c.PostForm("metadata"); raw != "" {
		meta = &domain.AnalysisMetadata{}
		if err := json.Unmarshal([]byte(raw), meta); err != nil {
			rejectRequest(c, CodeInvalidMetadata, "Metadata is not valid JSON")
			return
		}
		if meta.Capture.PhotoCount != nil && *meta.Capture.PhotoCount < 0 {
			rejectRequest(c, CodeInvalidMetadata, "photo_count must not be negative")
			return
		}
	}

	result, err := h.analyzeService.Analyze(c.Request.Context(), images, meta)
	if err != nil {
		logger.CtxError(c.Request.Context(), "Analysis failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  CodeAnalysisFailed,
			"error": "Analysis failed",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Save handles POST /meals: persists a user-confirmed meal.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MealHandler) Save(c *gin.Context) {
	var req service.SaveMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectRequest(c, CodeInvalidRequest, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.mealService.Save(c.Request.Context(), &req)
	if err != nil {
		logger.CtxError(c.Request.Context(), "Failed to save meal: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  CodeStorageError,
			"error": "Failed to save meal",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get handles GET /meals/:id: returns a persisted meal with its items.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MealHandler) Get(c *gin.Context) {
	meal, err := h.mealService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrMealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":  CodeMealNotFound,
				"error": "Meal not found",
			})
			return
		}
		logger.CtxError(c.Request.Context(), "Failed to load meal: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  CodeStorageError,
			"error": "Failed to load meal",
		})
		return
	}

	c.JSON(http.StatusOK, meal)
}

// Today handles GET /meals/today: totals for all meals saved on the
// current UTC date.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MealHandler) Today(c *gin.Context) {
	totals, err := h.mealService.TodayTotals(c.Request.Context(), time.Now())
	if err != nil {
		logger.CtxError(c.Request.Context(), "Failed to compute daily totals: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  CodeStorageError,
			"error": "Failed to compute daily totals",
		})
		return
	}

	c.JSON(http.StatusOK, totals)
}

// rejectRequest writes a 400 with a machine-readable reason code.
func rejectRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":  code,
		"error": message,
	})
}
