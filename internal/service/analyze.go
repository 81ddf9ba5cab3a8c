package service

import (
	"context"
	"time"

	"github.com/kenlim/foodvision/internal/domain"
	"github.com/kenlim/foodvision/internal/logger"
)

// AnalyzeService runs the full analysis pipeline: detection, nutrition
// resolution, and response assembly. It holds no mutable state, so
// concurrent analyze calls need no coordination.
type AnalyzeService struct {
	detector Detector
	resolver NutritionResolver
	archiver *PhotoArchiver // nil when archival is disabled
	logger   *logger.Logger
}

// NewAnalyzeService creates the analysis pipeline service.
// Parameters:
//   - detector: analysis engine implementation.
//   - resolver: nutrition reference resolver.
//   - archiver: optional photo archiver; nil disables archival.
//   - log: logger instance.
// Returns:
//   - *AnalyzeService: initialized service.
func NewAnalyzeService(detector Detector, resolver NutritionResolver, archiver *PhotoArchiver, log *logger.Logger) *AnalyzeService {
	return &AnalyzeService{
		detector: detector,
		resolver: resolver,
		archiver: archiver,
		logger:   log,
	}
}

// Analyze produces the complete AnalysisResult for a set of validated
// images. Identical bytes and metadata always yield an identical result.
// Parameters:
//   - ctx: request context.
//   - images: ordered raw image buffers (intake guarantees the count).
//   - meta: optional capture metadata, nil when absent.
// Returns:
//   - *domain.AnalysisResult: fully assembled result.
//   - error: non-nil if detection fails.
func (s *AnalyzeService) Analyze(ctx context.Context, images [][]byte, meta *domain.AnalysisMetadata) (*domain.AnalysisResult, error) {
	start := time.Now()

	result, err := s.detector.Detect(ctx, images, meta)
	if err != nil {
		return nil, err
	}

	// Resolve macros per item; misses fall back to the generic category
	// and surface as warnings, never as errors.
	for i := range result.Items {
		item := &result.Items[i]
		ref, ok := s.resolver.Resolve(item.Label)
		if !ok {
			fb := FallbackReference()
			ref = &fb
			result.Warnings = append(result.Warnings, domain.WarningUnmatchedFoodPrefix+item.Label)
		}
		item.Macros = ComputeMacros(ref, item.GramsEstimate)
	}

	// Keep the wire contract: no null slices.
	if result.Items == nil {
		result.Items = []domain.DetectedItem{}
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	if result.SuggestedNextShots == nil {
		result.SuggestedNextShots = []string{}
	}

	if s.archiver != nil {
		s.archiver.ArchiveAsync(images)
	}

	s.logger.WithFields(logger.Fields{
		logger.FieldRequestID:  logger.GetRequestID(ctx),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		logger.FieldCount:      len(result.Items),
	}).Infof("Analysis completed: overall=%.2f, needs_more=%v", result.OverallConfidence, result.NeedsMorePhotos)

	return result, nil
}
