package service

import (
	"context"

	"github.com/kenlim/foodvision/internal/domain"
)

// Detector is the capability seam for the analysis engine. The
// deterministic hash-based implementation is the default; an ML-backed
// implementation satisfies the same interface with no caller-visible
// change.
//
// A Detector fills every AnalysisResult field except item macros, which
// the nutrition resolver computes afterwards.
type Detector interface {
	Detect(ctx context.Context, images [][]byte, meta *domain.AnalysisMetadata) (*domain.AnalysisResult, error)
}
