package service

import (
	"context"
	"crypto/md5"
	"fmt"
	"math"
	"math/big"

	"github.com/kenlim/foodvision/internal/config"
	"github.com/kenlim/foodvision/internal/domain"
	"github.com/kenlim/foodvision/internal/logger"
)

// angleCatalog is the fixed, ordered list of camera angles the client
// can be asked to capture next.
var angleCatalog = []string{
	"top_down",
	"lower_left_angle",
	"lower_right_angle",
	"closeup",
}

// scenarioItem is one food of a canned scenario: baseline confidences
// and gram-range template, before photo-count adjustment.
type scenarioItem struct {
	label           string
	labelConfidence float64
	gramsEstimate   int
	gramsMin        int
	gramsMax        int
	gramsConfidence float64
}

// scenario is a hand-authored bundle of 1-4 foods standing in for a real
// detector output.
type scenario struct {
	name     string
	items    []scenarioItem
	warnings []string
}

// scenarioCatalog is the fixed set of canned meals. The MD5 of the first
// uploaded image selects one entry, which is the sole source of
// reproducibility: identical first-image bytes always yield the
// identical scenario.
var scenarioCatalog = []scenario{
	{
		name: "steamed_rice_bowl",
		items: []scenarioItem{
			{"white rice", 0.85, 180, 130, 240, 0.65},
		},
	},
	{
		name: "chicken_rice_plate",
		items: []scenarioItem{
			{"chicken breast", 0.88, 150, 100, 200, 0.70},
			{"white rice", 0.85, 180, 130, 240, 0.65},
			{"cucumber", 0.66, 40, 20, 70, 0.55},
		},
	},
	{
		name: "grilled_salmon_greens",
		items: []scenarioItem{
			{"salmon", 0.82, 160, 120, 210, 0.62},
			{"broccoli", 0.80, 200, 150, 250, 0.60},
		},
	},
	{
		name: "dressed_garden_salad",
		items: []scenarioItem{
			{"spinach", 0.75, 80, 50, 120, 0.58},
			{"tomato", 0.78, 60, 40, 90, 0.60},
			{"olive oil", 0.70, 15, 10, 20, 0.50},
		},
		warnings: []string{domain.WarningOilSauce},
	},
	{
		name: "mixed_grain_bowl",
		items: []scenarioItem{
			{"mixed grain rice", 0.72, 200, 150, 260, 0.55},
			{"boiled egg", 0.81, 55, 45, 70, 0.68},
		},
	},
}

// DeterministicDetector is the placeholder analysis engine: a stable
// hash of the first image selects a canned scenario, so the client can
// iterate against reproducible output without a trained model.
// It is pure computation over in-memory bytes and is safe for
// concurrent use.
type DeterministicDetector struct {
	cfg    config.AnalysisConfig
	logger *logger.Logger
}

// NewDeterministicDetector creates the hash-based placeholder detector.
// Parameters:
//   - cfg: confidence policy constants.
//   - log: logger instance.
// Returns:
//   - *DeterministicDetector: initialized detector.
func NewDeterministicDetector(cfg config.AnalysisConfig, log *logger.Logger) *DeterministicDetector {
	return &DeterministicDetector{cfg: cfg, logger: log}
}

// Detect maps the uploaded images to a canned scenario and applies the
// photo-count confidence policy. Macros are left zero for the nutrition
// resolver to fill.
// Parameters:
//   - ctx: request context (used for logging only; no I/O happens).
//   - images: ordered raw image buffers, at least one.
//   - meta: optional capture metadata.
// Returns:
//   - *domain.AnalysisResult: detection result without macros.
//   - error: non-nil only when images is empty.
func (d *DeterministicDetector) Detect(ctx context.Context, images [][]byte, meta *domain.AnalysisMetadata) (*domain.AnalysisResult, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("at least one image required")
	}

	photoCount := len(images)
	if meta != nil && meta.Capture.PhotoCount != nil {
		photoCount = *meta.Capture.PhotoCount
	}

	sc := scenarioCatalog[scenarioIndex(images[0])]

	items := make([]domain.DetectedItem, 0, len(sc.items))
	var confidenceSum float64
	for i, tpl := range sc.items {
		labelConf := d.adjustConfidence(tpl.labelConfidence, photoCount)
		gramsConf := d.adjustConfidence(tpl.gramsConfidence, photoCount)
		items = append(items, domain.DetectedItem{
			ItemID:          fmt.Sprintf("tmp-%d", i+1),
			Label:           tpl.label,
			LabelConfidence: labelConf,
			GramsEstimate:   tpl.gramsEstimate,
			GramsRange:      domain.GramsRange{Min: tpl.gramsMin, Max: tpl.gramsMax},
			GramsConfidence: gramsConf,
		})
		confidenceSum += (labelConf + gramsConf) / 2
	}

	overall := round2(confidenceSum / float64(len(sc.items)))
	needsMore := overall < d.cfg.ConfidenceThreshold

	result := &domain.AnalysisResult{
		OverallConfidence:  overall,
		NeedsMorePhotos:    needsMore,
		SuggestedNextShots: []string{},
		Items:              items,
		Warnings:           append([]string{}, sc.warnings...),
	}
	if needsMore {
		result.SuggestedNextShots = d.suggestShots(meta)
	}

	d.logger.WithFields(logger.Fields{
		"scenario":    sc.name,
		"photo_count": photoCount,
	}).Debugf("Deterministic detection: overall=%.2f, needs_more=%v", overall, needsMore)

	return result, nil
}

// scenarioIndex hashes the first image's bytes and reduces the digest,
// read as a big-endian integer, modulo the catalog size.
func scenarioIndex(firstImage []byte) int {
	sum := md5.Sum(firstImage)
	h := new(big.Int).SetBytes(sum[:])
	return int(new(big.Int).Mod(h, big.NewInt(int64(len(scenarioCatalog)))).Int64())
}

// adjustConfidence applies the photo-count policy to a baseline value:
// a bonus at or above the preferred count, a penalty below it.
func (d *DeterministicDetector) adjustConfidence(base float64, photoCount int) float64 {
	var adjusted float64
	if photoCount >= d.cfg.PreferredPhotos {
		adjusted = base + d.cfg.PhotoBonus
	} else {
		adjusted = base - d.cfg.PhotoPenalty
	}
	return round2(clamp01(adjusted))
}

// suggestShots returns the next camera angles in catalog order. When the
// client reported how many photos it took, the first photo_count angles
// are assumed covered and skipped. The reported count is clamped to the
// catalog bounds; intake validates it, but the detector must stay safe
// for any caller. Always returns at least one angle: a client asked for
// more photos needs somewhere to point the camera.
func (d *DeterministicDetector) suggestShots(meta *domain.AnalysisMetadata) []string {
	covered := 0
	if meta != nil && meta.Capture.PhotoCount != nil {
		covered = *meta.Capture.PhotoCount
	}
	if covered < 0 {
		covered = 0
	}
	if covered > len(angleCatalog) {
		covered = len(angleCatalog)
	}

	shots := make([]string, 0, d.cfg.MaxSuggestedShots)
	for _, angle := range angleCatalog[covered:] {
		if len(shots) == d.cfg.MaxSuggestedShots {
			break
		}
		shots = append(shots, angle)
	}
	if len(shots) == 0 {
		shots = append(shots, angleCatalog[len(angleCatalog)-1])
	}
	return shots
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// round2 rounds half-up to 2 decimal places to keep confidences stable
// across JSON round-trips.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
