package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/kenlim/foodvision/internal/config"
	"github.com/kenlim/foodvision/internal/domain"
	"github.com/kenlim/foodvision/internal/logger"
)

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		ConfidenceThreshold: 0.70,
		MinPhotos:           3,
		MaxPhotos:           8,
		PreferredPhotos:     5,
		PhotoBonus:          0.05,
		PhotoPenalty:        0.08,
		MaxSuggestedShots:   3,
	}
}

// imageForScenario brute-forces a payload whose hash selects the given
// catalog entry, so tests can pin behavior to a known scenario without
// hard-coding hash values.
func imageForScenario(t *testing.T, want int) []byte {
	t.Helper()
	for i := 0; i < 10000; i++ {
		payload := []byte(fmt.Sprintf("photo-%d", i))
		if scenarioIndex(payload) == want {
			return payload
		}
	}
	t.Fatalf("no payload found for scenario %d", want)
	return nil
}

func nImages(first []byte, n int) [][]byte {
	images := make([][]byte, n)
	images[0] = first
	for i := 1; i < n; i++ {
		images[i] = []byte(fmt.Sprintf("filler-%d", i))
	}
	return images
}

func TestDeterministicDetector_Reproducible(t *testing.T) {
	d := NewDeterministicDetector(testAnalysisConfig(), logger.GetDefault())
	images := nImages([]byte("same bytes every time"), 4)

	first, err := d.Detect(context.Background(), images, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := d.Detect(context.Background(), images, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("identical inputs produced different results:\n%s\n%s", a, b)
	}
}

func TestDeterministicDetector_NoImages(t *testing.T) {
	d := NewDeterministicDetector(testAnalysisConfig(), logger.GetDefault())

	if _, err := d.Detect(context.Background(), nil, nil); err == nil {
		t.Error("expected error for empty image set")
	}
}

func TestDeterministicDetector_PhotoCountPolicy(t *testing.T) {
	d := NewDeterministicDetector(testAnalysisConfig(), logger.GetDefault())
	first := imageForScenario(t, 0) // single-item rice scenario

	// Below the preferred count the penalty applies:
	// (0.85-0.08 + 0.65-0.08) / 2 = 0.67 < 0.70.
	low, err := d.Detect(context.Background(), nImages(first, 3), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if low.OverallConfidence != 0.67 {
		t.Errorf("expected overall 0.67 at 3 photos, got %v", low.OverallConfidence)
	}
	if !low.NeedsMorePhotos {
		t.Error("expected needs_more_photos at 3 photos")
	}
	if len(low.SuggestedNextShots) == 0 {
		t.Error("expected suggested shots when more photos are needed")
	}
	if len(low.SuggestedNextShots) > 3 {
		t.Errorf("suggested shots exceed cap: %v", low.SuggestedNextShots)
	}

	// At the preferred count the bonus applies:
	// (0.85+0.05 + 0.65+0.05) / 2 = 0.80 >= 0.70.
	high, err := d.Detect(context.Background(), nImages(first, 5), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high.OverallConfidence != 0.80 {
		t.Errorf("expected overall 0.80 at 5 photos, got %v", high.OverallConfidence)
	}
	if high.NeedsMorePhotos {
		t.Error("did not expect needs_more_photos at 5 photos")
	}
	if len(high.SuggestedNextShots) != 0 {
		t.Errorf("expected no suggested shots, got %v", high.SuggestedNextShots)
	}

	if high.OverallConfidence <= low.OverallConfidence {
		t.Errorf("more photos must not lower confidence: %v <= %v",
			high.OverallConfidence, low.OverallConfidence)
	}
}

func TestDeterministicDetector_ThresholdBoundary(t *testing.T) {
	first := imageForScenario(t, 0) // overall 0.67 at 3 photos

	// An overall exactly at the threshold is good enough.
	cfg := testAnalysisConfig()
	cfg.ConfidenceThreshold = 0.67
	atThreshold, err := NewDeterministicDetector(cfg, logger.GetDefault()).
		Detect(context.Background(), nImages(first, 3), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atThreshold.NeedsMorePhotos {
		t.Error("overall equal to the threshold must not request more photos")
	}

	cfg.ConfidenceThreshold = 0.68
	below, err := NewDeterministicDetector(cfg, logger.GetDefault()).
		Detect(context.Background(), nImages(first, 3), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !below.NeedsMorePhotos {
		t.Error("overall below the threshold must request more photos")
	}
}

func TestDeterministicDetector_MetadataPhotoCountOverride(t *testing.T) {
	d := NewDeterministicDetector(testAnalysisConfig(), logger.GetDefault())
	first := imageForScenario(t, 0)

	// Metadata claims 5 photos even though only 3 arrived; the reported
	// count wins.
	count := 5
	meta := &domain.AnalysisMetadata{
		Capture: domain.CaptureInfo{PhotoCount: &count},
	}
	result, err := d.Detect(context.Background(), nImages(first, 3), meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OverallConfidence != 0.80 {
		t.Errorf("expected overall 0.80 with reported count 5, got %v", result.OverallConfidence)
	}
}

func TestDeterministicDetector_NegativePhotoCountReported(t *testing.T) {
	d := NewDeterministicDetector(testAnalysisConfig(), logger.GetDefault())
	first := imageForScenario(t, 0)

	// A hostile or buggy client can report any count; the detector must
	// not slice the angle catalog out of range.
	count := -1
	meta := &domain.AnalysisMetadata{
		Capture: domain.CaptureInfo{PhotoCount: &count},
	}
	result, err := d.Detect(context.Background(), nImages(first, 3), meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Below the preferred count, so the penalty applies as for any low count.
	if result.OverallConfidence != 0.67 {
		t.Errorf("overall = %v, want 0.67", result.OverallConfidence)
	}
	if !result.NeedsMorePhotos {
		t.Fatal("expected needs_more_photos")
	}
	if len(result.SuggestedNextShots) == 0 {
		t.Fatal("expected suggested shots")
	}
	if result.SuggestedNextShots[0] != "top_down" {
		t.Errorf("first shot = %q, want top_down (no angles covered)", result.SuggestedNextShots[0])
	}
}

func TestDeterministicDetector_SuggestionsNeverEmptyWhenMoreNeeded(t *testing.T) {
	d := NewDeterministicDetector(testAnalysisConfig(), logger.GetDefault())
	first := imageForScenario(t, 0)

	// Reported counts at or beyond the angle catalog would exhaust the
	// skip logic; the client still needs at least one angle to act on.
	for _, count := range []int{4, 9} {
		count := count
		meta := &domain.AnalysisMetadata{
			Capture: domain.CaptureInfo{PhotoCount: &count},
		}
		result, err := d.Detect(context.Background(), nImages(first, 3), meta)
		if err != nil {
			t.Fatalf("unexpected error at count %d: %v", count, err)
		}
		if !result.NeedsMorePhotos {
			continue
		}
		if len(result.SuggestedNextShots) == 0 {
			t.Errorf("count %d: needs_more_photos with no suggested shots", count)
		}
	}

	// count 4 is below the preferred 5, so more photos are needed and the
	// fallback angle must appear.
	count := 4
	meta := &domain.AnalysisMetadata{
		Capture: domain.CaptureInfo{PhotoCount: &count},
	}
	result, err := d.Detect(context.Background(), nImages(first, 3), meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NeedsMorePhotos {
		t.Fatal("expected needs_more_photos at count 4")
	}
	if len(result.SuggestedNextShots) != 1 || result.SuggestedNextShots[0] != "closeup" {
		t.Errorf("suggested shots = %v, want [closeup]", result.SuggestedNextShots)
	}
}

func TestDeterministicDetector_SuggestedShotsSkipCovered(t *testing.T) {
	d := NewDeterministicDetector(testAnalysisConfig(), logger.GetDefault())
	first := imageForScenario(t, 0)

	count := 2
	meta := &domain.AnalysisMetadata{
		Capture: domain.CaptureInfo{PhotoCount: &count},
	}
	result, err := d.Detect(context.Background(), nImages(first, 3), meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NeedsMorePhotos {
		t.Fatal("expected needs_more_photos with reported count 2")
	}

	want := []string{"lower_right_angle", "closeup"}
	if len(result.SuggestedNextShots) != len(want) {
		t.Fatalf("expected %v, got %v", want, result.SuggestedNextShots)
	}
	for i, angle := range want {
		if result.SuggestedNextShots[i] != angle {
			t.Errorf("shot %d: expected %q, got %q", i, angle, result.SuggestedNextShots[i])
		}
	}
}

func TestDeterministicDetector_AllScenariosWellFormed(t *testing.T) {
	d := NewDeterministicDetector(testAnalysisConfig(), logger.GetDefault())

	for idx := range scenarioCatalog {
		idx := idx
		t.Run(scenarioCatalog[idx].name, func(t *testing.T) {
			first := imageForScenario(t, idx)

			for _, n := range []int{3, 5, 8} {
				result, err := d.Detect(context.Background(), nImages(first, n), nil)
				if err != nil {
					t.Fatalf("unexpected error at %d photos: %v", n, err)
				}

				if result.OverallConfidence < 0 || result.OverallConfidence > 1 {
					t.Errorf("overall confidence out of range: %v", result.OverallConfidence)
				}
				if len(result.Items) == 0 {
					t.Fatal("expected at least one item")
				}

				for i, item := range result.Items {
					if item.ItemID != fmt.Sprintf("tmp-%d", i+1) {
						t.Errorf("item %d: unexpected id %q", i, item.ItemID)
					}
					if item.Label == "" {
						t.Errorf("item %d: empty label", i)
					}
					if item.LabelConfidence < 0 || item.LabelConfidence > 1 {
						t.Errorf("item %d: label confidence out of range: %v", i, item.LabelConfidence)
					}
					if item.GramsConfidence < 0 || item.GramsConfidence > 1 {
						t.Errorf("item %d: grams confidence out of range: %v", i, item.GramsConfidence)
					}
					if item.GramsRange.Min > item.GramsEstimate || item.GramsEstimate > item.GramsRange.Max {
						t.Errorf("item %d: estimate %d outside range [%d, %d]",
							i, item.GramsEstimate, item.GramsRange.Min, item.GramsRange.Max)
					}
				}
			}
		})
	}
}

func TestDeterministicDetector_OilScenarioWarns(t *testing.T) {
	d := NewDeterministicDetector(testAnalysisConfig(), logger.GetDefault())
	first := imageForScenario(t, 3) // dressed salad with olive oil

	result, err := d.Detect(context.Background(), nImages(first, 5), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, w := range result.Warnings {
		if w == domain.WarningOilSauce {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %q warning, got %v", domain.WarningOilSauce, result.Warnings)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.375, 0.38},
		{0.125, 0.13},
		{0.674, 0.67},
		{0.0, 0.0},
		{1.0, 1.0},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
