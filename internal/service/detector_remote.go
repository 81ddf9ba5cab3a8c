package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/kenlim/foodvision/internal/config"
	"github.com/kenlim/foodvision/internal/domain"
)

// RemoteDetector posts meal photos to an external inference endpoint and
// maps the response into the shared analysis contract. It is the second
// Detector variant; swapping it in changes nothing for callers.
type RemoteDetector struct {
	client   *resty.Client
	endpoint string
	model    string
}

// NewRemoteDetector creates an HTTP-backed detector.
// Parameters:
//   - cfg: detector configuration including endpoint and credentials.
// Returns:
//   - *RemoteDetector: initialized detector.
//   - error: non-nil when no endpoint is configured.
func NewRemoteDetector(cfg *config.DetectorConfig) (*RemoteDetector, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("remote detector requires detector.endpoint")
	}

	client := resty.New()
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	client.SetHeader("Content-Type", "application/json")

	return &RemoteDetector{
		client:   client,
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
	}, nil
}

// Inference API request/response structures
type inferenceRequest struct {
	Model    string                   `json:"model,omitempty"`
	Images   []string                 `json:"images"`
	Metadata *domain.AnalysisMetadata `json:"metadata,omitempty"`
}

type inferenceItem struct {
	Label           string  `json:"label"`
	LabelConfidence float64 `json:"label_confidence"`
	GramsEstimate   int     `json:"grams_estimate"`
	GramsMin        int     `json:"grams_min"`
	GramsMax        int     `json:"grams_max"`
	GramsConfidence float64 `json:"grams_confidence"`
}

type inferenceResponse struct {
	OverallConfidence  float64         `json:"overall_confidence"`
	NeedsMorePhotos    bool            `json:"needs_more_photos"`
	SuggestedNextShots []string        `json:"suggested_next_shots"`
	Items              []inferenceItem `json:"items"`
	Warnings           []string        `json:"warnings"`
	Detail             string          `json:"detail,omitempty"`
}

// Detect calls the inference endpoint with base64-encoded images.
// Parameters:
//   - ctx: request context for cancellation.
//   - images: ordered raw image buffers.
//   - meta: optional capture metadata, forwarded verbatim.
// Returns:
//   - *domain.AnalysisResult: detection result without macros.
//   - error: non-nil on transport or API failure.
func (d *RemoteDetector) Detect(ctx context.Context, images [][]byte, meta *domain.AnalysisMetadata) (*domain.AnalysisResult, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("at least one image required")
	}

	encoded := make([]string, len(images))
	for i, img := range images {
		encoded[i] = base64.StdEncoding.EncodeToString(img)
	}

	req := inferenceRequest{
		Model:    d.model,
		Images:   encoded,
		Metadata: meta,
	}

	var resp inferenceResponse
	httpResp, err := d.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(d.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to call inference endpoint: %w", err)
	}

	if httpResp.StatusCode() != 200 {
		if resp.Detail != "" {
			return nil, fmt.Errorf("inference API error: %s", resp.Detail)
		}
		return nil, fmt.Errorf("inference API error: status %d", httpResp.StatusCode())
	}

	items := make([]domain.DetectedItem, 0, len(resp.Items))
	for i, it := range resp.Items {
		items = append(items, domain.DetectedItem{
			ItemID:          fmt.Sprintf("tmp-%d", i+1),
			Label:           it.Label,
			LabelConfidence: it.LabelConfidence,
			GramsEstimate:   it.GramsEstimate,
			GramsRange:      domain.GramsRange{Min: it.GramsMin, Max: it.GramsMax},
			GramsConfidence: it.GramsConfidence,
		})
	}

	result := &domain.AnalysisResult{
		OverallConfidence:  resp.OverallConfidence,
		NeedsMorePhotos:    resp.NeedsMorePhotos,
		SuggestedNextShots: resp.SuggestedNextShots,
		Items:              items,
		Warnings:           resp.Warnings,
	}
	if result.SuggestedNextShots == nil {
		result.SuggestedNextShots = []string{}
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	return result, nil
}
