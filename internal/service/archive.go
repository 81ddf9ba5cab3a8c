package service

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"time"

	"github.com/kenlim/foodvision/internal/logger"
	"github.com/kenlim/foodvision/internal/storage"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// PhotoArchiver stores uploaded meal photos in object storage for future
// model training, keyed by content hash so repeated uploads dedupe.
// Archival is strictly best-effort: failures are logged and never
// surfaced to the analyze caller.
type PhotoArchiver struct {
	storage    storage.ObjectStorage
	logger     *logger.Logger
	thumbWidth int
}

// NewPhotoArchiver creates a photo archiver.
// Parameters:
//   - store: object storage client.
//   - thumbWidth: pixel width of generated preview thumbnails.
//   - log: logger instance.
// Returns:
//   - *PhotoArchiver: initialized archiver.
func NewPhotoArchiver(store storage.ObjectStorage, thumbWidth int, log *logger.Logger) *PhotoArchiver {
	return &PhotoArchiver{
		storage:    store,
		logger:     log,
		thumbWidth: thumbWidth,
	}
}

// ArchiveAsync stores the images in the background. The analyze request
// does not wait for, or fail on, archival.
func (a *PhotoArchiver) ArchiveAsync(images [][]byte) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		a.Archive(ctx, images)
	}()
}

// Archive uploads each image and a JPEG thumbnail, skipping content
// already present.
func (a *PhotoArchiver) Archive(ctx context.Context, images [][]byte) {
	for _, img := range images {
		if err := a.archiveOne(ctx, img); err != nil {
			a.logger.WithError(err).Warn("Photo archival failed")
		}
	}
}

func (a *PhotoArchiver) archiveOne(ctx context.Context, img []byte) error {
	sum := md5.Sum(img)
	hash := hex.EncodeToString(sum[:])

	cfg, format, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	rawKey := fmt.Sprintf("raw/%s.%s", hash, format)
	exists, err := a.storage.Exists(ctx, rawKey)
	if err != nil {
		return fmt.Errorf("failed to check object: %w", err)
	}
	if exists {
		return nil
	}

	contentType := "image/" + format
	if err := a.storage.Upload(ctx, rawKey, bytes.NewReader(img), int64(len(img)), contentType); err != nil {
		return fmt.Errorf("failed to upload photo: %w", err)
	}

	thumb, err := a.makeThumbnail(img, cfg)
	if err != nil {
		// The raw photo is already archived; a missing preview is not
		// worth failing over.
		a.logger.WithError(err).Debug("Thumbnail generation failed")
		return nil
	}

	thumbKey := fmt.Sprintf("thumbs/%s.jpg", hash)
	if err := a.storage.Upload(ctx, thumbKey, bytes.NewReader(thumb), int64(len(thumb)), "image/jpeg"); err != nil {
		return fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	logger.With(logger.Fields{logger.FieldSize: len(img)}).Debug(ctx, "Photo archived: key=%s", rawKey)
	return nil
}

// makeThumbnail scales the image down to the configured width, keeping
// the aspect ratio.
func (a *PhotoArchiver) makeThumbnail(img []byte, cfg image.Config) ([]byte, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	width := a.thumbWidth
	if width <= 0 || width > cfg.Width {
		width = cfg.Width
	}
	height := cfg.Height * width / cfg.Width
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
