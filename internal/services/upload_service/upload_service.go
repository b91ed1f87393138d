package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"maison_atelier/internal/domain/models"
	"maison_atelier/internal/lib/logger/sl"
	"maison_atelier/internal/storage"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// Uploader is the outbound side of the broker, satisfied by the
// gateway client.
type Uploader interface {
	UploadImages(ctx context.Context, files []models.StagedFile) ([]string, error)
}

// UploadService turns locally staged files into persisted, URL
// addressable assets. It validates size and content type before any
// network call instead of trusting the remote service to do it.
type UploadService struct {
	log          *slog.Logger
	uploader     Uploader
	maxSize      int64
	maxDimension int
}

func NewUploadService(log *slog.Logger, uploader Uploader, maxSize int64, maxDimension int) *UploadService {
	return &UploadService{
		log:          log,
		uploader:     uploader,
		maxSize:      maxSize,
		maxDimension: maxDimension,
	}
}

// UploadImage uploads a single staged file and returns its canonical URL.
func (s *UploadService) UploadImage(ctx context.Context, file models.StagedFile) (string, error) {
	const op = "upload_service.UploadImage"

	urls, err := s.UploadImages(ctx, []models.StagedFile{file})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return urls[0], nil
}

// UploadImages uploads a batch in one request. The returned slice is
// ordered to match the input; a shorter response is an error, never a
// silent truncation.
func (s *UploadService) UploadImages(ctx context.Context, files []models.StagedFile) ([]string, error) {
	const op = "upload_service.UploadImages"

	log := s.log.With(
		slog.String("op", op),
		slog.Int("files", len(files)),
	)

	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEmptyUpload)
	}

	prepared := make([]models.StagedFile, 0, len(files))
	for _, f := range files {
		p, err := s.prepare(f)
		if err != nil {
			log.Warn("rejected file", slog.String("name", f.Name), sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		prepared = append(prepared, p)
	}

	log.Info("uploading images")

	urls, err := s.uploader.UploadImages(ctx, prepared)
	if err != nil {
		log.Error("upload failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUploadFailed)
	}
	if len(urls) < len(files) {
		log.Error("upload returned short batch",
			slog.Int("expected", len(files)),
			slog.Int("got", len(urls)),
		)
		return nil, fmt.Errorf("%s: %w", op, storage.ErrPartialUpload)
	}
	for _, u := range urls {
		if u == "" {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUploadFailed)
		}
	}

	log.Info("images uploaded")

	return urls, nil
}

// prepare enforces the size and MIME constraints and downsizes images
// whose pixel dimensions exceed the configured bound.
func (s *UploadService) prepare(file models.StagedFile) (models.StagedFile, error) {
	if len(file.Data) == 0 {
		return models.StagedFile{}, storage.ErrEmptyUpload
	}
	if s.maxSize > 0 && int64(len(file.Data)) > s.maxSize {
		return models.StagedFile{}, storage.ErrFileTooLarge
	}

	mtype := mimetype.Detect(file.Data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return models.StagedFile{}, storage.ErrInvalidFileType
	}

	if s.maxDimension <= 0 {
		return file, nil
	}

	img, err := imaging.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return models.StagedFile{}, storage.ErrInvalidFileType
	}

	bounds := img.Bounds()
	if bounds.Dx() <= s.maxDimension && bounds.Dy() <= s.maxDimension {
		return file, nil
	}

	resized := imaging.Fit(img, s.maxDimension, s.maxDimension, imaging.Lanczos)

	format, err := imaging.FormatFromFilename(file.Name)
	if err != nil {
		format = imaging.JPEG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return models.StagedFile{}, fmt.Errorf("re-encode resized image: %w", err)
	}

	return models.StagedFile{Name: file.Name, Data: buf.Bytes()}, nil
}
