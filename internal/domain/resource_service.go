package domain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Vovarama1992/archive/internal/metrics"
	"github.com/Vovarama1992/archive/internal/models"
	"github.com/Vovarama1992/archive/internal/ports"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrMissingFile      = fmt.Errorf("%w: a pdf file is required for books", ErrInvalidInput)
	ErrMissingEmbedURL  = fmt.Errorf("%w: a youtube, twitter, instagram or tiktok url is required", ErrInvalidInput)
	ErrResourceNotFound = errors.New("resource not found")
)

const (
	folderBooks      = "books"
	folderThumbnails = "thumbnails"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

type ResourceService struct {
	repo     ports.ResourceRepository
	storage  ports.BlobStorage
	thumbs   ports.ThumbnailGenerator
	validate *validator.Validate

	now    func() time.Time
	events chan models.UploadEvent
}

func NewResourceService(
	repo ports.ResourceRepository,
	storage ports.BlobStorage,
	thumbs ports.ThumbnailGenerator,
) *ResourceService {
	return &ResourceService{
		repo:     repo,
		storage:  storage,
		thumbs:   thumbs,
		validate: validator.New(),
		now:      time.Now,
		events:   make(chan models.UploadEvent, 100),
	}
}

func (s *ResourceService) Events() <-chan models.UploadEvent { return s.events }

// ========================================================================
// CREATE
// ========================================================================
func (s *ResourceService) Create(ctx context.Context, in ports.CreateResourceInput) (*models.Resource, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)

	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var (
		res *models.Resource
		err error
	)
	if in.Category == models.CategoryBooks {
		res, err = s.createBook(ctx, in)
	} else {
		res, err = s.createEmbed(ctx, in)
	}
	if err != nil {
		return nil, err
	}

	metrics.ResourcesCreated.WithLabelValues(string(res.Category)).Inc()
	return res, nil
}

// createBook runs PDF upload, thumbnail, thumbnail upload and insert in that
// order. Nothing is rolled back: a failure after the first step leaves the
// PDF blob orphaned in storage.
func (s *ResourceService) createBook(ctx context.Context, in ports.CreateResourceInput) (*models.Resource, error) {
	if len(in.File) == 0 {
		return nil, ErrMissingFile
	}

	start := time.Now()
	log.Printf("[BOOK][START] title=%q file=%q bytes=%d", in.Title, in.FileName, len(in.File))

	pdfKey := s.storageKey(folderBooks, in.FileName)
	pdfURL, err := s.storage.PutFile(ctx, pdfKey, "application/pdf", in.File)
	if err != nil {
		return nil, s.fail(in.RoomID, "upload_pdf", fmt.Errorf("upload pdf: %w", err))
	}
	s.emit(models.UploadEvent{RoomID: in.RoomID, Stage: models.StagePDFUploaded})

	thumbName, thumb, err := s.thumbs.GenerateFile(ctx, in.FileName, in.File)
	if err != nil {
		log.Printf("[BOOK][ORPHAN] key=%s", pdfKey)
		return nil, s.fail(in.RoomID, "thumbnail", fmt.Errorf("generate thumbnail: %w", err))
	}
	s.emit(models.UploadEvent{RoomID: in.RoomID, Stage: models.StageThumbnailGenerated})

	thumbKey := s.storageKey(folderThumbnails, thumbName)
	thumbURL, err := s.storage.PutFile(ctx, thumbKey, "image/png", thumb)
	if err != nil {
		log.Printf("[BOOK][ORPHAN] key=%s", pdfKey)
		return nil, s.fail(in.RoomID, "upload_thumbnail", fmt.Errorf("upload thumbnail: %w", err))
	}
	s.emit(models.UploadEvent{RoomID: in.RoomID, Stage: models.StageThumbnailUploaded})

	res, err := s.repo.Insert(ctx, &models.Resource{
		Title:        in.Title,
		Author:       in.Author,
		Category:     models.CategoryBooks,
		PDFURL:       &pdfURL,
		FilePath:     &pdfKey,
		ThumbnailURL: &thumbURL,
	})
	if err != nil {
		log.Printf("[BOOK][ORPHAN] key=%s key=%s", pdfKey, thumbKey)
		return nil, s.fail(in.RoomID, "insert", fmt.Errorf("save resource: %w", err))
	}
	s.emit(models.UploadEvent{RoomID: in.RoomID, Stage: models.StageSaved, ResourceID: res.ID})

	log.Printf("[BOOK][DONE] id=%d dur=%s", res.ID, time.Since(start))
	return res, nil
}

func (s *ResourceService) createEmbed(ctx context.Context, in ports.CreateResourceInput) (*models.Resource, error) {
	r := &models.Resource{
		Title:        in.Title,
		Author:       in.Author,
		Category:     in.Category,
		YouTubeURL:   optional(in.YouTubeURL),
		TwitterURL:   optional(in.TwitterURL),
		InstagramURL: optional(in.InstagramURL),
		TikTokURL:    optional(in.TikTokURL),
	}
	if r.YouTubeURL == nil && r.TwitterURL == nil && r.InstagramURL == nil && r.TikTokURL == nil {
		return nil, ErrMissingEmbedURL
	}

	res, err := s.repo.Insert(ctx, r)
	if err != nil {
		return nil, s.fail(in.RoomID, "insert", fmt.Errorf("save resource: %w", err))
	}
	s.emit(models.UploadEvent{RoomID: in.RoomID, Stage: models.StageSaved, ResourceID: res.ID})

	log.Printf("[%s][DONE] id=%d", strings.ToUpper(string(res.Category)), res.ID)
	return res, nil
}

// ========================================================================
// LIST
// ========================================================================
func (s *ResourceService) List(ctx context.Context, f ports.ListFilter) ([]models.Resource, error) {
	if f.Category == "all" {
		f.Category = ""
	}
	if f.Category != "" && !f.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, f.Category)
	}
	f.Query = strings.TrimSpace(f.Query)

	return s.repo.List(ctx, f)
}

// ========================================================================
// DELETE
// ========================================================================

// Delete removes the stored blobs first and then the row. Blob removal is
// best effort: its failure is logged and the row is deleted anyway.
func (s *ResourceService) Delete(ctx context.Context, id int64) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load resource: %w", err)
	}
	if res == nil {
		return ErrResourceNotFound
	}

	var keys []string
	if res.FilePath != nil && *res.FilePath != "" {
		keys = append(keys, *res.FilePath)
	}
	if k := thumbnailKey(res.ThumbnailURL); k != "" {
		keys = append(keys, k)
	}

	if len(keys) > 0 {
		if err := s.storage.DeleteFiles(ctx, keys); err != nil {
			metrics.StorageDeleteFailures.Inc()
			log.Printf("[DELETE][STORAGE][ERR] id=%d keys=%v err=%v", id, keys, err)
		} else {
			log.Printf("[DELETE][STORAGE][OK] id=%d keys=%v", id, keys)
		}
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}

	metrics.ResourcesDeleted.WithLabelValues(string(res.Category)).Inc()
	log.Printf("[DELETE][OK] id=%d", id)
	return nil
}

// ========================================================================
// HELPERS
// ========================================================================
func (s *ResourceService) storageKey(folder, name string) string {
	return fmt.Sprintf("%s/%d_%s", folder, s.now().UnixMilli(), unsafeKeyChars.ReplaceAllString(name, "_"))
}

// thumbnailKey recovers the storage key from a public thumbnail URL.
func thumbnailKey(u *string) string {
	if u == nil || !strings.Contains(*u, "/"+folderThumbnails+"/") {
		return ""
	}
	parts := strings.Split(*u, "/"+folderThumbnails+"/")
	if parts[1] == "" {
		return ""
	}
	return folderThumbnails + "/" + parts[1]
}

func (s *ResourceService) fail(roomID, stage string, err error) error {
	metrics.UploadFailures.WithLabelValues(stage).Inc()
	log.Printf("[UPLOAD][FAIL] stage=%s err=%v", stage, err)
	s.emit(models.UploadEvent{RoomID: roomID, Stage: models.StageFailed, Error: err.Error()})
	return err
}

// emit never blocks the upload; events for rooms nobody listens to are dropped.
func (s *ResourceService) emit(ev models.UploadEvent) {
	if ev.RoomID == "" {
		return
	}
	select {
	case s.events <- ev:
	default:
		log.Printf("[EVENTS][DROP] room=%s stage=%s", ev.RoomID, ev.Stage)
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
