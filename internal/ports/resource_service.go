package ports

import (
	"context"

	"github.com/Vovarama1992/archive/internal/models"
)

type CreateResourceInput struct {
	Title    string          `validate:"required"`
	Author   string          `validate:"required"`
	Category models.Category `validate:"required,oneof=books video audio"`

	// books
	FileName string
	File     []byte

	// video / audio
	YouTubeURL   string
	TwitterURL   string
	InstagramURL string
	TikTokURL    string

	// RoomID receives upload progress events when set.
	RoomID string
}

type ResourceService interface {
	Create(ctx context.Context, in CreateResourceInput) (*models.Resource, error)
	List(ctx context.Context, f ListFilter) ([]models.Resource, error)
	Delete(ctx context.Context, id int64) error
	Events() <-chan models.UploadEvent
}
