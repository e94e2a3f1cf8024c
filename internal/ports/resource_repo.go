package ports

import (
	"context"

	"github.com/Vovarama1992/archive/internal/models"
)

type ListFilter struct {
	Category models.Category // empty means every category
	Query    string          // case-insensitive match on title or author
}

type ResourceRepository interface {
	Insert(ctx context.Context, r *models.Resource) (*models.Resource, error)
	List(ctx context.Context, f ListFilter) ([]models.Resource, error)
	GetByID(ctx context.Context, id int64) (*models.Resource, error)
	DeleteByID(ctx context.Context, id int64) error
}
