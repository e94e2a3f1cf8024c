package infra

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Vovarama1992/archive/internal/models"
	"github.com/Vovarama1992/archive/internal/ports"
)

const resourcesTable = "resources"

var resourceColumns = []string{
	"id", "title", "author", "category", "created_at",
	"pdf_url", "file_path", "thumbnail_url",
	"youtube_url", "twitter_url", "instagram_url", "tiktok_url",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// likeEscaper makes search text match literally; backslash is the default
// LIKE escape character in Postgres.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PostgresResourceRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresResourceRepo(pool *pgxpool.Pool) ports.ResourceRepository {
	return &PostgresResourceRepo{pool: pool}
}

func (r *PostgresResourceRepo) Insert(ctx context.Context, res *models.Resource) (*models.Resource, error) {
	query, args, err := psql.Insert(resourcesTable).
		Columns(
			"title", "author", "category",
			"pdf_url", "file_path", "thumbnail_url",
			"youtube_url", "twitter_url", "instagram_url", "tiktok_url",
		).
		Values(
			res.Title, res.Author, string(res.Category),
			res.PDFURL, res.FilePath, res.ThumbnailURL,
			res.YouTubeURL, res.TwitterURL, res.InstagramURL, res.TikTokURL,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&res.ID, &res.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert resource: %w", err)
	}
	return res, nil
}

func (r *PostgresResourceRepo) List(ctx context.Context, f ports.ListFilter) ([]models.Resource, error) {
	q := listQuery(f)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	start := time.Now()
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	out := make([]models.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	log.Printf("[DB][LIST] category=%q q=%q rows=%d dur=%s", f.Category, f.Query, len(out), time.Since(start))
	return out, nil
}

func listQuery(f ports.ListFilter) sq.SelectBuilder {
	q := psql.Select(resourceColumns...).
		From(resourcesTable).
		OrderBy("created_at DESC", "id DESC")

	if f.Category != "" {
		q = q.Where(sq.Eq{"category": string(f.Category)})
	}
	if f.Query != "" {
		like := "%" + likeEscaper.Replace(f.Query) + "%"
		q = q.Where(sq.Or{
			sq.ILike{"title": like},
			sq.ILike{"author": like},
		})
	}
	return q
}

func (r *PostgresResourceRepo) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	query, args, err := psql.Select(resourceColumns...).
		From(resourcesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get: %w", err)
	}

	res, err := scanResource(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resource by id: %w", err)
	}
	return res, nil
}

func (r *PostgresResourceRepo) DeleteByID(ctx context.Context, id int64) error {
	query, args, err := psql.Delete(resourcesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}

func scanResource(row pgx.Row) (*models.Resource, error) {
	var (
		res      models.Resource
		category string
	)
	err := row.Scan(
		&res.ID,
		&res.Title,
		&res.Author,
		&category,
		&res.CreatedAt,
		&res.PDFURL,
		&res.FilePath,
		&res.ThumbnailURL,
		&res.YouTubeURL,
		&res.TwitterURL,
		&res.InstagramURL,
		&res.TikTokURL,
	)
	if err != nil {
		return nil, err
	}
	res.Category = models.Category(category)
	return &res, nil
}
