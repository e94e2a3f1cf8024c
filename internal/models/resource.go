package models

import "time"

type Category string

const (
	CategoryBooks Category = "books"
	CategoryVideo Category = "video"
	CategoryAudio Category = "audio"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryBooks, CategoryVideo, CategoryAudio:
		return true
	}
	return false
}

type Resource struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Author    string    `db:"author" json:"author"`
	Category  Category  `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// books
	PDFURL       *string `db:"pdf_url" json:"pdf_url"`
	FilePath     *string `db:"file_path" json:"file_path"`      // storage key, needed for deletion
	ThumbnailURL *string `db:"thumbnail_url" json:"thumbnail_url"`

	// video / audio
	YouTubeURL   *string `db:"youtube_url" json:"youtube_url"`
	TwitterURL   *string `db:"twitter_url" json:"twitter_url"`
	InstagramURL *string `db:"instagram_url" json:"instagram_url"`
	TikTokURL    *string `db:"tiktok_url" json:"tiktok_url"`
}
