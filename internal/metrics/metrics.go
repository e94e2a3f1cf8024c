package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResourcesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_resources_created_total",
			Help: "Resources created, by category",
		},
		[]string{"category"},
	)

	ResourcesDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_resources_deleted_total",
			Help: "Resources deleted, by category",
		},
		[]string{"category"},
	)

	// Blobs left behind when storage deletion fails but the row is removed anyway.
	StorageDeleteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "archive_storage_delete_failures_total",
			Help: "Failed best-effort blob deletions",
		},
	)

	UploadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_upload_failures_total",
			Help: "Failed uploads, by pipeline stage",
		},
		[]string{"stage"},
	)

	ThumbnailDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "archive_thumbnail_duration_seconds",
			Help:    "Time to rasterize and encode a PDF first page",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"result"},
	)
)
