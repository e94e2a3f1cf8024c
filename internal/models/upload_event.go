package models

// UploadStage names a step of the book upload pipeline.
type UploadStage string

const (
	StagePDFUploaded        UploadStage = "pdf_uploaded"
	StageThumbnailGenerated UploadStage = "thumbnail_generated"
	StageThumbnailUploaded  UploadStage = "thumbnail_uploaded"
	StageSaved              UploadStage = "saved"
	StageFailed             UploadStage = "failed"
)

type UploadEvent struct {
	RoomID     string      `json:"-"`
	Stage      UploadStage `json:"stage"`
	ResourceID int64       `json:"resourceId,omitempty"`
	Error      string      `json:"error,omitempty"`
}
