package ports

import "context"

type ThumbnailGenerator interface {
	Generate(ctx context.Context, pdf []byte, scale float64) (png []byte, err error)
	GenerateFile(ctx context.Context, name string, pdf []byte) (thumbName string, png []byte, err error)
}
