package entity

import "context"

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate . VideoStore
type VideoStore interface {
	GetVideo(ctx context.Context, videoID string) (Video, error)
	SetVideo(ctx context.Context, videoID string, video Video) error
	UpdateVideo(ctx context.Context, videoID string, updater func(Video) (Video, error)) error
}
