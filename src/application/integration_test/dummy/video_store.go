package dummy

import (
	"context"
	"sync"

	"subtitle-workers/src/application/videos/entity"
)

var _ entity.VideoStore = &VideoStore{}

func NewDummyVideoStore() *VideoStore {
	return &VideoStore{
		Unavailable: false,
		State:       make(map[string]entity.Video),
	}
}

type VideoStore struct {
	Unavailable bool
	State       map[string]entity.Video
	mutex       sync.RWMutex
}

func (v *VideoStore) GetVideo(_ context.Context, videoID string) (entity.Video, error) {
	if v.Unavailable {
		return entity.Video{}, NetworkFailure
	}

	v.mutex.RLock()
	defer v.mutex.RUnlock()

	video, ok := v.State[videoID]
	if !ok {
		return entity.Video{}, NotFound
	}

	return video, nil
}

func (v *VideoStore) SetVideo(_ context.Context, videoID string, video entity.Video) error {
	if v.Unavailable {
		return NetworkFailure
	}

	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.State[videoID] = video

	return nil
}

func (v *VideoStore) UpdateVideo(ctx context.Context, videoID string, updater func(entity.Video) (entity.Video, error)) error {
	video, err := v.GetVideo(ctx, videoID)
	if err != nil {
		return err
	}

	updatedVideo, err := updater(video)
	if err != nil {
		return err
	}

	return v.SetVideo(ctx, videoID, updatedVideo)
}
