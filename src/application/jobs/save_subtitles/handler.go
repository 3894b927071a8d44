package save_subtitles

import (
	"context"
	"encoding/json"
	"fmt"

	cloudstorage "subtitle-workers/src/application/cloud_storage/entity"
	"subtitle-workers/src/application/cloud_storage/store"
	"subtitle-workers/src/application/jobs/job_message"
	"subtitle-workers/src/application/segments"
	"subtitle-workers/src/application/subtitles"
	"subtitle-workers/src/application/videos/entity"
	"subtitle-workers/src/application/worker"
	"subtitle-workers/src/lib/werror"

	"github.com/apex/log"
	"github.com/streadway/amqp"
)

var _ worker.MessageHandler = JobHandler{}

const JobType string = "save_subtitles"

func CreateJobMessage(videoID string, finalSegments []segments.Segment) (amqp.Publishing, error) {
	job := JobParams{
		VideoIdentifier: job_message.VideoIdentifier{VideoID: videoID},
		Segments:        finalSegments,
	}

	jsonBytes, err := json.Marshal(job)
	if err != nil {
		return amqp.Publishing{}, werror.WrapError("Failed to marshal save subtitles job params", err)
	}

	return amqp.Publishing{
		Type: JobType,
		Body: jsonBytes,
	}, nil
}

type JobParams struct {
	job_message.VideoIdentifier
	Segments []segments.Segment `json:"segments"`
}

func NewJobHandler(fileStore cloudstorage.FileStore, videoStore entity.VideoStore, bucketName string) JobHandler {
	return JobHandler{
		fileStore:  fileStore,
		videoStore: videoStore,
		bucketName: bucketName,
	}
}

type JobHandler struct {
	fileStore  cloudstorage.FileStore
	videoStore entity.VideoStore
	bucketName string
}

func (JobHandler) JobType() string {
	return JobType
}

func (s JobHandler) HandleMessage(message []byte) error {
	params := JobParams{}
	err := json.Unmarshal(message, &params)
	if err != nil {
		return werror.WrapError("Failed to unmarshal message JSON", err)
	}

	subtitleURLs, err := s.uploadSubtitles(params)
	if err != nil {
		return werror.WrapError("Failed to upload the subtitle files", err)
	}

	err = s.markVideoDone(params.VideoID, subtitleURLs)
	if err != nil {
		return werror.WrapError("Failed to mark the video as done", err)
	}

	log.WithField("videoID", params.VideoID).Info("Subtitles saved")
	return nil
}

func (s JobHandler) uploadSubtitles(params JobParams) (map[string]string, error) {
	destPrefix := fmt.Sprintf("%s/%s/%s/subtitles/%s",
		store.GOOGLE_STORAGE_HOST, s.bucketName, params.VideoID, params.VideoID)

	srtURL := destPrefix + ".srt"
	srtContents := subtitles.GenerateSRT(params.Segments)
	err := s.fileStore.WriteFile(context.Background(), srtURL, []byte(srtContents))
	if err != nil {
		return nil, werror.WrapError("Failed to write the SRT file", err)
	}

	assURL := destPrefix + ".ass"
	assContents := subtitles.GenerateASS(params.Segments)
	err = s.fileStore.WriteFile(context.Background(), assURL, []byte(assContents))
	if err != nil {
		return nil, werror.WrapError("Failed to write the ASS file", err)
	}

	return map[string]string{
		"srt": srtURL,
		"ass": assURL,
	}, nil
}

func (s JobHandler) markVideoDone(videoID string, subtitleURLs map[string]string) error {
	return s.videoStore.UpdateVideo(context.Background(), videoID, func(video entity.Video) (entity.Video, error) {
		video.SubtitleURLs = subtitleURLs
		video.JobStatus = entity.DoneStatus
		video.JobStatusMessage = "Your subtitles are ready"
		video.JobProgress = 100
		return video, nil
	})
}
