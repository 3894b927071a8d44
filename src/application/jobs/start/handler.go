package start

import (
	"context"
	"encoding/json"

	"subtitle-workers/src/application/jobs/extract_audio"
	"subtitle-workers/src/application/jobs/job_message"
	"subtitle-workers/src/application/publish"
	"subtitle-workers/src/application/videos/entity"
	"subtitle-workers/src/application/worker"
	"subtitle-workers/src/lib/cerr"
	"subtitle-workers/src/lib/werror"

	"github.com/apex/log"
	"github.com/streadway/amqp"
)

var _ worker.MessageHandler = JobHandler{}

const JobType string = "start_job"

func CreateJobMessage(videoID string, options job_message.PipelineOptions) (amqp.Publishing, error) {
	job := JobParams{
		VideoIdentifier: job_message.VideoIdentifier{VideoID: videoID},
		Options:         options,
	}

	jsonBytes, err := json.Marshal(job)
	if err != nil {
		return amqp.Publishing{}, werror.WrapError("Failed to marshal start job params", err)
	}

	return amqp.Publishing{
		Type: JobType,
		Body: jsonBytes,
	}, nil
}

type JobParams struct {
	job_message.VideoIdentifier
	Options job_message.PipelineOptions `json:"options"`
}

func NewJobHandler(videoStore entity.VideoStore, publisher publish.Publisher) JobHandler {
	return JobHandler{
		videoStore: videoStore,
		publisher:  publisher,
	}
}

type JobHandler struct {
	videoStore entity.VideoStore
	publisher  publish.Publisher
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

	if params.VideoID == "" {
		return cerr.Field("message_body", string(message)).Error("Missing video ID")
	}

	errctx := cerr.Field("video_id", params.VideoID)

	sourceURL := ""
	updater := func(video entity.Video) (entity.Video, error) {
		if video.JobStatus != entity.RequestedStatus {
			return entity.Video{}, errctx.Error("Video is not in requested status, abort processing to be safe")
		}

		video.JobStatus = entity.ProcessingStatus
		video.JobStatusMessage = "Extracting audio from the video"
		video.JobProgress = 10

		sourceURL = video.SourceURL
		return video, nil
	}

	err = s.videoStore.UpdateVideo(context.Background(), params.VideoID, updater)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to set the video status")
	}

	if sourceURL == "" {
		return errctx.Error("Video record has no source URL")
	}

	return s.publishExtractAudioMessage(params, sourceURL)
}

func (s JobHandler) publishExtractAudioMessage(params JobParams, sourceURL string) error {
	log.Info("Creating extract audio job message")
	job, err := extract_audio.CreateJobMessage(params.VideoID, params.Options, sourceURL)
	if err != nil {
		return werror.WrapError("Failed to create extract audio job params", err)
	}

	log.Info("Publishing extract audio job message")
	err = s.publisher.Publish(job)
	if err != nil {
		return werror.WrapError("Failed to publish next job message", err)
	}

	return nil
}
