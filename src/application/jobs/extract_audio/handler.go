package extract_audio

import (
	"context"
	"encoding/json"
	"fmt"

	"subtitle-workers/src/application/cloud_storage/store"
	"subtitle-workers/src/application/jobs/extract_audio/extractor"
	"subtitle-workers/src/application/jobs/job_message"
	"subtitle-workers/src/application/jobs/separate"
	"subtitle-workers/src/application/jobs/transcribe"
	"subtitle-workers/src/application/publish"
	"subtitle-workers/src/application/worker"
	"subtitle-workers/src/lib/werror"

	"github.com/apex/log"
	"github.com/streadway/amqp"
)

var _ worker.MessageHandler = JobHandler{}

const JobType string = "extract_audio"

func CreateJobMessage(videoID string, options job_message.PipelineOptions, sourceURL string) (amqp.Publishing, error) {
	job := JobParams{
		VideoIdentifier: job_message.VideoIdentifier{VideoID: videoID},
		Options:         options,
		SourceURL:       sourceURL,
	}

	jsonBytes, err := json.Marshal(job)
	if err != nil {
		return amqp.Publishing{}, werror.WrapError("Failed to marshal extract audio job params", err)
	}

	return amqp.Publishing{
		Type: JobType,
		Body: jsonBytes,
	}, nil
}

type JobParams struct {
	job_message.VideoIdentifier
	Options   job_message.PipelineOptions `json:"options"`
	SourceURL string                      `json:"source_url"`
}

func NewJobHandler(audioExtractor extractor.FFmpegExtractor, publisher publish.Publisher, bucketName string) JobHandler {
	return JobHandler{
		audioExtractor: audioExtractor,
		publisher:      publisher,
		bucketName:     bucketName,
	}
}

type JobHandler struct {
	audioExtractor extractor.FFmpegExtractor
	publisher      publish.Publisher
	bucketName     string
}

func (JobHandler) JobType() string {
	return JobType
}

func (e JobHandler) HandleMessage(message []byte) error {
	params := JobParams{}
	err := json.Unmarshal(message, &params)
	if err != nil {
		return werror.WrapError("Failed to unmarshal message JSON", err)
	}

	savedAudioURL := fmt.Sprintf("%s/%s/%s/audio/audio.wav", store.GOOGLE_STORAGE_HOST, e.bucketName, params.VideoID)

	err = e.audioExtractor.ExtractAudio(context.Background(), params.SourceURL, savedAudioURL)
	if err != nil {
		return werror.WrapError("Failed to extract the audio track", err)
	}

	return e.publishNextJobMessage(params, savedAudioURL)
}

func (e JobHandler) publishNextJobMessage(params JobParams, savedAudioURL string) error {
	var job amqp.Publishing
	var err error

	if params.Options.SkipSeparation {
		log.Info("Separation disabled, publishing transcribe job message")
		job, err = transcribe.CreateJobMessage(params.VideoID, params.Options, savedAudioURL)
		if err != nil {
			return werror.WrapError("Failed to create transcribe job params", err)
		}
	} else {
		log.Info("Publishing separate vocals job message")
		job, err = separate.CreateJobMessage(params.VideoID, params.Options, savedAudioURL)
		if err != nil {
			return werror.WrapError("Failed to create separate vocals job params", err)
		}
	}

	err = e.publisher.Publish(job)
	if err != nil {
		return werror.WrapError("Failed to publish next job message", err)
	}

	return nil
}
