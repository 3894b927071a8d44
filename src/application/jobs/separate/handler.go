package separate

import (
	"context"
	"encoding/json"
	"fmt"

	"subtitle-workers/src/application/cloud_storage/store"
	"subtitle-workers/src/application/jobs/job_message"
	"subtitle-workers/src/application/jobs/separate/separator"
	"subtitle-workers/src/application/jobs/transcribe"
	"subtitle-workers/src/application/publish"
	"subtitle-workers/src/application/worker"
	"subtitle-workers/src/lib/werror"

	"github.com/apex/log"
	"github.com/streadway/amqp"
)

var _ worker.MessageHandler = JobHandler{}

const JobType string = "separate_vocals"

func CreateJobMessage(videoID string, options job_message.PipelineOptions, savedAudioURL string) (amqp.Publishing, error) {
	job := JobParams{
		VideoIdentifier: job_message.VideoIdentifier{VideoID: videoID},
		Options:         options,
		SavedAudioURL:   savedAudioURL,
	}

	jsonBytes, err := json.Marshal(job)
	if err != nil {
		return amqp.Publishing{}, werror.WrapError("Failed to marshal separate vocals job params", err)
	}

	return amqp.Publishing{
		Type: JobType,
		Body: jsonBytes,
	}, nil
}

type JobParams struct {
	job_message.VideoIdentifier
	Options       job_message.PipelineOptions `json:"options"`
	SavedAudioURL string                      `json:"saved_audio_url"`
}

func NewJobHandler(vocalExtractor separator.RemoteVocalExtractor, publisher publish.Publisher, bucketName string) JobHandler {
	return JobHandler{
		vocalExtractor: vocalExtractor,
		publisher:      publisher,
		bucketName:     bucketName,
	}
}

type JobHandler struct {
	vocalExtractor separator.RemoteVocalExtractor
	publisher      publish.Publisher
	bucketName     string
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

	remoteDestDir := fmt.Sprintf("%s/%s/%s/vocals", store.GOOGLE_STORAGE_HOST, s.bucketName, params.VideoID)

	vocalURL, err := s.vocalExtractor.Extract(context.Background(), params.SavedAudioURL, remoteDestDir)
	if err != nil {
		return werror.WrapError("Failed to extract the vocal track", err)
	}

	return s.publishTranscribeMessage(params, vocalURL)
}

func (s JobHandler) publishTranscribeMessage(params JobParams, vocalURL string) error {
	log.Info("Creating transcribe job message")
	job, err := transcribe.CreateJobMessage(params.VideoID, params.Options, vocalURL)
	if err != nil {
		return werror.WrapError("Failed to create transcribe job params", err)
	}

	log.Info("Publishing transcribe job message")
	err = s.publisher.Publish(job)
	if err != nil {
		return werror.WrapError("Failed to publish next job message", err)
	}

	return nil
}
