package transcribe

import (
	"context"
	"encoding/json"
	"fmt"

	cloudstorage "subtitle-workers/src/application/cloud_storage/entity"
	"subtitle-workers/src/application/cloud_storage/store"
	"subtitle-workers/src/application/jobs/job_message"
	"subtitle-workers/src/application/jobs/refine"
	"subtitle-workers/src/application/jobs/transcribe/transcriber"
	"subtitle-workers/src/application/publish"
	"subtitle-workers/src/application/segments"
	"subtitle-workers/src/application/subtitles"
	"subtitle-workers/src/application/videos/entity"
	"subtitle-workers/src/application/worker"
	"subtitle-workers/src/lib/werror"

	"github.com/apex/log"
	"github.com/streadway/amqp"
)

var _ worker.MessageHandler = JobHandler{}

const JobType string = "transcribe_audio"

func CreateJobMessage(videoID string, options job_message.PipelineOptions, savedAudioURL string) (amqp.Publishing, error) {
	job := JobParams{
		VideoIdentifier: job_message.VideoIdentifier{VideoID: videoID},
		Options:         options,
		SavedAudioURL:   savedAudioURL,
	}

	jsonBytes, err := json.Marshal(job)
	if err != nil {
		return amqp.Publishing{}, werror.WrapError("Failed to marshal transcribe job params", err)
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

func NewJobHandler(
	audioTranscriber transcriber.WhisperTranscriber,
	videoStore entity.VideoStore,
	fileStore cloudstorage.FileStore,
	publisher publish.Publisher,
	bucketName string,
) JobHandler {
	return JobHandler{
		audioTranscriber: audioTranscriber,
		videoStore:       videoStore,
		fileStore:        fileStore,
		publisher:        publisher,
		bucketName:       bucketName,
	}
}

type JobHandler struct {
	audioTranscriber transcriber.WhisperTranscriber
	videoStore       entity.VideoStore
	fileStore        cloudstorage.FileStore
	publisher        publish.Publisher
	bucketName       string
}

func (JobHandler) JobType() string {
	return JobType
}

func (t JobHandler) HandleMessage(message []byte) error {
	params := JobParams{}
	err := json.Unmarshal(message, &params)
	if err != nil {
		return werror.WrapError("Failed to unmarshal message JSON", err)
	}

	modelSize := params.Options.ModelSize
	if modelSize == "" {
		modelSize = job_message.DefaultModelSize
	}

	transcription, err := t.audioTranscriber.Transcribe(context.Background(), params.SavedAudioURL, modelSize, params.Options.SourceLanguage)
	if err != nil {
		return werror.WrapError("Failed to transcribe the audio track", err)
	}

	// The model occasionally gets stuck on a phrase and emits it over
	// and over with advancing timestamps. Blank out the repeats before
	// anything downstream sees them.
	transcription.Segments = segments.DedupeRepeatedText(transcription.Segments)

	err = t.saveRawTranscript(params, transcription)
	if err != nil {
		return werror.WrapError("Failed to save the raw transcript", err)
	}

	err = t.updateProgress(params.VideoID)
	if err != nil {
		return werror.WrapError("Failed to update video after transcription", err)
	}

	return t.publishRefineMessage(params, transcription)
}

// saveRawTranscript uploads the untranslated subtitles so that a failure
// later in the pipeline still leaves something usable behind.
func (t JobHandler) saveRawTranscript(params JobParams, transcription transcriber.Transcription) error {
	destPrefix := fmt.Sprintf("%s/%s/%s/transcripts/%s.%s",
		store.GOOGLE_STORAGE_HOST, t.bucketName, params.VideoID, params.VideoID, transcription.Language)

	srtContents := subtitles.GenerateSRT(transcription.Segments)
	err := t.fileStore.WriteFile(context.Background(), destPrefix+".srt", []byte(srtContents))
	if err != nil {
		return werror.WrapError("Failed to write raw SRT transcript", err)
	}

	assContents := subtitles.GenerateASS(transcription.Segments)
	err = t.fileStore.WriteFile(context.Background(), destPrefix+".ass", []byte(assContents))
	if err != nil {
		return werror.WrapError("Failed to write raw ASS transcript", err)
	}

	return nil
}

func (t JobHandler) updateProgress(videoID string) error {
	return t.videoStore.UpdateVideo(context.Background(), videoID, func(video entity.Video) (entity.Video, error) {
		video.JobStatusMessage = "Refining and translating the transcript"
		video.JobProgress = 60
		return video, nil
	})
}

func (t JobHandler) publishRefineMessage(params JobParams, transcription transcriber.Transcription) error {
	log.Info("Creating refine job message")
	job, err := refine.CreateJobMessage(params.VideoID, params.Options, transcription.Language, transcription.Segments)
	if err != nil {
		return werror.WrapError("Failed to create refine job params", err)
	}

	log.Info("Publishing refine job message")
	err = t.publisher.Publish(job)
	if err != nil {
		return werror.WrapError("Failed to publish next job message", err)
	}

	return nil
}
