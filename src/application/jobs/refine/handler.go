package refine

import (
	"context"
	"encoding/json"

	"subtitle-workers/src/application/jobs/job_message"
	"subtitle-workers/src/application/jobs/translate"
	"subtitle-workers/src/application/llm"
	"subtitle-workers/src/application/publish"
	"subtitle-workers/src/application/segments"
	"subtitle-workers/src/application/worker"
	"subtitle-workers/src/lib/werror"

	"github.com/apex/log"
	"github.com/streadway/amqp"
)

var _ worker.MessageHandler = JobHandler{}

const JobType string = "refine_segments"

// ClientFactory builds a chat client for the backend the job asks for.
// The handler only invokes it when a job actually wants LLM refinement,
// so a missing API key does not break jobs that skip this stage.
type ClientFactory func(backend string, modelName string) (llm.Client, error)

func CreateJobMessage(videoID string, options job_message.PipelineOptions, language string, transcriptSegments []segments.Segment) (amqp.Publishing, error) {
	job := JobParams{
		VideoIdentifier: job_message.VideoIdentifier{VideoID: videoID},
		Options:         options,
		Language:        language,
		Segments:        transcriptSegments,
	}

	jsonBytes, err := json.Marshal(job)
	if err != nil {
		return amqp.Publishing{}, werror.WrapError("Failed to marshal refine job params", err)
	}

	return amqp.Publishing{
		Type: JobType,
		Body: jsonBytes,
	}, nil
}

type JobParams struct {
	job_message.VideoIdentifier
	Options  job_message.PipelineOptions `json:"options"`
	Language string                      `json:"language"`
	Segments []segments.Segment          `json:"segments"`
}

func NewJobHandler(clientFactory ClientFactory, publisher publish.Publisher) JobHandler {
	return JobHandler{
		clientFactory: clientFactory,
		publisher:     publisher,
	}
}

type JobHandler struct {
	clientFactory ClientFactory
	publisher     publish.Publisher
}

func (JobHandler) JobType() string {
	return JobType
}

func (r JobHandler) HandleMessage(message []byte) error {
	params := JobParams{}
	err := json.Unmarshal(message, &params)
	if err != nil {
		return werror.WrapError("Failed to unmarshal message JSON", err)
	}

	refinedSegments, err := r.refineSegments(params)
	if err != nil {
		return werror.WrapError("Failed to refine the transcript segments", err)
	}

	return r.publishTranslateMessage(params, refinedSegments)
}

func (r JobHandler) refineSegments(params JobParams) ([]segments.Segment, error) {
	if !params.Options.UseLLMCorrection && !params.Options.UseLLMSegmentation {
		log.Info("LLM refinement disabled, passing segments through")
		return params.Segments, nil
	}

	client, err := r.clientFactory(params.Options.LLMBackend, params.Options.LLMModelName)
	if err != nil {
		return nil, werror.WrapError("Failed to create a chat client for refinement", err)
	}

	refinedSegments := params.Segments
	ctx := context.Background()

	if params.Options.UseLLMCorrection {
		log.Info("Correcting transcript segments")
		refinedSegments = CorrectSegments(ctx, client, refinedSegments)
	}

	if params.Options.UseLLMSegmentation {
		log.Info("Merging fragmented transcript segments")
		refinedSegments = MergeSegments(ctx, client, refinedSegments)
	}

	return refinedSegments, nil
}

func (r JobHandler) publishTranslateMessage(params JobParams, refinedSegments []segments.Segment) error {
	log.Info("Creating translate job message")
	job, err := translate.CreateJobMessage(params.VideoID, params.Options, params.Language, refinedSegments)
	if err != nil {
		return werror.WrapError("Failed to create translate job params", err)
	}

	log.Info("Publishing translate job message")
	err = r.publisher.Publish(job)
	if err != nil {
		return werror.WrapError("Failed to publish next job message", err)
	}

	return nil
}
