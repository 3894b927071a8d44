package translate

import (
	"context"
	"encoding/json"
	"strings"

	"subtitle-workers/src/application/jobs/job_message"
	"subtitle-workers/src/application/jobs/save_subtitles"
	"subtitle-workers/src/application/jobs/translate/translator"
	"subtitle-workers/src/application/llm"
	"subtitle-workers/src/application/publish"
	"subtitle-workers/src/application/segments"
	"subtitle-workers/src/application/worker"
	"subtitle-workers/src/lib/werror"

	"github.com/apex/log"
	"github.com/streadway/amqp"
)

var _ worker.MessageHandler = JobHandler{}

const JobType string = "translate_segments"

// ClientFactory builds a chat client for the backend the job asks for.
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
		return amqp.Publishing{}, werror.WrapError("Failed to marshal translate job params", err)
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

func NewJobHandler(
	niutransTranslator translator.Translator,
	googleTranslator translator.Translator,
	clientFactory ClientFactory,
	publisher publish.Publisher,
) JobHandler {
	return JobHandler{
		niutransTranslator: niutransTranslator,
		googleTranslator:   googleTranslator,
		clientFactory:      clientFactory,
		publisher:          publisher,
	}
}

type JobHandler struct {
	niutransTranslator translator.Translator
	googleTranslator   translator.Translator
	clientFactory      ClientFactory
	publisher          publish.Publisher
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

	finalSegments, err := t.translateSegments(params)
	if err != nil {
		return werror.WrapError("Failed to translate the transcript segments", err)
	}

	return t.publishSaveSubtitlesMessage(params, finalSegments)
}

func (t JobHandler) translateSegments(params JobParams) ([]segments.Segment, error) {
	targetLanguage := params.Options.TargetLanguage
	if targetLanguage == "" {
		targetLanguage = job_message.DefaultTargetLanguage
	}

	// When the transcript already comes out in the target language
	// there is nothing to translate.
	if strings.Contains(strings.ToLower(params.Language), strings.ToLower(targetLanguage)) {
		log.Info("Transcript language matches the target language, skipping translation")
		return params.Segments, nil
	}

	ctx := context.Background()

	texts := make([]string, 0, len(params.Segments))
	for _, segment := range params.Segments {
		texts = append(texts, segment.Text)
	}

	log.WithFields(log.Fields{
		"sourceLanguage": params.Language,
		"targetLanguage": targetLanguage,
	}).Info("Translating transcript segments")

	basicTranslations := translator.TranslateAll(ctx, t.pickTranslator(params.Options), texts, params.Language, targetLanguage)

	if !params.Options.UseLLMTranslation {
		return applyTranslations(params.Segments, basicTranslations), nil
	}

	client, err := t.clientFactory(params.Options.LLMBackend, params.Options.LLMModelName)
	if err != nil {
		return nil, werror.WrapError("Failed to create a chat client for translation optimization", err)
	}

	log.Info("Optimizing translations")
	return OptimizeTranslations(ctx, client, params.Segments, basicTranslations, targetLanguage), nil
}

// pickTranslator matches the machine translation service to the chat
// backend: local chat setups pair with the key-based niutrans service,
// everything else uses the free Google endpoint.
func (t JobHandler) pickTranslator(options job_message.PipelineOptions) translator.Translator {
	if strings.Contains(strings.ToLower(options.LLMBackend), llm.OllamaBackend) {
		return t.niutransTranslator
	}

	return t.googleTranslator
}

func applyTranslations(transcriptSegments []segments.Segment, translations []string) []segments.Segment {
	translatedSegments := make([]segments.Segment, 0, len(transcriptSegments))
	for i, segment := range transcriptSegments {
		segment.Text = translations[i]
		translatedSegments = append(translatedSegments, segment)
	}

	return translatedSegments
}

func (t JobHandler) publishSaveSubtitlesMessage(params JobParams, finalSegments []segments.Segment) error {
	log.Info("Creating save subtitles job message")
	job, err := save_subtitles.CreateJobMessage(params.VideoID, finalSegments)
	if err != nil {
		return werror.WrapError("Failed to create save subtitles job params", err)
	}

	log.Info("Publishing save subtitles job message")
	err = t.publisher.Publish(job)
	if err != nil {
		return werror.WrapError("Failed to publish next job message", err)
	}

	return nil
}
