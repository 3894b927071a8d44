package application

import (
	"fmt"
	"os"
	"strconv"

	filestore "subtitle-workers/src/application/cloud_storage/store"
	"subtitle-workers/src/application/conda"
	"subtitle-workers/src/application/executor"
	"subtitle-workers/src/application/jobs/extract_audio"
	"subtitle-workers/src/application/jobs/extract_audio/extractor"
	"subtitle-workers/src/application/jobs/refine"
	"subtitle-workers/src/application/jobs/save_subtitles"
	"subtitle-workers/src/application/jobs/separate"
	"subtitle-workers/src/application/jobs/separate/separator"
	"subtitle-workers/src/application/jobs/start"
	"subtitle-workers/src/application/jobs/transcribe"
	"subtitle-workers/src/application/jobs/transcribe/transcriber"
	"subtitle-workers/src/application/jobs/translate"
	"subtitle-workers/src/application/jobs/translate/translator"
	"subtitle-workers/src/application/llm"
	"subtitle-workers/src/application/publish"
	videostore "subtitle-workers/src/application/videos/store"
	"subtitle-workers/src/application/worker"
	"subtitle-workers/src/lib/env"

	"github.com/apex/log"

	"github.com/streadway/amqp"
)

func getEnvOrPanic(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("No env variable found for key %s", key))
	}

	return val
}

func ensureOk(err error) {
	if err != nil {
		panic(err)
	}
}

type App struct {
	workers []worker.QueueWorker
}

func NewApp() App {
	rabbitURL := getEnvOrPanic("RABBITMQ_URL")
	consumerConn, err := amqp.Dial(rabbitURL)
	ensureOk(err)
	producerConn, err := amqp.Dial(rabbitURL)
	ensureOk(err)

	workers := []worker.QueueWorker{}
	numWorkers := getNumWorkers()
	for i := 0; i < numWorkers; i++ {
		workers = append(workers, newWorker(consumerConn, producerConn))
	}

	return App{
		workers: workers,
	}
}

func (a *App) Start() {
	for _, queueWorker := range a.workers {
		go func(worker worker.QueueWorker) {
			err := worker.Start()
			if err != nil {
				log.Error("Failed to start worker!")
			}
		}(queueWorker)
	}
}

func getNumWorkers() int {
	numWorkersStr := getEnvOrPanic("NUM_WORKERS")
	numWorkers, err := strconv.Atoi(numWorkersStr)
	ensureOk(err)
	return numWorkers
}

func newWorker(consumerConn *amqp.Connection, producerConn *amqp.Connection) worker.QueueWorker {
	publisher := newPublisher(producerConn)
	queueWorker, err := worker.NewQueueWorkerFromConnection(
		consumerConn,
		queueName(),
		[]worker.MessageHandler{
			newStartJobHandler(publisher),
			newExtractAudioJobHandler(publisher),
			newSeparateJobHandler(publisher),
			newTranscribeJobHandler(publisher),
			newRefineJobHandler(publisher),
			newTranslateJobHandler(publisher),
			newSaveSubtitlesJobHandler(),
		})
	ensureOk(err)
	return queueWorker
}

func queueName() string {
	return getEnvOrPanic("RABBITMQ_QUEUE_NAME")
}

func bucketName() string {
	return getEnvOrPanic("GOOGLE_CLOUD_STORAGE_BUCKET_NAME")
}

func newPublisher(conn *amqp.Connection) publish.RabbitMQPublisher {
	publisher, err := publish.NewRabbitMQPublisher(conn, queueName())
	ensureOk(err)
	return publisher
}

func newGoogleFileStore() filestore.GoogleFileStore {
	jsonKey := getEnvOrPanic("GOOGLE_CLOUD_KEY")

	fileStore, err := filestore.NewGoogleFileStore(jsonKey)
	ensureOk(err)
	return fileStore
}

func newVideoStore() videostore.DynamoDBVideoStore {
	return videostore.NewDynamoDBVideoStore(env.Get())
}

func newChatClient(backend string, modelName string) (llm.Client, error) {
	return llm.NewClient(backend, modelName, os.Getenv("OPENAI_API_KEY"), ollamaURL())
}

func ollamaURL() string {
	url := os.Getenv("OLLAMA_URL")
	if url == "" {
		return llm.DefaultOllamaURL
	}

	return url
}

func newStartJobHandler(publisher publish.Publisher) start.JobHandler {
	return start.NewJobHandler(newVideoStore(), publisher)
}

func newExtractAudioJobHandler(publisher publish.Publisher) extract_audio.JobHandler {
	ffmpegBinPath := getEnvOrPanic("FFMPEG_BIN_PATH")
	workingDir := getEnvOrPanic("FFMPEG_WORKING_DIR_PATH")
	err := os.MkdirAll(workingDir, os.ModePerm)
	ensureOk(err)

	audioExtractor, err := extractor.NewFFmpegExtractor(ffmpegBinPath, workingDir, newGoogleFileStore(), executor.BinaryFileExecutor{})
	ensureOk(err)

	return extract_audio.NewJobHandler(audioExtractor, publisher, bucketName())
}

func newSeparateJobHandler(publisher publish.Publisher) separate.JobHandler {
	condaBasePath := getEnvOrPanic("CONDA_BASE_PATH")
	projectPath := getEnvOrPanic("SPLEETER_PROJECT_PATH")
	workingDir := getEnvOrPanic("SPLEETER_WORKING_DIR_PATH")
	err := os.MkdirAll(workingDir, os.ModePerm)
	ensureOk(err)

	condaRuntime := conda.NewRuntime(condaBasePath, separator.CondaEnvName)
	spleeterSeparator := separator.NewSpleeterSeparator(condaRuntime, projectPath, executor.BinaryFileExecutor{})
	localExtractor := separator.NewVocalExtractor(spleeterSeparator)

	remoteExtractor, err := separator.NewRemoteVocalExtractor(workingDir, newGoogleFileStore(), localExtractor)
	ensureOk(err)

	return separate.NewJobHandler(remoteExtractor, publisher, bucketName())
}

func newTranscribeJobHandler(publisher publish.Publisher) transcribe.JobHandler {
	whisperBinPath := getEnvOrPanic("WHISPER_BIN_PATH")
	workingDir := getEnvOrPanic("WHISPER_WORKING_DIR_PATH")
	modelDir := os.Getenv("WHISPER_MODEL_DIR")
	err := os.MkdirAll(workingDir, os.ModePerm)
	ensureOk(err)

	fileStore := newGoogleFileStore()
	audioTranscriber, err := transcriber.NewWhisperTranscriber(whisperBinPath, modelDir, workingDir, fileStore, executor.BinaryFileExecutor{})
	ensureOk(err)

	return transcribe.NewJobHandler(audioTranscriber, newVideoStore(), fileStore, publisher, bucketName())
}

func newRefineJobHandler(publisher publish.Publisher) refine.JobHandler {
	return refine.NewJobHandler(newChatClient, publisher)
}

func newTranslateJobHandler(publisher publish.Publisher) translate.JobHandler {
	niutransTranslator := translator.NewNiutransTranslator(os.Getenv("NIUTRANS_API_KEY"))
	googleTranslator := translator.NewGoogleTranslator()

	return translate.NewJobHandler(niutransTranslator, googleTranslator, newChatClient, publisher)
}

func newSaveSubtitlesJobHandler() save_subtitles.JobHandler {
	return save_subtitles.NewJobHandler(newGoogleFileStore(), newVideoStore(), bucketName())
}
