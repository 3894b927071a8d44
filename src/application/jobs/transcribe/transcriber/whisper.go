package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"strings"

	cloudstorage "subtitle-workers/src/application/cloud_storage/entity"
	"subtitle-workers/src/application/executor"
	"subtitle-workers/src/application/segments"
	"subtitle-workers/src/lib/cerr"
	"subtitle-workers/src/lib/working_dir"

	"github.com/apex/log"
)

// Transcription is what comes back from one transcription run: the
// detected (or requested) language plus the timed segments.
type Transcription struct {
	Language string
	Segments []segments.Segment
}

// WhisperTranscriber fetches audio from the remote file store and runs
// the whisper CLI against it, reading back the JSON transcript the tool
// writes next to its other outputs.
type WhisperTranscriber struct {
	whisperBinPath  string
	modelDir        string
	workingDir      working_dir.WorkingDir
	fileStore       cloudstorage.FileStore
	commandExecutor executor.Executor
}

func NewWhisperTranscriber(whisperBinPath string, modelDir string, workingDirStr string, fileStore cloudstorage.FileStore, commandExecutor executor.Executor) (WhisperTranscriber, error) {
	workingDir, err := working_dir.NewWorkingDir(workingDirStr)
	if err != nil {
		return WhisperTranscriber{}, cerr.Field("working_dir_str", workingDirStr).Wrap(err).Error("Failed to create working dir")
	}

	return WhisperTranscriber{
		whisperBinPath:  whisperBinPath,
		modelDir:        modelDir,
		workingDir:      workingDir,
		fileStore:       fileStore,
		commandExecutor: commandExecutor,
	}, nil
}

// Transcribe runs whisper over the remote audio file. An empty language
// lets the model detect it.
func (w WhisperTranscriber) Transcribe(ctx context.Context, remoteAudioURL string, modelSize string, language string) (Transcription, error) {
	errctx := cerr.Field("remote_audio_url", remoteAudioURL).Field("model_size", modelSize)

	log.Info("Fetching audio from remote file store")
	audioContents, err := w.fileStore.GetFile(ctx, remoteAudioURL)
	if err != nil {
		return Transcription{}, errctx.Wrap(err).Error("Failed to get remote audio file")
	}

	tempDir, err := ioutil.TempDir(w.workingDir.TempDir(), "transcribe-*")
	if err != nil {
		return Transcription{}, errctx.Wrap(err).Error("Failed to create temp dir to transcribe in")
	}
	defer os.RemoveAll(tempDir)

	audioFileName := path.Base(remoteAudioURL)
	localAudioPath := filepath.Join(tempDir, audioFileName)
	if err := os.WriteFile(localAudioPath, audioContents, os.ModePerm); err != nil {
		return Transcription{}, errctx.Wrap(err).Error("Failed to write audio file to disk")
	}

	if err := w.runWhisper(localAudioPath, tempDir, modelSize, language); err != nil {
		return Transcription{}, errctx.Wrap(err).Error("Failed to run whisper")
	}

	transcriptName := strings.TrimSuffix(audioFileName, filepath.Ext(audioFileName)) + ".json"
	transcriptPath := filepath.Join(tempDir, transcriptName)

	transcription, err := parseTranscript(transcriptPath)
	if err != nil {
		return Transcription{}, errctx.Wrap(err).Error("Failed to parse the whisper transcript")
	}

	return transcription, nil
}

func (w WhisperTranscriber) runWhisper(audioPath string, outputDir string, modelSize string, language string) error {
	args := []string{
		audioPath,
		"--model", modelSize,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--task", "transcribe",
	}

	if w.modelDir != "" {
		args = append(args, "--model_dir", w.modelDir)
	}

	if language != "" {
		args = append(args, "--language", language)
	}

	log.WithField("audioPath", audioPath).Info("Running whisper command")
	cmd := w.commandExecutor.Command(w.whisperBinPath, args...)
	cmd.SetDir(outputDir)

	output, err := cmd.CombinedOutput()
	if err != nil {
		errMsg := fmt.Sprintf("Error occurred while running whisper - output: %s", string(output))
		return cerr.Wrap(err).Error(errMsg)
	}

	log.Debug(string(output))
	log.Info("Finished whisper command")

	return nil
}

type whisperTranscript struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func parseTranscript(transcriptPath string) (Transcription, error) {
	transcriptBytes, err := os.ReadFile(transcriptPath)
	if err != nil {
		return Transcription{}, cerr.Field("transcript_path", transcriptPath).
			Wrap(err).Error("Whisper did not produce a transcript file")
	}

	transcript := whisperTranscript{}
	if err := json.Unmarshal(transcriptBytes, &transcript); err != nil {
		return Transcription{}, cerr.Wrap(err).Error("Failed to unmarshal transcript JSON")
	}

	transcription := Transcription{
		Language: transcript.Language,
		Segments: make([]segments.Segment, 0, len(transcript.Segments)),
	}

	for _, seg := range transcript.Segments {
		transcription.Segments = append(transcription.Segments, segments.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}

	return transcription, nil
}
