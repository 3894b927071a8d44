package dummy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"subtitle-workers/src/application/executor"
	"subtitle-workers/src/application/segments"
)

var _ executor.Executor = WhisperExecutor{}

func NewDummyWhisperExecutor(language string, transcriptSegments []segments.Segment) *WhisperExecutor {
	return &WhisperExecutor{
		Unavailable: false,
		Language:    language,
		Segments:    transcriptSegments,
	}
}

// WhisperExecutor fakes a whisper run by writing the canned transcript
// as the JSON file the real CLI would have produced.
type WhisperExecutor struct {
	Unavailable bool
	Language    string
	Segments    []segments.Segment
}

type WhisperCommand struct {
	Unavailable bool
	Language    string
	Segments    []segments.Segment
	Args        []string
}

func (w WhisperExecutor) Command(_ string, arg ...string) executor.Command {
	return WhisperCommand{
		Unavailable: w.Unavailable,
		Language:    w.Language,
		Segments:    w.Segments,
		Args:        arg,
	}
}

func (w WhisperCommand) SetDir(_ string) {}

func (w WhisperCommand) CombinedOutput() ([]byte, error) {
	if w.Unavailable {
		return nil, NetworkFailure
	}

	if len(w.Args) == 0 {
		return nil, UnexpectedInput
	}

	audioPath := w.Args[0]
	if _, err := os.Stat(audioPath); err != nil {
		return nil, err
	}

	outputFormat, err := getOptionValue(w.Args, "--output_format")
	if err != nil {
		return nil, err
	}
	if outputFormat != "json" {
		return nil, UnexpectedInput
	}

	outputDir, err := getOptionValue(w.Args, "--output_dir")
	if err != nil {
		return nil, err
	}

	transcript := map[string]interface{}{
		"language": w.Language,
		"segments": w.Segments,
	}

	transcriptBytes, err := json.Marshal(transcript)
	if err != nil {
		return nil, err
	}

	audioFileName := filepath.Base(audioPath)
	transcriptName := strings.TrimSuffix(audioFileName, filepath.Ext(audioFileName)) + ".json"
	transcriptPath := filepath.Join(outputDir, transcriptName)
	if err := os.WriteFile(transcriptPath, transcriptBytes, os.ModePerm); err != nil {
		return nil, err
	}

	return []byte("Success"), nil
}
