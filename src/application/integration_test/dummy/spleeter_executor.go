package dummy

import (
	"os"
	"path/filepath"
	"strings"

	"subtitle-workers/src/application/executor"
)

var _ executor.Executor = SpleeterExecutor{}

func NewDummySpleeterExecutor() *SpleeterExecutor {
	return &SpleeterExecutor{
		Unavailable: false,
	}
}

// SpleeterExecutor stands in for bash running conda-activated spleeter.
// Activation probes succeed as long as the executor is available, and
// separate runs deposit fake stem files where the real tool would.
type SpleeterExecutor struct {
	Unavailable bool
}

type SpleeterCommand struct {
	Unavailable bool
	Args        []string
}

func (s SpleeterExecutor) Command(_ string, arg ...string) executor.Command {
	return SpleeterCommand{
		Unavailable: s.Unavailable,
		Args:        arg,
	}
}

func (s SpleeterCommand) SetDir(_ string) {}

func (s SpleeterCommand) CombinedOutput() ([]byte, error) {
	if len(s.Args) != 2 || s.Args[0] != "-c" {
		return nil, UnexpectedInput
	}

	script := s.Args[1]
	if !strings.Contains(script, "conda activate") {
		return nil, UnexpectedInput
	}

	if s.Unavailable {
		return nil, NetworkFailure
	}

	// just an activation probe, no command after the activation
	if !strings.Contains(script, "spleeter separate") {
		return []byte("Success"), nil
	}

	return s.runSeparate(strings.Fields(script))
}

func (s SpleeterCommand) runSeparate(scriptWords []string) ([]byte, error) {
	sourcePath := scriptWords[len(scriptWords)-1]

	splitParam, err := getOptionValue(scriptWords, "-p")
	if err != nil {
		return nil, err
	}

	if splitParam != "spleeter:2stems" {
		return nil, UnexpectedInput
	}

	destinationDir, err := getOptionValue(scriptWords, "-o")
	if err != nil {
		return nil, err
	}

	contents, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, err
	}

	fileName := filepath.Base(sourcePath)
	baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	stemDir := filepath.Join(destinationDir, baseName)
	if err := os.MkdirAll(stemDir, os.ModePerm); err != nil {
		return nil, err
	}

	for _, stem := range []string{"vocals", "accompaniment"} {
		stemPath := filepath.Join(stemDir, stem+".wav")
		stemContents := []byte(string(contents) + "-" + stem)
		err := os.WriteFile(stemPath, stemContents, os.ModePerm)
		if err != nil {
			return nil, err
		}
	}

	return []byte("Success"), nil
}

func getOptionValue(args []string, key string) (string, error) {
	for i, arg := range args {
		if arg == key {
			return args[i+1], nil
		}
	}

	return "", UnexpectedInput
}
