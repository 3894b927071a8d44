package dummy

import (
	"os"

	"subtitle-workers/src/application/executor"
)

var _ executor.Executor = FFmpegExecutor{}

func NewDummyFFmpegExecutor() *FFmpegExecutor {
	return &FFmpegExecutor{
		Unavailable: false,
	}
}

type FFmpegExecutor struct {
	Unavailable bool
}

type FFmpegCommand struct {
	Unavailable bool
	Args        []string
}

func (f FFmpegExecutor) Command(_ string, arg ...string) executor.Command {
	return FFmpegCommand{
		Unavailable: f.Unavailable,
		Args:        arg,
	}
}

func (f FFmpegCommand) SetDir(_ string) {}

func (f FFmpegCommand) CombinedOutput() ([]byte, error) {
	if f.Unavailable {
		return nil, NetworkFailure
	}

	sourcePath, err := getOptionValue(f.Args, "-i")
	if err != nil {
		return nil, err
	}

	audioPath := f.Args[len(f.Args)-1]

	contents, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, err
	}

	audioContents := []byte(string(contents) + "-audio")
	if err := os.WriteFile(audioPath, audioContents, os.ModePerm); err != nil {
		return nil, err
	}

	return []byte("Success"), nil
}
