package separator

import (
	"context"
	"fmt"
	"os"

	"subtitle-workers/src/application/conda"
	"subtitle-workers/src/application/executor"

	"github.com/apex/log"
)

var _ Separator = SpleeterSeparator{}

// CondaEnvName is the conda environment spleeter is installed into.
const CondaEnvName = "spleeter"

// SpleeterSeparator drives the spleeter CLI inside its conda environment,
// with the process working directory set to the spleeter project checkout.
type SpleeterSeparator struct {
	runtime         conda.Runtime
	projectPath     string
	commandExecutor executor.Executor
}

func NewSpleeterSeparator(runtime conda.Runtime, projectPath string, commandExecutor executor.Executor) SpleeterSeparator {
	return SpleeterSeparator{
		runtime:         runtime,
		projectPath:     projectPath,
		commandExecutor: commandExecutor,
	}
}

// Preflight checks the runtime in a fixed order: conda install config,
// environment activation, then the project directory. Each failure maps
// to its own error kind and aborts the run.
func (s SpleeterSeparator) Preflight() error {
	if err := s.runtime.CheckInstall(); err != nil {
		return NewError(ConfigurationError, "Conda install is not usable", err)
	}

	if err := s.runtime.VerifyActivation(s.commandExecutor); err != nil {
		return NewError(EnvironmentError, "Failed to activate the spleeter environment", err)
	}

	if s.projectPath == "" {
		return NewError(ConfigurationError, "Spleeter project path is not configured", nil)
	}

	info, err := os.Stat(s.projectPath)
	if err != nil {
		return NewError(EnvironmentError, "Cannot enter the spleeter project directory", err)
	}

	if !info.IsDir() {
		return NewError(EnvironmentError, "Spleeter project path is not a directory", nil)
	}

	return nil
}

func (s SpleeterSeparator) Separate(ctx context.Context, inputPath string, outputDir string, stemMode string, durationCapSeconds int) error {
	logger := log.WithFields(log.Fields{
		"inputPath":  inputPath,
		"outputDir":  outputDir,
		"stemMode":   stemMode,
		"projectDir": s.projectPath,
	})

	// separation is a lengthy process, if we want to halt now is the time
	if ctx.Err() != nil {
		return NewError(SeparationFailedError, "Context cancelled before separation could happen", ctx.Err())
	}

	commandLine := fmt.Sprintf("spleeter separate -p %s -o %s -d %d %s", stemMode, outputDir, durationCapSeconds, inputPath)

	logger.Info("Running spleeter command")
	cmd := s.runtime.Command(s.commandExecutor, commandLine)
	cmd.SetDir(s.projectPath)

	output, err := cmd.CombinedOutput()
	if err != nil {
		errMsg := fmt.Sprintf("Error occurred while running spleeter - output: %s", string(output))
		return NewError(SeparationFailedError, errMsg, err)
	}

	logger.Debug(string(output))
	logger.Info("Finished spleeter command")

	return nil
}
