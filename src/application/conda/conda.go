package conda

import (
	"fmt"
	"os"
	"path/filepath"

	"subtitle-workers/src/application/executor"
	"subtitle-workers/src/lib/cerr"
)

// initScriptRelPath is where every conda install keeps its shell hook
// relative to the base install directory.
const initScriptRelPath = "etc/profile.d/conda.sh"

// Runtime is a named conda environment under a base conda install.
// Commands that need the environment's packages on PATH are run through
// Command, which sources the install's init script and activates the
// environment before running them.
type Runtime struct {
	basePath string
	envName  string
}

func NewRuntime(basePath string, envName string) Runtime {
	return Runtime{
		basePath: basePath,
		envName:  envName,
	}
}

func (r Runtime) EnvName() string {
	return r.envName
}

func (r Runtime) InitScriptPath() string {
	return filepath.Join(r.basePath, initScriptRelPath)
}

// CheckInstall validates the static configuration without spawning any
// process: the base path must be set and the init script must exist.
func (r Runtime) CheckInstall() error {
	if r.basePath == "" {
		return cerr.Error("Conda base path is not configured")
	}

	initScript := r.InitScriptPath()
	info, err := os.Stat(initScript)
	if err != nil {
		return cerr.Field("init_script", initScript).
			Wrap(err).Error("Conda init script does not exist under the base path")
	}

	if info.IsDir() {
		return cerr.Field("init_script", initScript).
			Error("Conda init script path is a directory")
	}

	return nil
}

// VerifyActivation sources the init script and activates the environment
// in a throwaway shell. The combined output is captured into the error so
// activation failures stay diagnosable.
func (r Runtime) VerifyActivation(commandExecutor executor.Executor) error {
	script := fmt.Sprintf("source %s && conda activate %s", r.InitScriptPath(), r.envName)

	cmd := commandExecutor.Command("bash", "-c", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return cerr.Field("env_name", r.envName).
			Field("activation_output", string(output)).
			Wrap(err).Error("Failed to activate conda environment")
	}

	return nil
}

// Command wraps an arbitrary shell command line so that it runs inside
// the activated environment.
func (r Runtime) Command(commandExecutor executor.Executor, commandLine string) executor.Command {
	script := fmt.Sprintf("source %s && conda activate %s && %s", r.InitScriptPath(), r.envName, commandLine)
	return commandExecutor.Command("bash", "-c", script)
}
