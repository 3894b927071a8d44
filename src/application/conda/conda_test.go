package conda_test

import (
	"os"
	"path/filepath"

	"subtitle-workers/src/application/conda"
	"subtitle-workers/src/application/executor"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// recordingExecutor captures the command it was asked to run.
type recordingExecutor struct {
	name string
	args []string
	err  error
}

type recordingCommand struct {
	err error
}

func (r *recordingExecutor) Command(name string, arg ...string) executor.Command {
	r.name = name
	r.args = arg
	return recordingCommand{err: r.err}
}

func (r recordingCommand) SetDir(_ string) {}

func (r recordingCommand) CombinedOutput() ([]byte, error) {
	if r.err != nil {
		return []byte("activation blew up"), r.err
	}

	return []byte(""), nil
}

var _ = Describe("Runtime", func() {
	var (
		basePath string
		runtime  conda.Runtime
	)

	BeforeEach(func() {
		var err error
		basePath, err = os.MkdirTemp(workingDir, "conda-base-*")
		Expect(err).NotTo(HaveOccurred())

		initScriptDir := filepath.Join(basePath, "etc", "profile.d")
		err = os.MkdirAll(initScriptDir, os.ModePerm)
		Expect(err).NotTo(HaveOccurred())

		err = os.WriteFile(filepath.Join(initScriptDir, "conda.sh"), []byte("# conda hook"), os.ModePerm)
		Expect(err).NotTo(HaveOccurred())

		runtime = conda.NewRuntime(basePath, "spleeter")
	})

	Describe("CheckInstall", func() {
		It("accepts a well formed install", func() {
			Expect(runtime.CheckInstall()).To(Succeed())
		})

		It("rejects an empty base path", func() {
			runtime = conda.NewRuntime("", "spleeter")
			Expect(runtime.CheckInstall()).NotTo(Succeed())
		})

		It("rejects a base path without the init script", func() {
			err := os.Remove(filepath.Join(basePath, "etc", "profile.d", "conda.sh"))
			Expect(err).NotTo(HaveOccurred())

			Expect(runtime.CheckInstall()).NotTo(Succeed())
		})
	})

	Describe("VerifyActivation", func() {
		It("runs an activation probe through bash", func() {
			commandExecutor := &recordingExecutor{}

			Expect(runtime.VerifyActivation(commandExecutor)).To(Succeed())

			Expect(commandExecutor.name).To(Equal("bash"))
			Expect(commandExecutor.args).To(HaveLen(2))
			Expect(commandExecutor.args[0]).To(Equal("-c"))
			Expect(commandExecutor.args[1]).To(ContainSubstring("source " + runtime.InitScriptPath()))
			Expect(commandExecutor.args[1]).To(ContainSubstring("conda activate spleeter"))
		})

		It("surfaces probe output in the error", func() {
			commandExecutor := &recordingExecutor{err: os.ErrPermission}

			err := runtime.VerifyActivation(commandExecutor)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("activation blew up"))
		})
	})

	Describe("Command", func() {
		It("prefixes the command line with the activation", func() {
			commandExecutor := &recordingExecutor{}

			_ = runtime.Command(commandExecutor, "spleeter separate -p spleeter:2stems -o out in.wav")

			Expect(commandExecutor.args[1]).To(ContainSubstring("conda activate spleeter && spleeter separate"))
		})
	})
})
