package separator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"subtitle-workers/src/application/conda"
	"subtitle-workers/src/application/integration_test/dummy"
	"subtitle-workers/src/application/jobs/separate/separator"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// stubSeparator passes preflight and deposits canned artifact files,
// letting artifact discovery be tested without the tool in the way.
type stubSeparator struct {
	artifacts    map[string][]byte
	separateErr  error
	preflightErr error
}

func (s stubSeparator) Preflight() error {
	return s.preflightErr
}

func (s stubSeparator) Separate(_ context.Context, inputPath string, outputDir string, _ string, _ int) error {
	if s.separateErr != nil {
		return s.separateErr
	}

	fileName := filepath.Base(inputPath)
	baseName := fileName[:len(fileName)-len(filepath.Ext(fileName))]
	stemDir := filepath.Join(outputDir, baseName)
	if err := os.MkdirAll(stemDir, os.ModePerm); err != nil {
		return err
	}

	for name, contents := range s.artifacts {
		if err := os.WriteFile(filepath.Join(stemDir, name), contents, os.ModePerm); err != nil {
			return err
		}
	}

	return nil
}

var _ = Describe("VocalExtractor", func() {
	var (
		condaBasePath string
		projectPath   string
		inputDir      string
		inputPath     string
		inputContents []byte

		dummyExecutor *dummy.SpleeterExecutor

		extractor separator.VocalExtractor
	)

	newExtractor := func() separator.VocalExtractor {
		condaRuntime := conda.NewRuntime(condaBasePath, separator.CondaEnvName)
		spleeterSeparator := separator.NewSpleeterSeparator(condaRuntime, projectPath, dummyExecutor)
		return separator.NewVocalExtractor(spleeterSeparator)
	}

	BeforeEach(func() {
		By("Setting up a fake conda install", func() {
			var err error
			condaBasePath, err = os.MkdirTemp(workingDir, "conda-base-*")
			Expect(err).NotTo(HaveOccurred())

			initScriptDir := filepath.Join(condaBasePath, "etc", "profile.d")
			err = os.MkdirAll(initScriptDir, os.ModePerm)
			Expect(err).NotTo(HaveOccurred())

			err = os.WriteFile(filepath.Join(initScriptDir, "conda.sh"), []byte("# conda hook"), os.ModePerm)
			Expect(err).NotTo(HaveOccurred())
		})

		By("Setting up the project and input directories", func() {
			var err error
			projectPath, err = os.MkdirTemp(workingDir, "project-*")
			Expect(err).NotTo(HaveOccurred())

			inputDir, err = os.MkdirTemp(workingDir, "input-*")
			Expect(err).NotTo(HaveOccurred())

			inputContents = []byte("cool_jamz")
			inputPath = filepath.Join(inputDir, "my_video.wav")
			err = os.WriteFile(inputPath, inputContents, os.ModePerm)
			Expect(err).NotTo(HaveOccurred())
		})

		By("Instantiating the extractor", func() {
			dummyExecutor = dummy.NewDummySpleeterExecutor()
			extractor = newExtractor()
		})
	})

	Describe("Happy path", func() {
		var (
			outputPath string
			err        error
		)

		JustBeforeEach(func() {
			outputPath, err = extractor.Extract(context.Background(), inputPath)
		})

		It("succeeds", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns the artifact path next to the input", func() {
			Expect(outputPath).To(Equal(filepath.Join(inputDir, "my_video-output.wav")))
		})

		It("writes the vocal stem contents to the artifact", func() {
			contents, readErr := os.ReadFile(outputPath)
			Expect(readErr).NotTo(HaveOccurred())
			Expect(contents).To(Equal([]byte("cool_jamz-vocals")))
		})

		It("moves rather than copies the vocal stem", func() {
			stemPath := filepath.Join(inputDir, "output", "my_video", "vocals.wav")
			_, statErr := os.Stat(stemPath)
			Expect(os.IsNotExist(statErr)).To(BeTrue())
		})

		It("leaves the input file in place", func() {
			contents, readErr := os.ReadFile(inputPath)
			Expect(readErr).NotTo(HaveOccurred())
			Expect(contents).To(Equal(inputContents))
		})

		Describe("With a stale artifact at the destination", func() {
			BeforeEach(func() {
				stalePath := filepath.Join(inputDir, "my_video-output.wav")
				writeErr := os.WriteFile(stalePath, []byte("stale"), os.ModePerm)
				Expect(writeErr).NotTo(HaveOccurred())
			})

			It("overwrites it with the fresh artifact", func() {
				Expect(err).NotTo(HaveOccurred())
				contents, readErr := os.ReadFile(outputPath)
				Expect(readErr).NotTo(HaveOccurred())
				Expect(contents).To(Equal([]byte("cool_jamz-vocals")))
			})
		})
	})

	Describe("Preflight failures", func() {
		expectKind := func(expectedKind separator.Kind) {
			_, err := extractor.Extract(context.Background(), inputPath)
			Expect(err).To(HaveOccurred())
			Expect(separator.KindOf(err)).To(Equal(expectedKind))
		}

		Describe("Conda base path unset", func() {
			BeforeEach(func() {
				condaBasePath = ""
				// an unavailable executor proves configuration is
				// rejected before anything is run
				dummyExecutor.Unavailable = true
				extractor = newExtractor()
			})

			It("fails with a configuration error without running anything", func() {
				expectKind(separator.ConfigurationError)
			})
		})

		Describe("Conda init script missing", func() {
			BeforeEach(func() {
				err := os.RemoveAll(filepath.Join(condaBasePath, "etc"))
				Expect(err).NotTo(HaveOccurred())
				dummyExecutor.Unavailable = true
				extractor = newExtractor()
			})

			It("fails with a configuration error without running anything", func() {
				expectKind(separator.ConfigurationError)
			})
		})

		Describe("Environment cannot be activated", func() {
			BeforeEach(func() {
				dummyExecutor.Unavailable = true
				extractor = newExtractor()
			})

			It("fails with an environment error", func() {
				expectKind(separator.EnvironmentError)
			})
		})

		Describe("Project path unset", func() {
			BeforeEach(func() {
				projectPath = ""
				extractor = newExtractor()
			})

			It("fails with a configuration error", func() {
				expectKind(separator.ConfigurationError)
			})
		})

		Describe("Project path is not a directory", func() {
			BeforeEach(func() {
				projectPath = inputPath
				extractor = newExtractor()
			})

			It("fails with an environment error", func() {
				expectKind(separator.EnvironmentError)
			})
		})
	})

	Describe("Input file missing", func() {
		BeforeEach(func() {
			err := os.Remove(inputPath)
			Expect(err).NotTo(HaveOccurred())
		})

		It("fails with an input not found error", func() {
			_, err := extractor.Extract(context.Background(), inputPath)
			Expect(separator.KindOf(err)).To(Equal(separator.InputNotFoundError))
		})

		It("does not create the output directory", func() {
			_, _ = extractor.Extract(context.Background(), inputPath)
			_, statErr := os.Stat(filepath.Join(inputDir, "output"))
			Expect(os.IsNotExist(statErr)).To(BeTrue())
		})
	})

	Describe("Input path is a directory", func() {
		It("fails with an input not found error", func() {
			_, err := extractor.Extract(context.Background(), inputDir)
			Expect(separator.KindOf(err)).To(Equal(separator.InputNotFoundError))
		})
	})

	Describe("Separation tool failures", func() {
		Describe("Tool exits with an error", func() {
			BeforeEach(func() {
				extractor = separator.NewVocalExtractor(stubSeparator{
					separateErr: errors.New("model exploded"),
				})
			})

			It("fails with a separation failed error", func() {
				_, err := extractor.Extract(context.Background(), inputPath)
				Expect(separator.KindOf(err)).To(Equal(separator.SeparationFailedError))
			})
		})

		Describe("Tool succeeds but produces no vocal stem", func() {
			BeforeEach(func() {
				extractor = separator.NewVocalExtractor(stubSeparator{
					artifacts: map[string][]byte{
						"accompaniment.wav": []byte("not-the-vocals"),
					},
				})
			})

			It("fails with an artifact not found error", func() {
				_, err := extractor.Extract(context.Background(), inputPath)
				Expect(separator.KindOf(err)).To(Equal(separator.ArtifactNotFoundError))
			})

			It("does not write a final artifact", func() {
				_, _ = extractor.Extract(context.Background(), inputPath)
				_, statErr := os.Stat(filepath.Join(inputDir, "my_video-output.wav"))
				Expect(os.IsNotExist(statErr)).To(BeTrue())
			})
		})
	})

	Describe("Artifact discovery", func() {
		Describe("Multiple vocal candidates", func() {
			BeforeEach(func() {
				extractor = separator.NewVocalExtractor(stubSeparator{
					artifacts: map[string][]byte{
						"Vocals-B.wav": []byte("first-lexically"),
						"vocals-a.wav": []byte("second-lexically"),
					},
				})
			})

			It("picks the lexically first candidate, case-insensitively", func() {
				outputPath, err := extractor.Extract(context.Background(), inputPath)
				Expect(err).NotTo(HaveOccurred())

				contents, readErr := os.ReadFile(outputPath)
				Expect(readErr).NotTo(HaveOccurred())
				Expect(contents).To(Equal([]byte("first-lexically")))
			})
		})

		Describe("Vocal stem in a different container format", func() {
			BeforeEach(func() {
				extractor = separator.NewVocalExtractor(stubSeparator{
					artifacts: map[string][]byte{
						"vocals.ogg": []byte("oggy"),
					},
				})
			})

			It("keeps the artifact's own extension on the final path", func() {
				outputPath, err := extractor.Extract(context.Background(), inputPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(outputPath).To(Equal(filepath.Join(inputDir, "my_video-output.ogg")))
			})
		})
	})
})
