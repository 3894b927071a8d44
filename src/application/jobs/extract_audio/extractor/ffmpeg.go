package extractor

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	cloudstorage "subtitle-workers/src/application/cloud_storage/entity"
	"subtitle-workers/src/application/cloud_storage/store"
	"subtitle-workers/src/application/executor"
	"subtitle-workers/src/lib/cerr"
	"subtitle-workers/src/lib/working_dir"

	"github.com/apex/log"
)

// FFmpegExtractor pulls the source media down, strips the audio track
// into a 16 kHz mono PCM wav with ffmpeg, and uploads the result to the
// remote file store.
type FFmpegExtractor struct {
	ffmpegBinPath   string
	workingDir      working_dir.WorkingDir
	fileStore       cloudstorage.FileStore
	commandExecutor executor.Executor
}

func NewFFmpegExtractor(ffmpegBinPath string, workingDirStr string, fileStore cloudstorage.FileStore, commandExecutor executor.Executor) (FFmpegExtractor, error) {
	workingDir, err := working_dir.NewWorkingDir(workingDirStr)
	if err != nil {
		return FFmpegExtractor{}, cerr.Field("working_dir_str", workingDirStr).Wrap(err).Error("Failed to create working dir")
	}

	return FFmpegExtractor{
		ffmpegBinPath:   ffmpegBinPath,
		workingDir:      workingDir,
		fileStore:       fileStore,
		commandExecutor: commandExecutor,
	}, nil
}

// ExtractAudio writes the extracted wav to destinationURL.
func (f FFmpegExtractor) ExtractAudio(ctx context.Context, sourceURL string, destinationURL string) error {
	errctx := cerr.Field("source_url", sourceURL).Field("destination_url", destinationURL)

	log.Info("Creating temp dir to extract audio in")
	tempDir, err := ioutil.TempDir(f.workingDir.TempDir(), "extract-*")
	if err != nil {
		return errctx.Field("temp_dir", f.workingDir.TempDir()).
			Wrap(err).Error("Failed to create temp dir to extract in")
	}
	defer os.RemoveAll(tempDir)

	localSourcePath := filepath.Join(tempDir, path.Base(sourceURL))
	if err := f.fetchSource(ctx, sourceURL, localSourcePath); err != nil {
		return errctx.Wrap(err).Error("Failed to fetch the source media")
	}

	localAudioPath := filepath.Join(tempDir, "audio.wav")
	if err := f.runFFmpeg(localSourcePath, localAudioPath); err != nil {
		return errctx.Wrap(err).Error("Failed to extract the audio track")
	}

	log.Info("Reading extracted audio to memory")
	audioContent, err := os.ReadFile(localAudioPath)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to read the extracted wav")
	}

	log.Info("Writing audio to remote file store")
	err = f.fileStore.WriteFile(ctx, destinationURL, audioContent)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to write audio to the cloud")
	}

	return nil
}

func (f FFmpegExtractor) fetchSource(ctx context.Context, sourceURL string, localPath string) error {
	if strings.HasPrefix(sourceURL, store.GOOGLE_STORAGE_HOST) {
		contents, err := f.fileStore.GetFile(ctx, sourceURL)
		if err != nil {
			return cerr.Wrap(err).Error("Failed to get source media from the file store")
		}

		if err := os.WriteFile(localPath, contents, os.ModePerm); err != nil {
			return cerr.Wrap(err).Error("Failed to write source media to disk")
		}

		return nil
	}

	return f.downloadGenericFile(sourceURL, localPath)
}

func (f FFmpegExtractor) downloadGenericFile(sourceURL string, localPath string) error {
	log.Info("Downloading source media over HTTP")

	resp, err := http.Get(sourceURL)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to fetch file from provided source")
	}
	defer resp.Body.Close()

	out, err := os.Create(localPath)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to create temp file")
	}
	defer out.Close()

	if _, err = io.Copy(out, resp.Body); err != nil {
		return cerr.Wrap(err).Error("Failed to write media contents out to file")
	}

	return nil
}

func (f FFmpegExtractor) runFFmpeg(sourcePath string, audioPath string) error {
	log.Info("Running ffmpeg")

	cmd := f.commandExecutor.Command(f.ffmpegBinPath,
		"-y",
		"-i", sourcePath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		audioPath)

	output, err := cmd.CombinedOutput()
	if err != nil {
		errMsg := fmt.Sprintf("Error occurred while running ffmpeg - output: %s", string(output))
		return cerr.Wrap(err).Error(errMsg)
	}

	return nil
}
