package separator

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"

	cloudstorage "subtitle-workers/src/application/cloud_storage/entity"
	"subtitle-workers/src/lib/cerr"
	"subtitle-workers/src/lib/working_dir"

	"github.com/apex/log"
)

// RemoteVocalExtractor fetches a track from the remote file store, runs
// the local extraction against it, and uploads the resulting vocal
// artifact back to the store.
type RemoteVocalExtractor struct {
	workingDir      working_dir.WorkingDir
	remoteFileStore cloudstorage.FileStore
	localExtractor  VocalExtractor
}

func NewRemoteVocalExtractor(workingDirStr string, remoteFileStore cloudstorage.FileStore, localExtractor VocalExtractor) (RemoteVocalExtractor, error) {
	workingDir, err := working_dir.NewWorkingDir(workingDirStr)
	if err != nil {
		return RemoteVocalExtractor{}, cerr.Wrap(err).Error("Failed to create working directory object")
	}

	return RemoteVocalExtractor{
		workingDir:      workingDir,
		remoteFileStore: remoteFileStore,
		localExtractor:  localExtractor,
	}, nil
}

// Extract returns the remote URL of the uploaded vocal artifact.
func (r RemoteVocalExtractor) Extract(ctx context.Context, remoteSourcePath string, remoteDestDir string) (string, error) {
	logger := log.WithFields(log.Fields{
		"remoteSourcePath": remoteSourcePath,
		"remoteDestDir":    remoteDestDir,
	})

	logger.Info("Fetching track from remote file store")
	fileContents, err := r.remoteFileStore.GetFile(ctx, remoteSourcePath)
	if err != nil {
		return "", cerr.Wrap(err).Error("Failed to get remote file")
	}

	logger.Info("Creating temp directory for the original track")
	tempDir, removeTempDir, err := r.createTempDir("separation")
	if err != nil {
		return "", cerr.Wrap(err).Error("Failed to create directory for the original track")
	}

	defer removeTempDir()

	localTrackPath := filepath.Join(tempDir, path.Base(remoteSourcePath))
	if err := os.WriteFile(localTrackPath, fileContents, os.ModePerm); err != nil {
		return "", cerr.Wrap(err).Error("Failed to write file temporarily to disk")
	}

	logger.Info("Starting the local vocal extraction")
	vocalPath, err := r.localExtractor.Extract(ctx, localTrackPath)
	if err != nil {
		return "", cerr.Wrap(err).Error("Failed to run local vocal extraction")
	}

	vocalContents, err := os.ReadFile(vocalPath)
	if err != nil {
		return "", cerr.Wrap(err).Error("Failed to read the extracted vocal file")
	}

	remoteVocalPath := fmt.Sprintf("%s/%s", remoteDestDir, filepath.Base(vocalPath))

	logger.Info("Uploading vocal artifact")
	if err := r.remoteFileStore.WriteFile(ctx, remoteVocalPath, vocalContents); err != nil {
		return "", cerr.Wrap(err).Error("Failed to upload the vocal artifact")
	}

	return remoteVocalPath, nil
}

func (r RemoteVocalExtractor) createTempDir(prefix string) (string, func(), error) {
	tempDir, err := ioutil.TempDir(r.workingDir.TempDir(), fmt.Sprintf("%s-*", prefix))
	if err != nil {
		return "", nil, cerr.Wrap(err).Error("Failed to create a temporary directory")
	}

	removeTempDirFn := func() {
		err := os.RemoveAll(tempDir)
		if err != nil {
			log.WithField("tempDir", tempDir).Error("Failed to remove temp dir")
		}
	}

	return tempDir, removeTempDirFn, nil
}
