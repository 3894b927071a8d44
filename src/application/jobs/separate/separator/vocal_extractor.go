package separator

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

const outputDirName = "output"

// vocalPrefix matches the vocal stem file regardless of the container
// format the model chose to emit.
const vocalPrefix = "vocals"

// VocalExtractor turns one input media file into a single isolated-vocal
// file next to the input, named <basename>-output.<ext>. The separation
// tool itself sits behind the Separator interface so tests can substitute
// a stub that deposits fixture files.
type VocalExtractor struct {
	separator Separator
}

func NewVocalExtractor(sep Separator) VocalExtractor {
	return VocalExtractor{
		separator: sep,
	}
}

// Extract runs the whole extraction synchronously and returns the final
// artifact path. Either that file exists on return or an error with a
// specific kind is returned; there is no partial-success state.
func (v VocalExtractor) Extract(ctx context.Context, inputPath string) (string, error) {
	logger := log.WithField("inputPath", inputPath)

	if err := v.separator.Preflight(); err != nil {
		return "", err
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return "", NewError(InputNotFoundError, "Input file does not exist", err)
	}

	if !info.Mode().IsRegular() {
		return "", NewError(InputNotFoundError, "Input path is not a regular file", nil)
	}

	inputDir := filepath.Dir(inputPath)
	fileName := filepath.Base(inputPath)
	baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	outputDir := filepath.Join(inputDir, outputDirName)
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return "", NewError(OutputWriteError, "Failed to create the output directory", err)
	}

	logger.Info("Running vocal separation")
	if err := v.separator.Separate(ctx, inputPath, outputDir, TwoStemsMode, MaxTrackDurationSeconds); err != nil {
		if KindOf(err) != InvalidKind {
			return "", err
		}

		return "", NewError(SeparationFailedError, "Separation tool failed", err)
	}

	logger.Info("Searching for the vocal artifact")
	vocalPath, err := findVocalArtifact(filepath.Join(outputDir, baseName))
	if err != nil {
		return "", err
	}

	finalPath := filepath.Join(inputDir, baseName+"-output"+filepath.Ext(vocalPath))

	// a stale file from a previous run at the destination gets overwritten
	if err := os.Rename(vocalPath, finalPath); err != nil {
		return "", NewError(OutputWriteError, "Failed to move the vocal artifact to its final path", err)
	}

	logger.WithField("finalPath", finalPath).Info("Vocal extraction complete")
	return finalPath, nil
}

// findVocalArtifact walks the tool's per-input output directory and picks
// the first file whose name starts with "vocals", case-insensitively.
// filepath.WalkDir visits entries in lexical order, so the pick is
// deterministic when the model emits more than one candidate.
var errArtifactFound = errors.New("artifact found")

func findVocalArtifact(stemDir string) (string, error) {
	var vocalPath string

	err := filepath.WalkDir(stemDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		if strings.HasPrefix(strings.ToLower(entry.Name()), vocalPrefix) {
			vocalPath = path
			return errArtifactFound
		}

		return nil
	})

	if err != nil && !errors.Is(err, errArtifactFound) {
		return "", NewError(ArtifactNotFoundError, "Failed to search the separation output directory", err)
	}

	if vocalPath == "" {
		return "", NewError(ArtifactNotFoundError, "No vocal artifact was produced by the separation tool", nil)
	}

	return vocalPath, nil
}
