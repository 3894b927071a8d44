package separator

import "context"

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// TwoStemsMode asks the separation model for exactly two stems:
// vocals and accompaniment.
const TwoStemsMode = "spleeter:2stems"

// MaxTrackDurationSeconds is passed as the tool's duration cap. It bounds
// the audio processed, not wall clock time, and is set high enough to be
// effectively unbounded for real inputs.
const MaxTrackDurationSeconds = 360000

//counterfeiter:generate . Separator
type Separator interface {
	// Preflight validates the tool's runtime before any work happens.
	Preflight() error
	// Separate runs the separation synchronously. On success the tool has
	// populated outputDir/<input basename>/ with one file per stem.
	Separate(ctx context.Context, inputPath string, outputDir string, stemMode string, durationCapSeconds int) error
}
