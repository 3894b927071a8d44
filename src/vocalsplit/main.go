package main

import (
	"context"
	"fmt"
	"os"

	"subtitle-workers/src/application/conda"
	"subtitle-workers/src/application/executor"
	"subtitle-workers/src/application/jobs/separate/separator"
)

// vocalsplit runs the vocal extraction flow against a local media file,
// without the queue or the remote file store in the way. Useful for
// verifying a spleeter setup and for one-off extractions.
//
// Usage: vocalsplit <media-file>
//
// Requires CONDA_BASE_PATH and SPLEETER_PROJECT_PATH to be set. On
// success the path of the extracted vocal track is printed to stdout.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: vocalsplit <media-file>")
		os.Exit(1)
	}

	condaRuntime := conda.NewRuntime(os.Getenv("CONDA_BASE_PATH"), separator.CondaEnvName)
	spleeterSeparator := separator.NewSpleeterSeparator(condaRuntime, os.Getenv("SPLEETER_PROJECT_PATH"), executor.BinaryFileExecutor{})
	vocalExtractor := separator.NewVocalExtractor(spleeterSeparator)

	outputPath, err := vocalExtractor.Extract(context.Background(), os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(outputPath)
}
