package subtitles

import (
	"fmt"
	"strings"

	"subtitle-workers/src/application/segments"
)

// GenerateSRT renders the segments as an SRT document. Overlapping
// segments share one cue with each speaker on its own line.
func GenerateSRT(segs []segments.Segment) string {
	groups := groupOverlapping(segs)

	lines := []string{}
	index := 1

	for _, group := range groups {
		start, end := groupSpan(group)

		textLines := make([]string, 0, len(group))
		for _, seg := range group {
			textLines = append(textLines, speakerLine(seg))
		}

		lines = append(lines,
			fmt.Sprintf("%d", index),
			fmt.Sprintf("%s --> %s", FormatSRTTimestamp(start), FormatSRTTimestamp(end)),
			strings.Join(textLines, "\n"),
			"",
		)
		index++
	}

	return strings.Join(lines, "\n")
}
