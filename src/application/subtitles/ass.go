package subtitles

import (
	"fmt"
	"strings"

	"subtitle-workers/src/application/segments"
)

const assHeader = "[Script Info]\n" +
	"Title: Video Subtitle ASS File\n" +
	"ScriptType: v4.00+\n" +
	"Collisions: Normal\n" +
	"PlayResX: 1920\n" +
	"PlayResY: 1080\n" +
	"Timer: 100.0000\n\n" +
	"[V4+ Styles]\n" +
	"Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n" +
	"Style: Default,Arial,48,&H00FFFFFF,&H000000FF,&H00000000,&H64000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n" +
	"[Events]\n" +
	"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n"

// GenerateASS renders the segments as an ASS document with a fixed
// 1080p default style. Overlapping segments share one dialogue event,
// joined with ASS hard line breaks.
func GenerateASS(segs []segments.Segment) string {
	groups := groupOverlapping(segs)

	events := make([]string, 0, len(groups))
	for _, group := range groups {
		start, end := groupSpan(group)

		textLines := make([]string, 0, len(group))
		for _, seg := range group {
			textLines = append(textLines, speakerLine(seg))
		}
		text := strings.Join(textLines, "\\N")

		event := fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s",
			FormatASSTimestamp(start), FormatASSTimestamp(end), text)
		events = append(events, event)
	}

	return assHeader + strings.Join(events, "\n")
}
