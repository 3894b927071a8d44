package segments

import "strings"

// DedupeRepeatedText blanks out segments that repeat the text of the most
// recent non-empty segment. Speech models emit these runs on music or
// silence, and blanking instead of dropping keeps the timeline intact.
func DedupeRepeatedText(segs []Segment) []Segment {
	processed := make([]Segment, 0, len(segs))
	lastNonEmptyText := ""

	for _, seg := range segs {
		currentText := strings.TrimSpace(seg.Text)
		if currentText == "" {
			processed = append(processed, seg)
			continue
		}

		if currentText == lastNonEmptyText {
			blanked := seg
			blanked.Text = ""
			processed = append(processed, blanked)
			continue
		}

		processed = append(processed, seg)
		lastNonEmptyText = currentText
	}

	return processed
}
