package subtitles

import (
	"sort"

	"subtitle-workers/src/application/segments"
)

// groupOverlapping buckets time-overlapping segments together so that
// simultaneous speakers render as one multi-line cue. Input order does
// not matter; segments are sorted by start time first.
func groupOverlapping(segs []segments.Segment) [][]segments.Segment {
	sorted := make([]segments.Segment, len(segs))
	copy(sorted, segs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	groups := [][]segments.Segment{}
	var currentGroup []segments.Segment
	currentEnd := 0.0

	for _, seg := range sorted {
		if len(currentGroup) == 0 {
			currentGroup = []segments.Segment{seg}
			currentEnd = seg.End
			continue
		}

		if seg.Start < currentEnd {
			currentGroup = append(currentGroup, seg)
			if seg.End > currentEnd {
				currentEnd = seg.End
			}
			continue
		}

		groups = append(groups, currentGroup)
		currentGroup = []segments.Segment{seg}
		currentEnd = seg.End
	}

	if len(currentGroup) > 0 {
		groups = append(groups, currentGroup)
	}

	return groups
}

func groupSpan(group []segments.Segment) (float64, float64) {
	start := group[0].Start
	end := group[0].End

	for _, seg := range group[1:] {
		if seg.Start < start {
			start = seg.Start
		}
		if seg.End > end {
			end = seg.End
		}
	}

	return start, end
}

func speakerLine(seg segments.Segment) string {
	if seg.Speaker != "" {
		return seg.Speaker + ": " + seg.Text
	}

	return seg.Text
}
