package segments

// Segment is one timed span of transcribed (or translated) speech.
// Times are in seconds from the start of the media.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

func (s Segment) Duration() float64 {
	return s.End - s.Start
}
