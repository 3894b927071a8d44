package subtitles

import "fmt"

// FormatSRTTimestamp renders seconds as the SRT form HH:MM:SS,mmm.
func FormatSRTTimestamp(seconds float64) string {
	totalSeconds := int(seconds)
	millis := int((seconds-float64(totalSeconds))*1000 + 0.5)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// FormatASSTimestamp renders seconds as the ASS form H:MM:SS.cc, where cc
// is hundredths of a second.
func FormatASSTimestamp(seconds float64) string {
	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	centis := int((seconds - float64(totalSeconds)) * 100)

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)
}
