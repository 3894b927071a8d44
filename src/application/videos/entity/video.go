package entity

type JobStatus string

const (
	RequestedStatus  JobStatus = "requested"
	ProcessingStatus JobStatus = "processing"
	ErrorStatus      JobStatus = "error"
	DoneStatus       JobStatus = "done"
)

// Video is the record tracked for one subtitle generation request: where
// the source media lives, how far the pipeline has gotten, and where the
// finished subtitle files ended up.
type Video struct {
	VideoID           string
	SourceURL         string
	JobStatus         JobStatus
	JobStatusMessage  string
	JobStatusDebugLog string
	JobProgress       int
	SubtitleURLs      map[string]string
}
