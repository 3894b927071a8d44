package job_message

// VideoIdentifier names the video record a pipeline message belongs to.
// Every job message embeds it.
type VideoIdentifier struct {
	VideoID string `json:"video_id"`
}

// PipelineOptions carries the caller's choices through the whole job
// chain so that every stage can decide its own behavior without another
// store lookup.
type PipelineOptions struct {
	TargetLanguage     string `json:"target_language"`
	SourceLanguage     string `json:"source_language,omitempty"`
	ModelSize          string `json:"model_size"`
	LLMBackend         string `json:"llm_backend"`
	LLMModelName       string `json:"llm_model_name,omitempty"`
	SkipSeparation     bool   `json:"skip_separation"`
	UseLLMCorrection   bool   `json:"use_llm_correction"`
	UseLLMSegmentation bool   `json:"use_llm_segmentation"`
	UseLLMTranslation  bool   `json:"use_llm_translation"`
}

const (
	// DefaultModelSize is the transcription model used when the caller
	// does not pick one.
	DefaultModelSize = "large-v3"
	// DefaultTargetLanguage is the subtitle language used when the caller
	// does not pick one.
	DefaultTargetLanguage = "zh"
)
