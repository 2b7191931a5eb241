package model

// Transcript is the structured speech-to-text result of one run.
type Transcript struct {
	Task     string    `json:"task,omitempty" yaml:"task,omitempty"`
	Language string    `json:"language,omitempty" yaml:"language,omitempty"`
	Duration float64   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Text     string    `json:"text" yaml:"text"`
	Segments []Segment `json:"segments,omitempty" yaml:"segments,omitempty"`
	Words    []Word    `json:"words,omitempty" yaml:"words,omitempty"`
	Model    string    `json:"model,omitempty" yaml:"model,omitempty"`
}

// Segment is a time-aligned piece of the transcript.
type Segment struct {
	ID               int     `json:"id" yaml:"id"`
	Start            float64 `json:"start" yaml:"start"`
	End              float64 `json:"end" yaml:"end"`
	Text             string  `json:"text" yaml:"text"`
	Temperature      float64 `json:"temperature" yaml:"temperature"`
	AvgLogprob       float64 `json:"avg_logprob" yaml:"avg_logprob"`
	CompressionRatio float64 `json:"compression_ratio" yaml:"compression_ratio"`
	NoSpeechProb     float64 `json:"no_speech_prob" yaml:"no_speech_prob"`
}

// Word carries word-level timing when the service returns it.
type Word struct {
	Word  string  `json:"word" yaml:"word"`
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}
