package model

import "strconv"

type FFProbeOutput struct {
	Streams []FFProbeStream `json:"streams"`
	Format  FFProbeFormat   `json:"format"`
}

type FFProbeStream struct {
	Index      int    `json:"index"`
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	SampleRate int    `json:"sample_rate,string"`
	Channels   int    `json:"channels"`
}

type FFProbeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

// AudioStreams returns the streams whose codec type is audio.
func (o *FFProbeOutput) AudioStreams() []FFProbeStream {
	var streams []FFProbeStream
	for _, stream := range o.Streams {
		if stream.CodecType == "audio" {
			streams = append(streams, stream)
		}
	}
	return streams
}

// DurationSeconds parses the container duration; unknown durations are 0.
func (o *FFProbeOutput) DurationSeconds() float64 {
	d, err := strconv.ParseFloat(o.Format.Duration, 64)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
