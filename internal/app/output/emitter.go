package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	apperrors "voice-whisper/internal/app/errors"
	"voice-whisper/internal/app/model"
)

// Format selects how a transcript is rendered.
type Format string

const (
	FormatJSON  Format = "json"
	FormatText  Format = "text"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

var formats = []Format{FormatJSON, FormatText, FormatYAML, FormatTable}

// ParseFormat validates a user supplied format name. Empty means JSON.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatJSON, nil
	}
	format := Format(strings.ToLower(name))
	if !lo.Contains(formats, format) {
		return "", apperrors.InvalidField("output format", fmt.Sprintf("%q is not one of %v", name, formats))
	}
	return format, nil
}

// Emitter writes transcripts to a writer, stdout by default.
type Emitter struct {
	w      io.Writer
	format Format
}

func NewEmitter(w io.Writer, format Format) *Emitter {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = FormatJSON
	}
	return &Emitter{w: w, format: format}
}

// Emit renders the transcript. Every format contains the recognized text verbatim.
func (e *Emitter) Emit(transcript *model.Transcript) error {
	if transcript == nil {
		return apperrors.New(apperrors.KindTranscription, "no transcript to print")
	}

	var err error
	switch e.format {
	case FormatText:
		_, err = fmt.Fprintln(e.w, transcript.Text)
	case FormatYAML:
		enc := yaml.NewEncoder(e.w)
		enc.SetIndent(2)
		if err = enc.Encode(transcript); err == nil {
			err = enc.Close()
		}
	case FormatTable:
		err = e.renderTable(transcript)
	default:
		enc := json.NewEncoder(e.w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		err = enc.Encode(transcript)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.KindIO, err, "write transcript")
	}
	return nil
}

func (e *Emitter) renderTable(transcript *model.Transcript) error {
	t := table.NewWriter()
	t.SetOutputMirror(e.w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("%s | %s | %.2fs", lo.CoalesceOrEmpty(transcript.Model, "-"),
		lo.CoalesceOrEmpty(transcript.Language, "-"), transcript.Duration))
	t.AppendHeader(table.Row{"#", "Start", "End", "Text"})
	for _, s := range transcript.Segments {
		t.AppendRow(table.Row{s.ID, formatTimestamp(s.Start), formatTimestamp(s.End), strings.TrimSpace(s.Text)})
	}
	t.Render()

	_, err := fmt.Fprintf(e.w, "\n%s\n", transcript.Text)
	return err
}

func formatTimestamp(sec float64) string {
	ms := int64(sec*1000 + 0.5)
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}
