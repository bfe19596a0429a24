package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-flow/internal/errdefs"
	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

// whisperOutput is the subset of whisper.cpp's -oj document we read.
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// ModelFile is the ggml model path for a model size.
func ModelFile(dir, size string) string {
	name := size
	if size == "large" {
		name = "large-v3"
	}
	return filepath.Join(dir, "ggml-"+name+".bin")
}

func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string, opts Options) (*meeting.TranscriptRecord, error) {
	model := firstNonEmpty(opts.Model, t.cfg.Whisper.Model)
	language := firstNonEmpty(opts.Language, t.cfg.Whisper.Language)
	task := firstNonEmpty(opts.Task, t.cfg.Whisper.Task)

	modelPath := ModelFile(t.cfg.Whisper.ModelDir, model)
	if _, err := os.Stat(modelPath); err != nil {
		return nil, errdefs.Configf("whisper model %q not found at %s", model, modelPath)
	}

	wavPath, err := t.convertToWAV(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	defer t.removeTemp(ctx, wavPath)

	outPrefix := strings.TrimSuffix(wavPath, filepath.Ext(wavPath))

	// -oj writes {outPrefix}.json, -np keeps stdout free of progress noise
	args := []string{
		"-m", modelPath,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
		"-l", language,
		"-t", strconv.Itoa(t.cfg.Whisper.Threads),
		"-np",
	}
	if task == "translate" {
		args = append(args, "-tr")
	}
	if t.cfg.Whisper.Prompt != "" {
		args = append(args, "--prompt", t.cfg.Whisper.Prompt)
	}

	t.logger.Info(ctx, "Starting transcription with model %s (%d threads): %s", model, t.cfg.Whisper.Threads, audioPath)
	start := time.Now()

	if _, err := t.executor.Execute(ctx, t.cfg.Whisper.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}

	jsonPath := outPrefix + ".json"
	defer t.removeTemp(ctx, jsonPath)

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	rec, err := parseWhisperJSON(data)
	if err != nil {
		return nil, err
	}

	if rec.Language == "" && language != "auto" {
		rec.Language = language
	}
	rec.Model = model
	rec.SourcePath = audioPath
	rec.Duration = wavDuration(wavPath)
	rec.GeneratedAt = t.now()

	t.logger.Info(ctx, "Transcription completed in %s: %d segments, language %s",
		time.Since(start).Round(time.Millisecond), len(rec.Segments), rec.Language)
	return rec, nil
}

func parseWhisperJSON(data []byte) (*meeting.TranscriptRecord, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	rec := &meeting.TranscriptRecord{Language: out.Result.Language}
	parts := make([]string, 0, len(out.Transcription))
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		rec.Segments = append(rec.Segments, meeting.Segment{
			Start: time.Duration(seg.Offsets.From) * time.Millisecond,
			End:   time.Duration(seg.Offsets.To) * time.Millisecond,
			Text:  text,
		})
		parts = append(parts, text)
	}
	rec.Text = strings.Join(parts, " ")
	return rec, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
