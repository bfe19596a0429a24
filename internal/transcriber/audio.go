package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-audio/wav"
)

// AudioExtensions are the input formats accepted by the pipeline.
var AudioExtensions = []string{".wav", ".mp3", ".m4a", ".flac", ".ogg", ".wma", ".aac"}

// IsAudioFile reports whether path has a supported audio extension.
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range AudioExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// convertToWAV resamples the input into a 16kHz mono PCM WAV in the temp dir,
// the format whisper.cpp expects.
func (t *implTranscriber) convertToWAV(ctx context.Context, audioPath string) (string, error) {
	if err := os.MkdirAll(t.cfg.Paths.Temp, 0755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	wavPath := filepath.Join(t.cfg.Paths.Temp, stem+"_16k.wav")

	t.logger.Info(ctx, "Converting audio: %s", audioPath)

	// -vn drops any video stream, pcm_s16le is what whisper.cpp reads
	args := []string{
		"-i", audioPath,
		"-vn",
		"-ar", strconv.Itoa(t.cfg.FFmpeg.SampleRate),
		"-ac", strconv.Itoa(t.cfg.FFmpeg.Channels),
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		wavPath,
	}

	if _, err := t.executor.Execute(ctx, t.cfg.FFmpeg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg convert: %w", err)
	}

	t.logger.Debug(ctx, "Audio converted: %s", wavPath)
	return wavPath, nil
}

// wavDuration reads the playback length from a WAV header. It returns 0 when
// the file is not a readable WAV.
func wavDuration(path string) time.Duration {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if err := dec.FwdToPCM(); err != nil {
		return 0
	}
	bytesPerSec := int64(dec.SampleRate) * int64(dec.NumChans) * int64(dec.BitDepth/8)
	if bytesPerSec == 0 {
		return 0
	}
	return time.Duration(float64(dec.PCMLen()) / float64(bytesPerSec) * float64(time.Second))
}

func (t *implTranscriber) removeTemp(ctx context.Context, path string) {
	if t.cfg.Pipeline.KeepTemp {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		t.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", path, err)
	} else {
		t.logger.Debug(ctx, "Cleaned up temp file: %s", path)
	}
}
