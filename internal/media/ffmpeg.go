// Package media extracts still frames from video files using ffmpeg.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// Extractor builds decoders over video files. Paths to the ffmpeg and
// ffprobe binaries come from configuration.
type Extractor struct {
	ffmpegPath  string
	ffprobePath string
}

// NewExtractor creates an Extractor for the given binary paths.
func NewExtractor(ffmpegPath, ffprobePath string) *Extractor {
	return &Extractor{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// Available returns true if the configured ffmpeg binary can be found.
func (e *Extractor) Available() bool {
	_, err := exec.LookPath(e.ffmpegPath)
	return err == nil
}

// probeOutput mirrors ffprobe JSON structure.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
	} `json:"streams"`
}

// Open validates the file with ffprobe (it must contain a video stream)
// and returns a Decoder bound to it. The decoder is opened once per job
// run and reused for every seek; callers must Close it on all exit paths.
func (e *Extractor) Open(ctx context.Context, path string) (*Decoder, error) {
	cmd := exec.CommandContext(ctx,
		e.ffprobePath,
		"-v", "error",
		"-show_entries", "stream=codec_type:format=duration",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("probe video: %w", err)
	}

	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("probe video: parse ffprobe output: %w", err)
	}

	hasVideo := false
	for _, s := range probe.Streams {
		if s.CodecType == "video" {
			hasVideo = true
			break
		}
	}
	if !hasVideo {
		return nil, fmt.Errorf("probe video: no video stream in %s", path)
	}

	duration, _ := strconv.ParseFloat(probe.Format.Duration, 64)

	return &Decoder{extractor: e, path: path, duration: duration}, nil
}

// Decoder captures single frames from one validated video file.
type Decoder struct {
	extractor *Extractor
	path      string
	duration  float64
	closed    bool
}

// Duration returns the probed media duration in seconds (0 if unknown).
func (d *Decoder) Duration() float64 {
	return d.duration
}

// CaptureJPEG seeks to the timestamp, decodes exactly one frame, and
// returns it JPEG-encoded. A seek past the end or a decode miss is a
// failure for this timestamp only; the decoder stays usable.
func (d *Decoder) CaptureJPEG(ctx context.Context, timestampMS int) ([]byte, error) {
	if d.closed {
		return nil, fmt.Errorf("capture frame: decoder is closed")
	}

	seek := formatSeek(timestampMS)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx,
		d.extractor.ffmpegPath,
		"-v", "error",
		"-ss", seek,
		"-i", d.path,
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"pipe:1",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("capture frame at %dms: %w: %s", timestampMS, err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("capture frame at %dms: no frame decoded", timestampMS)
	}

	return stdout.Bytes(), nil
}

// Close releases the decoder. Further captures fail.
func (d *Decoder) Close() error {
	d.closed = true
	return nil
}

// formatSeek renders a millisecond offset as an ffmpeg -ss value ("1.500").
func formatSeek(timestampMS int) string {
	return fmt.Sprintf("%d.%03d", timestampMS/1000, timestampMS%1000)
}
