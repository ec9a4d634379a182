package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Decoder transcodes src into a mono 16-bit PCM WAV at dst.
type Decoder interface {
	Decode(ctx context.Context, src, dst string, codec Codec) error
}

// FFmpegDecoder shells out to an ffmpeg binary.
type FFmpegDecoder struct {
	Binary     string
	SampleRate int
	Channels   int
	// Timeout bounds one conversion. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// NewFFmpegDecoder returns a decoder targeting the normalized layout.
// An empty binary resolves "ffmpeg" from PATH.
func NewFFmpegDecoder(binary string) *FFmpegDecoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegDecoder{Binary: binary, SampleRate: TargetSampleRate, Channels: TargetChannels}
}

func (d *FFmpegDecoder) args(src, dst string, codec Codec) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y"}
	if codec != "" && codec != CodecWAV {
		args = append(args, "-f", demuxer(codec))
	}
	return append(args,
		"-i", src,
		"-ac", strconv.Itoa(d.Channels),
		"-ar", strconv.Itoa(d.SampleRate),
		"-sample_fmt", "s16",
		"-f", "wav",
		dst,
	)
}

// demuxer maps a codec onto the ffmpeg input format name.
func demuxer(c Codec) string {
	switch c {
	case CodecMP4:
		return "mov"
	case CodecWebM:
		return "matroska"
	default:
		return string(c)
	}
}

func (d *FFmpegDecoder) Decode(ctx context.Context, src, dst string, codec Codec) error {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.Binary, d.args(src, dst, codec)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("ffmpeg %s: %w", codec, err)
		}
		return fmt.Errorf("ffmpeg %s: %w: %s", codec, err, msg)
	}
	return nil
}
