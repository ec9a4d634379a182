package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

const (
	// TargetSampleRate, TargetChannels and TargetBitDepth describe the
	// normalized layout handed to every downstream analyzer.
	TargetSampleRate = 16000
	TargetChannels   = 1
	TargetBitDepth   = 16

	formatPCM        = 1
	formatFloat      = 3
	formatExtensible = 0xfffe
)

// ErrNotWAV is returned by ReadWAV when the input has no RIFF/WAVE preamble.
var ErrNotWAV = errors.New("audio: not a RIFF/WAVE stream")

// ErrNonFinite is returned by ReadWAV when a float sample is NaN or infinite.
var ErrNonFinite = errors.New("audio: non-finite sample")

// Waveform is a mono signal with samples normalised to [-1, 1].
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the playback length of the waveform.
func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(w.Samples)) / float64(w.SampleRate) * float64(time.Second))
}

// Seconds returns the playback length in seconds.
func (w Waveform) Seconds() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Head returns the leading d of the waveform.
func (w Waveform) Head(d time.Duration) Waveform {
	n := int(d.Seconds() * float64(w.SampleRate))
	if n > len(w.Samples) || n < 0 {
		n = len(w.Samples)
	}
	return Waveform{Samples: w.Samples[:n], SampleRate: w.SampleRate}
}

// PCM16 renders the waveform as 16-bit signed little-endian PCM.
func (w Waveform) PCM16() []byte {
	out := make([]byte, len(w.Samples)*2)
	for i, s := range w.Samples {
		v := math.Round(s * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v)))
	}
	return out
}

// ReadWAVFile opens path and decodes it with ReadWAV.
func ReadWAVFile(path string) (Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return Waveform{}, fmt.Errorf("audio: open %q: %w", path, err)
	}
	defer f.Close()
	return ReadWAV(f)
}

type wavFormat struct {
	tag        uint16
	channels   int
	sampleRate int
	bits       int
}

// ReadWAV decodes a RIFF/WAVE stream holding integer PCM (8/16/24/32-bit)
// or 32-bit float samples. Multi-channel input is down-mixed to mono by
// averaging all channels per frame.
func ReadWAV(r io.Reader) (Waveform, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Waveform{}, fmt.Errorf("audio: read wav: %w", err)
	}
	if !IsWAV(data) {
		return Waveform{}, ErrNotWAV
	}

	var (
		fmtChunk *wavFormat
		pcm      []byte
	)
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		end := body + size
		if end > len(data) || size < 0 {
			// Streaming encoders leave the data size unset; take what is there.
			end = len(data)
		}
		switch id {
		case "fmt ":
			if end-body < 16 {
				return Waveform{}, fmt.Errorf("audio: fmt chunk too short (%d bytes)", end-body)
			}
			b := data[body:end]
			fmtChunk = &wavFormat{
				tag:        binary.LittleEndian.Uint16(b[0:2]),
				channels:   int(binary.LittleEndian.Uint16(b[2:4])),
				sampleRate: int(binary.LittleEndian.Uint32(b[4:8])),
				bits:       int(binary.LittleEndian.Uint16(b[14:16])),
			}
			if fmtChunk.tag == formatExtensible && len(b) >= 26 {
				fmtChunk.tag = binary.LittleEndian.Uint16(b[24:26])
			}
		case "data":
			pcm = data[body:end]
		}
		// Chunks are word aligned.
		off = end + (size & 1)
	}

	if fmtChunk == nil {
		return Waveform{}, errors.New("audio: missing fmt chunk")
	}
	if pcm == nil {
		return Waveform{}, errors.New("audio: missing data chunk")
	}
	if fmtChunk.channels <= 0 || fmtChunk.sampleRate <= 0 {
		return Waveform{}, fmt.Errorf("audio: invalid format %d ch @ %d Hz", fmtChunk.channels, fmtChunk.sampleRate)
	}

	samples, err := decodeSamples(pcm, *fmtChunk)
	if err != nil {
		return Waveform{}, err
	}
	return Waveform{Samples: samples, SampleRate: fmtChunk.sampleRate}, nil
}

func decodeSamples(pcm []byte, f wavFormat) ([]float64, error) {
	width := f.bits / 8
	if width == 0 {
		return nil, fmt.Errorf("audio: unsupported bit depth %d", f.bits)
	}

	var sample func(b []byte) float64
	switch {
	case f.tag == formatPCM && f.bits == 8:
		sample = func(b []byte) float64 { return (float64(b[0]) - 128) / 128 }
	case f.tag == formatPCM && f.bits == 16:
		sample = func(b []byte) float64 { return float64(int16(binary.LittleEndian.Uint16(b))) / 32768 }
	case f.tag == formatPCM && f.bits == 24:
		sample = func(b []byte) float64 {
			v := int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
			return float64(v) / 8388608
		}
	case f.tag == formatPCM && f.bits == 32:
		sample = func(b []byte) float64 { return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648 }
	case f.tag == formatFloat && f.bits == 32:
		sample = func(b []byte) float64 { return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))) }
	default:
		return nil, fmt.Errorf("audio: unsupported wav encoding tag=%d bits=%d", f.tag, f.bits)
	}

	frameBytes := width * f.channels
	frames := len(pcm) / frameBytes
	out := make([]float64, frames)
	for i := range frames {
		var sum float64
		base := i * frameBytes
		for ch := range f.channels {
			idx := base + ch*width
			sum += sample(pcm[idx : idx+width])
		}
		if math.IsNaN(sum) || math.IsInf(sum, 0) {
			return nil, fmt.Errorf("%w at frame %d", ErrNonFinite, i)
		}
		out[i] = sum / float64(f.channels)
	}
	return out, nil
}

// EncodeWAV wraps raw 16-bit signed little-endian PCM data in a standard
// RIFF/WAV container.
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	bps := TargetBitDepth
	byteRate := sampleRate * channels * bps / 8
	blockAlign := channels * bps / 8
	dataSize := len(pcm)

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(formatPCM))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bps))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(pcm)

	return buf.Bytes()
}
