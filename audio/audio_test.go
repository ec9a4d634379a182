package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func sine(freq, amp float64, seconds float64, rate int) Waveform {
	n := int(seconds * float64(rate))
	s := make([]float64, n)
	for i := range s {
		s[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return Waveform{Samples: s, SampleRate: rate}
}

func TestDetect(t *testing.T) {
	wav := EncodeWAV(make([]byte, 32), 16000, 1)

	tests := []struct {
		name     string
		header   []byte
		filename string
		want     Codec
	}{
		{"riff wave", wav, "answer.bin", CodecWAV},
		{"ebml", []byte{0x1a, 0x45, 0xdf, 0xa3, 0, 0, 0, 0, 0, 0, 0, 0}, "a", CodecWebM},
		{"ogg", []byte("OggS\x00\x02\x00\x00\x00\x00\x00\x00"), "a", CodecOgg},
		{"flac", []byte("fLaC\x00\x00\x00\x22\x00\x00\x00\x00"), "a", CodecFLAC},
		{"id3", []byte("ID3\x04\x00\x00\x00\x00\x00\x00\x00\x00"), "a", CodecMP3},
		{"mpeg sync", []byte{0xff, 0xfb, 0x90, 0x64, 0, 0, 0, 0, 0, 0, 0, 0}, "a", CodecMP3},
		{"ftyp", []byte("\x00\x00\x00\x18ftypM4A "), "a", CodecMP4},
		{"extension m4a", make([]byte, 12), "clip.M4A", CodecMP4},
		{"extension aac", make([]byte, 12), "clip.aac", CodecAAC},
		{"unknown falls back to webm", make([]byte, 12), "clip.xyz", CodecWebM},
		{"empty header no name", nil, "", CodecWebM},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Detect(tt.header, tt.filename))
		})
	}
}

func TestCodecMimeType(t *testing.T) {
	req := require.New(t)
	req.Equal("audio/webm", CodecWebM.MimeType())
	req.Equal("audio/mpeg", CodecMP3.MimeType())
	req.Equal("audio/wav", CodecWAV.MimeType())
	req.Equal("audio/webm", Codec("").MimeType())
}

func TestWAVRoundTrip(t *testing.T) {
	req := require.New(t)
	in := sine(440, 0.5, 0.25, TargetSampleRate)

	out, err := ReadWAV(bytesReader(EncodeWAV(in.PCM16(), TargetSampleRate, 1)))
	req.NoError(err)
	req.Equal(TargetSampleRate, out.SampleRate)
	req.Len(out.Samples, len(in.Samples))
	for i := range in.Samples {
		req.InDelta(in.Samples[i], out.Samples[i], 1e-4)
	}
	req.Equal(250*time.Millisecond, out.Duration())
}

func TestReadWAVStereoDownmix(t *testing.T) {
	req := require.New(t)
	// two frames: (L=16384, R=0) and (L=-16384, R=-16384)
	pcm := []byte{0x00, 0x40, 0x00, 0x00, 0x00, 0xc0, 0x00, 0xc0}
	w, err := ReadWAV(bytesReader(EncodeWAV(pcm, 8000, 2)))
	req.NoError(err)
	req.Len(w.Samples, 2)
	req.InDelta(0.25, w.Samples[0], 1e-9)
	req.InDelta(-0.5, w.Samples[1], 1e-9)
}

// floatWAV wraps 32-bit float mono samples in a WAVE_FORMAT_IEEE_FLOAT file.
func floatWAV(samples []float32, rate int) []byte {
	var b bytes.Buffer
	le := binary.LittleEndian
	b.WriteString("RIFF")
	_ = binary.Write(&b, le, uint32(36+4*len(samples)))
	b.WriteString("WAVEfmt ")
	_ = binary.Write(&b, le, uint32(16))
	_ = binary.Write(&b, le, uint16(formatFloat))
	_ = binary.Write(&b, le, uint16(1))
	_ = binary.Write(&b, le, uint32(rate))
	_ = binary.Write(&b, le, uint32(rate*4))
	_ = binary.Write(&b, le, uint16(4))
	_ = binary.Write(&b, le, uint16(32))
	b.WriteString("data")
	_ = binary.Write(&b, le, uint32(4*len(samples)))
	_ = binary.Write(&b, le, samples)
	return b.Bytes()
}

func TestReadWAVFloat(t *testing.T) {
	req := require.New(t)
	w, err := ReadWAV(bytesReader(floatWAV([]float32{0.5, -0.25, 0}, 8000)))
	req.NoError(err)
	req.Equal(8000, w.SampleRate)
	req.Equal([]float64{0.5, -0.25, 0}, w.Samples)
}

func TestReadWAVRejectsNonFiniteSamples(t *testing.T) {
	for _, bad := range []float32{float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))} {
		_, err := ReadWAV(bytesReader(floatWAV([]float32{0.1, bad, 0.1}, 16000)))
		require.ErrorIs(t, err, ErrNonFinite)
	}
}

func TestReadWAVRejectsOtherContainers(t *testing.T) {
	_, err := ReadWAV(bytesReader([]byte("OggS\x00\x02\x00\x00\x00\x00\x00\x00")))
	require.ErrorIs(t, err, ErrNotWAV)
}

func TestFrameRMS(t *testing.T) {
	req := require.New(t)
	w := Waveform{Samples: make([]float64, 16000), SampleRate: 16000}
	for i := range w.Samples {
		w.Samples[i] = 0.5
	}

	frames := FrameRMS(w)
	req.Len(frames, 1+16000/HopLength)
	req.InDelta(0.5, frames[len(frames)/2], 1e-9)
	// edge frames are half padding
	req.InDelta(0.5*math.Sqrt(0.5), frames[0], 1e-9)

	req.Nil(FrameRMS(Waveform{}))
	req.Zero(MeanRMS(Waveform{}))
}

func TestCalibrate(t *testing.T) {
	req := require.New(t)
	silence := Waveform{Samples: make([]float64, 16000), SampleRate: 16000}

	cal := Calibrate(silence, DefaultCalibrationDur)
	req.Equal(500*time.Millisecond, cal.Window)
	req.Zero(cal.NoiseFloor)
	req.Less(cal.EnergyThreshold, initialThreshold)
	req.Greater(cal.EnergyThreshold, 0.0)
	req.False(cal.Voiced(silence))

	speech := sine(220, 0.5, 1, 16000)
	req.True(cal.Voiced(speech))

	noisy := Calibrate(speech, DefaultCalibrationDur)
	req.Greater(noisy.EnergyThreshold, initialThreshold)
	req.InDelta(0.5/math.Sqrt2*pcm16FullScale, noisy.NoiseFloor, 200)
}

type fakeDecoder struct {
	calls int
	write []byte
	err   error
}

func (f *fakeDecoder) Decode(_ context.Context, _, dst string, _ Codec) error {
	f.calls++
	if f.write != nil {
		if err := os.WriteFile(dst, f.write, 0o644); err != nil {
			return err
		}
	}
	return f.err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestResolverOpen(t *testing.T) {
	log, _ := test.NewNullLogger()
	wav := EncodeWAV(sine(220, 0.3, 0.1, 16000).PCM16(), 16000, 1)

	t.Run("missing path", func(t *testing.T) {
		r := NewResolver(&fakeDecoder{}, log)
		require.Nil(t, r.Open(context.Background(), ""))
		require.Nil(t, r.Open(context.Background(), filepath.Join(t.TempDir(), "nope.webm")))
	})

	t.Run("wav passthrough", func(t *testing.T) {
		req := require.New(t)
		dec := &fakeDecoder{}
		path := writeFile(t, t.TempDir(), "answer.wav", wav)

		clip := NewResolver(dec, log).Open(context.Background(), path)
		req.NotNil(clip)
		req.Equal(path, clip.Path)
		req.False(clip.Converted)
		req.True(clip.IsWAV())
		req.Zero(dec.calls)
		req.NoError(clip.Close())
		req.FileExists(path)
	})

	t.Run("converted and cleaned up", func(t *testing.T) {
		req := require.New(t)
		dir := t.TempDir()
		path := writeFile(t, dir, "answer.webm", []byte{0x1a, 0x45, 0xdf, 0xa3, 1, 2, 3, 4, 5, 6, 7, 8})

		clip := NewResolver(&fakeDecoder{write: wav}, log).Open(context.Background(), path)
		req.NotNil(clip)
		req.True(clip.Converted)
		req.Equal(filepath.Join(dir, "answer_converted.wav"), clip.Path)
		req.Equal(CodecWebM, clip.Codec)

		w, err := clip.Waveform()
		req.NoError(err)
		req.Equal(16000, w.SampleRate)

		req.NoError(clip.Close())
		req.NoFileExists(clip.Path)
		req.NoError(clip.Close())
		req.FileExists(path)
	})

	t.Run("decode failure passes original through", func(t *testing.T) {
		req := require.New(t)
		dir := t.TempDir()
		raw := make([]byte, 12)
		path := writeFile(t, dir, "answer.xyz", raw)

		dec := &fakeDecoder{write: []byte("partial"), err: errors.New("boom")}
		clip := NewResolver(dec, log).Open(context.Background(), path)
		req.NotNil(clip)
		req.Equal(CodecWebM, clip.Codec)
		req.False(clip.Converted)
		req.Equal(path, clip.Path)
		req.NoFileExists(ConvertedPath(path))

		got, err := clip.Bytes()
		req.NoError(err)
		req.Equal(raw, got)
		_, err = clip.Waveform()
		req.ErrorIs(err, ErrNotWAV)
	})

	t.Run("decoder output that is not wav is discarded", func(t *testing.T) {
		req := require.New(t)
		path := writeFile(t, t.TempDir(), "answer.ogg", []byte("OggS\x00\x02\x00\x00\x00\x00\x00\x00"))

		clip := NewResolver(&fakeDecoder{write: []byte("garbage")}, log).Open(context.Background(), path)
		req.False(clip.Converted)
		req.NoFileExists(ConvertedPath(path))
	})
}

func TestNilClipClose(t *testing.T) {
	var c *Clip
	require.NoError(t, c.Close())
	require.False(t, c.IsWAV())
}

func TestFFmpegArgs(t *testing.T) {
	d := NewFFmpegDecoder("")
	require.Equal(t, "ffmpeg", d.Binary)
	require.Equal(t, []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "matroska",
		"-i", "in.webm",
		"-ac", "1", "-ar", "16000", "-sample_fmt", "s16", "-f", "wav",
		"out.wav",
	}, d.args("in.webm", "out.wav", CodecWebM))
}

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }
