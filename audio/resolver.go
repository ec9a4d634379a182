package audio

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	headerSize      = 512
	convertedSuffix = "_converted.wav"
)

// Clip is an answer recording resolved for analysis. Path points at the
// normalized WAV when conversion succeeded, otherwise at the original file.
type Clip struct {
	Path      string
	Original  string
	Codec     Codec
	Converted bool

	once sync.Once
	err  error
}

// IsWAV reports whether the clip can be read with ReadWAV.
func (c *Clip) IsWAV() bool {
	return c != nil && (c.Converted || c.Codec == CodecWAV)
}

// Waveform decodes the clip. Only valid when IsWAV is true.
func (c *Clip) Waveform() (Waveform, error) {
	if !c.IsWAV() {
		return Waveform{}, ErrNotWAV
	}
	return ReadWAVFile(c.Path)
}

// Bytes returns the raw bytes at Path.
func (c *Clip) Bytes() ([]byte, error) {
	return os.ReadFile(c.Path)
}

// Close removes the converted file, if any. Safe to call more than once
// and on a nil clip.
func (c *Clip) Close() error {
	if c == nil || !c.Converted {
		return nil
	}
	c.once.Do(func() {
		if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
			c.err = err
		}
	})
	return c.err
}

// Resolver turns an uploaded recording into a Clip.
type Resolver struct {
	decoder Decoder
	log     logrus.FieldLogger
}

func NewResolver(decoder Decoder, log logrus.FieldLogger) *Resolver {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Resolver{decoder: decoder, log: log}
}

// ConvertedPath is the sibling file a conversion of path is written to.
func ConvertedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + convertedSuffix
}

// Open resolves path. A missing or empty path yields nil. When decoding
// fails the partial output is removed and the clip refers to the original
// file unchanged.
func (r *Resolver) Open(ctx context.Context, path string) *Clip {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		r.log.WithFields(logrus.Fields{"stage": "audio", "path": path}).Debug("audio not found")
		return nil
	}

	header, err := readHeader(path)
	if err != nil {
		r.log.WithFields(logrus.Fields{"stage": "audio", "path": path, "error": err}).Warn("read header failed")
		return &Clip{Path: path, Original: path, Codec: DefaultCodec}
	}
	codec := Detect(header, path)
	clip := &Clip{Path: path, Original: path, Codec: codec}
	if codec == CodecWAV || r.decoder == nil {
		return clip
	}

	dst := ConvertedPath(path)
	if err := r.decoder.Decode(ctx, path, dst, codec); err != nil {
		_ = os.Remove(dst)
		r.log.WithFields(logrus.Fields{
			"stage": "audio", "path": path, "codec": codec, "error": err,
		}).Warn("audio conversion failed, using original")
		return clip
	}
	if h, err := readHeader(dst); err != nil || !IsWAV(h) {
		_ = os.Remove(dst)
		r.log.WithFields(logrus.Fields{"stage": "audio", "path": path, "codec": codec}).Warn("decoder produced no wav, using original")
		return clip
	}

	r.log.WithFields(logrus.Fields{"path": path, "codec": codec, "out": dst}).Debug("audio converted")
	clip.Path = dst
	clip.Converted = true
	return clip
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}
