// Package audio resolves the container of uploaded answer recordings and
// normalizes them to the mono 16 kHz 16-bit PCM WAV layout the analyzers
// expect. It also carries the small set of signal primitives (duration,
// framed RMS energy, ambient calibration) computed over that layout.
package audio

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Codec is the short container name understood by the decoder.
type Codec string

const (
	CodecWAV  Codec = "wav"
	CodecWebM Codec = "webm"
	CodecOgg  Codec = "ogg"
	CodecFLAC Codec = "flac"
	CodecMP3  Codec = "mp3"
	CodecMP4  Codec = "mp4"
	CodecAAC  Codec = "aac"
)

// DefaultCodec is assumed when neither the header nor the file name resolve
// a container. Kept for compatibility; unknown input may be mis-decoded.
const DefaultCodec = CodecWebM

var extCodecs = map[string]Codec{
	"webm": CodecWebM,
	"ogg":  CodecOgg,
	"mp4":  CodecMP4,
	"m4a":  CodecMP4,
	"mp3":  CodecMP3,
	"wav":  CodecWAV,
	"flac": CodecFLAC,
	"aac":  CodecAAC,
}

// mimeCodecs maps sniffed MIME types onto codecs. Walked in order against
// the detected type and its parents.
var mimeCodecs = []struct {
	mime  string
	codec Codec
}{
	{"audio/wav", CodecWAV},
	{"audio/webm", CodecWebM},
	{"video/webm", CodecWebM},
	{"video/x-matroska", CodecWebM},
	{"audio/ogg", CodecOgg},
	{"video/ogg", CodecOgg},
	{"application/ogg", CodecOgg},
	{"audio/flac", CodecFLAC},
	{"audio/mpeg", CodecMP3},
	{"audio/aac", CodecAAC},
	{"audio/x-m4a", CodecMP4},
	{"audio/mp4", CodecMP4},
	{"video/mp4", CodecMP4},
	{"video/quicktime", CodecMP4},
}

var (
	magicEBML = []byte{0x1a, 0x45, 0xdf, 0xa3}
	magicOggS = []byte("OggS")
	magicFLAC = []byte("fLaC")
	magicID3  = []byte("ID3")
	magicSync = []byte{0xff, 0xfb}
	magicFtyp = []byte("ftyp")
	magicRIFF = []byte("RIFF")
	magicWAVE = []byte("WAVE")
)

// IsWAV reports whether header starts with a RIFF/WAVE preamble.
func IsWAV(header []byte) bool {
	return len(header) >= 12 && bytes.Equal(header[:4], magicRIFF) && bytes.Equal(header[8:12], magicWAVE)
}

// Detect resolves the container of an asset from its leading bytes and,
// failing that, from the file extension. The first 12 bytes are checked
// against the fixed magic table; any remaining header bytes only feed the
// MIME sniffer.
func Detect(header []byte, filename string) Codec {
	if c, ok := detectMagic(header); ok {
		return c
	}
	if c, ok := detectMIME(header); ok {
		return c
	}
	if c, ok := detectExt(filename); ok {
		return c
	}
	return DefaultCodec
}

func detectMagic(h []byte) (Codec, bool) {
	switch {
	case IsWAV(h):
		return CodecWAV, true
	case bytes.HasPrefix(h, magicEBML):
		return CodecWebM, true
	case bytes.HasPrefix(h, magicOggS):
		return CodecOgg, true
	case bytes.HasPrefix(h, magicFLAC):
		return CodecFLAC, true
	case bytes.HasPrefix(h, magicID3), bytes.HasPrefix(h, magicSync):
		return CodecMP3, true
	case len(h) >= 8 && bytes.Equal(h[4:8], magicFtyp):
		return CodecMP4, true
	}
	return "", false
}

func detectMIME(h []byte) (Codec, bool) {
	if len(h) == 0 {
		return "", false
	}
	for m := mimetype.Detect(h); m != nil; m = m.Parent() {
		for _, mc := range mimeCodecs {
			if m.Is(mc.mime) {
				return mc.codec, true
			}
		}
	}
	return "", false
}

func detectExt(filename string) (Codec, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	c, ok := extCodecs[ext]
	return c, ok
}

// MimeType returns the MIME type used when shipping raw bytes of codec c to
// a remote recognizer.
func (c Codec) MimeType() string {
	switch c {
	case CodecWAV:
		return "audio/wav"
	case CodecOgg:
		return "audio/ogg"
	case CodecFLAC:
		return "audio/flac"
	case CodecMP3:
		return "audio/mpeg"
	case CodecMP4:
		return "audio/mp4"
	case CodecAAC:
		return "audio/aac"
	default:
		return "audio/webm"
	}
}
