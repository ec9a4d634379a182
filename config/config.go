package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Speech providers.
const (
	ProviderService = "service"
	ProviderWhisper = "whisper"
	ProviderGemini  = "gemini"
)

var validate = validator.New()

type Service struct {
	URL string `yaml:"url" validate:"omitempty,url"`
}
type Services struct {
	ASR     Service `yaml:"asr"`
	Whisper Service `yaml:"whisper"`
	Emotion Service `yaml:"emotion"`
	NLP     Service `yaml:"nlp"`
}
type Audio struct {
	SampleRate    int    `yaml:"sample_rate" validate:"gt=0"`
	Channels      int    `yaml:"channels" validate:"gt=0"`
	FFmpegPath    string `yaml:"ffmpeg_path"`
	CalibrationMS int    `yaml:"calibration_ms" validate:"gte=0"`
	DecodeTimeout int    `yaml:"decode_timeout" validate:"gte=0"`
}
type Speech struct {
	Provider string `yaml:"provider" validate:"oneof=service whisper gemini"`
	Language string `yaml:"language" validate:"required"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}
type Server struct {
	Port         int `yaml:"port" validate:"gt=0,lte=65535"`
	MaxUploadMB  int `yaml:"max_upload_mb" validate:"gt=0"`
	WriteTimeout int `yaml:"write_timeout" validate:"gt=0"`
}
type Events struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}
type Database struct {
	URL string `yaml:"url"`
}
type Root struct {
	Pipeline struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		LogLvl  string `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn warning error"`
	} `yaml:"pipeline"`
	Audio    Audio    `yaml:"audio"`
	Services Services `yaml:"services"`
	Speech   Speech   `yaml:"speech"`
	Server   Server   `yaml:"server"`
	Events   Events   `yaml:"events"`
	Database Database `yaml:"database"`
	Paths    struct {
		Data         string `yaml:"data"`
		Outputs      string `yaml:"outputs"`
		QuestionBank string `yaml:"question_bank"`
	} `yaml:"paths"`
}

// Default is the configuration used when no file is found.
func Default() *Root {
	var cfg Root
	cfg.applyDefaults()
	return &cfg
}

// Load reads path, or the first file of the guess list when path is empty.
// No file at all yields Default.
func Load(path string) (*Root, error) {
	if path != "" {
		return read(path)
	}
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	guess := []string{
		filepath.Join("config", env, "config.yaml"),
		"config.yaml",
	}
	for _, p := range guess {
		cfg, err := read(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return Default(), nil
}

func read(path string) (*Root, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Root
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Root) applyDefaults() {
	if c.Pipeline.Name == "" {
		c.Pipeline.Name = "interview-eval"
	}
	if c.Pipeline.LogLvl == "" {
		c.Pipeline.LogLvl = "info"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.Channels == 0 {
		c.Audio.Channels = 1
	}
	if c.Audio.FFmpegPath == "" {
		c.Audio.FFmpegPath = "ffmpeg"
	}
	if c.Audio.CalibrationMS == 0 {
		c.Audio.CalibrationMS = 500
	}
	if c.Audio.DecodeTimeout == 0 {
		c.Audio.DecodeTimeout = 60
	}
	if c.Speech.Provider == "" {
		c.Speech.Provider = ProviderService
	}
	if c.Speech.Language == "" {
		c.Speech.Language = "en-US"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 32
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 120
	}
	if c.Paths.Data == "" {
		c.Paths.Data = "data"
	}
	if c.Paths.Outputs == "" {
		c.Paths.Outputs = "outputs"
	}
}

func (c *Root) Validate() error { return validate.Struct(c) }

func (c *Root) CalibrationWindow() time.Duration {
	return time.Duration(c.Audio.CalibrationMS) * time.Millisecond
}

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
