package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings represents application configuration independent of source (CLI, file, DB)
type Settings struct {
	// core settings
	InstanceID string `json:"instance_id" yaml:"instance_id" db:"instance_id"`

	// group settings by domain
	Classifier ClassifierSettings `json:"classifier" yaml:"classifier" db:"classifier"`
	Files      FilesSettings      `json:"files" yaml:"files" db:"files"`
	Server     ServerSettings     `json:"server" yaml:"server" db:"server"`
	Logger     LoggerSettings     `json:"logger" yaml:"logger" db:"logger"`

	// processing settings
	Workers int `json:"workers" yaml:"workers" db:"workers"`

	// transient fields that should never be stored
	Transient TransientSettings `json:"-" yaml:"-"`
}

// ClassifierSettings contains naive bayes model settings
type ClassifierSettings struct {
	Alpha     float64  `json:"alpha" yaml:"alpha" db:"classifier_alpha"`
	Bigrams   bool     `json:"bigrams" yaml:"bigrams" db:"classifier_bigrams"`
	StopWords []string `json:"stop_words" yaml:"stop_words" db:"classifier_stop_words"`
}

// FilesSettings contains sample file location settings
type FilesSettings struct {
	SamplesPath   string `json:"samples_path" yaml:"samples_path" db:"files_samples_path"`
	DynamicPath   string `json:"dynamic_path" yaml:"dynamic_path" db:"files_dynamic_path"`
	WatchInterval int    `json:"watch_interval_secs" yaml:"watch_interval_secs" db:"files_watch_interval_secs"`
}

// ServerSettings contains web server settings
type ServerSettings struct {
	Enabled    bool   `json:"enabled" yaml:"enabled" db:"server_enabled"`
	ListenAddr string `json:"listen_addr" yaml:"listen_addr" db:"server_listen_addr"`
	AuthUser   string `json:"auth_user" yaml:"auth_user" db:"server_auth_user"`
	AuthPasswd string `json:"auth_passwd" yaml:"auth_passwd" db:"server_auth_passwd"`
}

// LoggerSettings contains prediction logging settings
type LoggerSettings struct {
	Enabled    bool   `json:"enabled" yaml:"enabled" db:"logger_enabled"`
	FileName   string `json:"file_name" yaml:"file_name" db:"logger_file_name"`
	MaxSize    string `json:"max_size" yaml:"max_size" db:"logger_max_size"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups" db:"logger_max_backups"`
}

// TransientSettings contains settings that should never be persisted
type TransientSettings struct {
	// connection parameters
	DataBaseURL    string        `json:"-" yaml:"-"`
	StorageTimeout time.Duration `json:"-" yaml:"-"`

	// control flags
	ConfigDB bool `json:"-" yaml:"-"`
	Dbg      bool `json:"-" yaml:"-"`
}

// New creates a new settings instance with defaults applied
func New() *Settings {
	return &Settings{
		Classifier: ClassifierSettings{Alpha: 1.0, Bigrams: true},
		Files:      FilesSettings{WatchInterval: 5},
		Server:     ServerSettings{ListenAddr: ":8080", AuthUser: "rev-tone"},
		Workers:    4,
	}
}

// Load reads settings from a yaml file on top of the defaults. Fields missing
// from the file keep their default values, unknown fields are ignored.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	res := New()
	if err := yaml.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %q: %w", path, err)
	}
	return res, nil
}
