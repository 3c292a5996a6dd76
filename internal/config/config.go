package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vango-dev/vdiff/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vdiff.json"

	// DefaultPort is the default diff server port.
	DefaultPort = 7070

	// DefaultHost is the default diff server host.
	DefaultHost = "localhost"

	// DefaultMaxMessageBytes bounds a single websocket message.
	DefaultMaxMessageBytes = 1 << 20

	// DefaultBufferSize is the default websocket read and write buffer size.
	DefaultBufferSize = 4096

	// DefaultStoreDir is where patch frames are archived by the dir store.
	DefaultStoreDir = ".vdiff/frames"
)

// Store kinds.
const (
	StoreNone = ""
	StoreDir  = "dir"
	StoreS3   = "s3"
)

// Config represents the complete vdiff.json configuration.
type Config struct {
	// Server contains diff server settings.
	Server ServerConfig `json:"server"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing"`

	// Render contains markup output settings.
	Render RenderConfig `json:"render"`

	// Store contains patch frame archive settings.
	Store StoreConfig `json:"store"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains diff server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// ReadBufferSize is the websocket read buffer size in bytes.
	ReadBufferSize int `json:"readBufferSize,omitempty"`

	// WriteBufferSize is the websocket write buffer size in bytes.
	WriteBufferSize int `json:"writeBufferSize,omitempty"`

	// MaxMessageBytes limits a websocket message or a /diff request body.
	MaxMessageBytes int64 `json:"maxMessageBytes,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics and records diff metrics.
	Enabled bool `json:"enabled"`

	// Namespace is the metric namespace.
	Namespace string `json:"namespace,omitempty"`

	// Subsystem is the metric subsystem.
	Subsystem string `json:"subsystem,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled wraps every diff in a span.
	Enabled bool `json:"enabled"`

	// TracerName is the name of the tracer.
	TracerName string `json:"tracerName,omitempty"`
}

// RenderConfig contains markup output settings.
type RenderConfig struct {
	// Pretty enables indented output.
	Pretty bool `json:"pretty,omitempty"`

	// Indent is the indentation unit for pretty output.
	Indent string `json:"indent,omitempty"`

	// HandlerAttrs renders handler tokens as data-on* attributes.
	HandlerAttrs bool `json:"handlerAttrs,omitempty"`
}

// StoreConfig contains patch frame archive settings.
type StoreConfig struct {
	// Kind is "dir", "s3" or empty for no archive.
	Kind string `json:"kind,omitempty"`

	// Dir is the archive directory for the dir store.
	Dir string `json:"dir,omitempty"`

	// Bucket is the S3 bucket.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every S3 object key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint string `json:"endpoint,omitempty"`
}

// Default creates a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadBufferSize:  DefaultBufferSize,
			WriteBufferSize: DefaultBufferSize,
			MaxMessageBytes: DefaultMaxMessageBytes,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "vdiff",
		},
		Tracing: TracingConfig{
			TracerName: "vdiff",
		},
		Render: RenderConfig{
			Indent: "  ",
		},
	}
}

// Load reads vdiff.json from dir. A missing file yields the defaults, with
// the path remembered so Save can create it.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if !Exists(dir) {
		cfg := Default()
		cfg.configPath = path
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("Cannot read " + path).
			Wrap(err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		e := errors.New(errors.CodeConfigParse).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
		var syntax *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case stderrors.As(err, &syntax):
			line, col := position(data, syntax.Offset)
			e = e.WithLocation(path, line, col)
		case stderrors.As(err, &typeErr):
			line, col := position(data, typeErr.Offset)
			e = e.WithLocation(path, line, col)
		}
		return nil, e
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte{'\n'}) + 1
	col = int(offset) - (bytes.LastIndexByte(before, '\n') + 1)
	if col < 1 {
		col = 1
	}
	return line, col
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New(errors.CodeConfigWrite).WithDetail("No config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigWrite).Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigWrite).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.ReadBufferSize == 0 {
		c.Server.ReadBufferSize = d.Server.ReadBufferSize
	}
	if c.Server.WriteBufferSize == 0 {
		c.Server.WriteBufferSize = d.Server.WriteBufferSize
	}
	if c.Server.MaxMessageBytes == 0 {
		c.Server.MaxMessageBytes = d.Server.MaxMessageBytes
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = d.Tracing.TracerName
	}
	if c.Render.Indent == "" {
		c.Render.Indent = d.Render.Indent
	}
	if c.Store.Kind == StoreDir && c.Store.Dir == "" {
		c.Store.Dir = DefaultStoreDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("server.port must be between 0 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadBufferSize < 0 || c.Server.WriteBufferSize < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("server buffer sizes must not be negative")
	}
	if c.Server.MaxMessageBytes < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("server.maxMessageBytes must not be negative")
	}
	switch c.Store.Kind {
	case StoreNone, StoreDir:
	case StoreS3:
		if c.Store.Bucket == "" {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail("store.bucket is required for the s3 store").
				WithSuggestion(`Set "bucket" in the "store" section of ` + ConfigFileName)
		}
	default:
		return errors.New(errors.CodeUnknownStoreKind).
			WithDetailf("store.kind %q is not one of \"dir\", \"s3\"", c.Store.Kind)
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// StoreDir returns the absolute archive directory for the dir store.
func (c *Config) StoreDir() string {
	path := c.Store.Dir
	if path == "" {
		path = DefaultStoreDir
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}
