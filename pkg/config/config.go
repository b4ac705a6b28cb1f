// Package config provides configuration management for the document
// processing engine. The library surface consumes a flattened dotted-key
// map; the server loads that map from YAML and environment variables
// through viper.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Common configuration errors.
var (
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// QualityFilteringConfig holds the document-level retention thresholds.
type QualityFilteringConfig struct {
	Enabled                   bool
	MinContentQualityScore    float64
	MinInformationDensity     float64
	MinContentLength          int
	MaxContentLength          int
	FilterEmptyDocuments      bool
	FilterLowQualityDocuments bool
}

// DocumentProcessingConfig holds ingestion and batch settings.
type DocumentProcessingConfig struct {
	MaxFileSize    int64
	MaxTextLength  int
	BatchSize      int
	MaxWorkers     int
	EnableChunking bool

	EncodingDetection   bool
	DefaultEncoding     string
	RemoveHTMLTags      bool
	NormalizeWhitespace bool
	ExtractMetadata     bool

	QualityFiltering QualityFilteringConfig
}

// ChunkingConfig holds the chunking engine parameters.
type ChunkingConfig struct {
	ChunkTokenLimit             int
	ChunkOverlap                int
	MiniChunkSize               int
	BlurbSize                   int
	LargeChunkRatio             int
	ChunkMinContent             int
	MaxMetadataPercentage       float64
	ContextualRAGReservedTokens int

	EnableMultipass     bool
	EnableLargeChunks   bool
	EnableContextualRAG bool
	IncludeMetadata     bool

	Tokenizer          string
	TokenizerMaxTokens int
}

// ServerConfig holds the HTTP bind address.
type ServerConfig struct {
	Host string
	Port string
}

// RedisConfig holds the optional job-store backing.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// MinIOConfig holds the optional object-store document source.
type MinIOConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// Config is the complete effective configuration.
type Config struct {
	DocumentProcessing DocumentProcessingConfig
	Chunking           ChunkingConfig
	Server             ServerConfig
	Redis              RedisConfig
	MinIO              MinIOConfig
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		DocumentProcessing: DocumentProcessingConfig{
			MaxFileSize:         100 * 1024 * 1024,
			MaxTextLength:       1000000,
			BatchSize:           16,
			MaxWorkers:          0, // pool resolves to CPU count or 4
			EnableChunking:      false,
			EncodingDetection:   true,
			DefaultEncoding:     "utf-8",
			RemoveHTMLTags:      true,
			NormalizeWhitespace: true,
			ExtractMetadata:     true,
			QualityFiltering: QualityFilteringConfig{
				Enabled:                   true,
				MinContentQualityScore:    0.3,
				MinInformationDensity:     0.1,
				MinContentLength:          50,
				MaxContentLength:          1000000,
				FilterEmptyDocuments:      true,
				FilterLowQualityDocuments: true,
			},
		},
		Chunking: ChunkingConfig{
			ChunkTokenLimit:             2048,
			ChunkOverlap:                0,
			MiniChunkSize:               150,
			BlurbSize:                   100,
			LargeChunkRatio:             4,
			ChunkMinContent:             256,
			MaxMetadataPercentage:       0.25,
			ContextualRAGReservedTokens: 512,
			IncludeMetadata:             true,
			Tokenizer:                   "basic",
			TokenizerMaxTokens:          8192,
		},
		Server: ServerConfig{Host: "0.0.0.0", Port: "7860"},
	}
}

// FromMap builds a Config from the flattened dotted-key map of the public
// API. Unrecognized keys are ignored; malformed numeric and size values
// fail the build. Boolean values other than true/1/yes/on read as false.
func FromMap(settings map[string]string) (Config, error) {
	cfg := Default()
	for key, value := range settings {
		if err := cfg.apply(strings.ToLower(key), value); err != nil {
			return cfg, fmt.Errorf("%w: key %q: %v", ErrInvalidConfig, key, err)
		}
	}
	return cfg, cfg.Validate()
}

func (c *Config) apply(key, value string) error {
	var err error
	switch key {
	case "document_processing.max_file_size":
		c.DocumentProcessing.MaxFileSize, err = ParseSize(value)
	case "document_processing.max_text_length":
		c.DocumentProcessing.MaxTextLength, err = strconv.Atoi(value)
	case "document_processing.batch_size":
		c.DocumentProcessing.BatchSize, err = strconv.Atoi(value)
	case "document_processing.max_workers":
		c.DocumentProcessing.MaxWorkers, err = strconv.Atoi(value)
	case "document_processing.enable_chunking":
		c.DocumentProcessing.EnableChunking = parseBool(value)
	case "document_processing.text_processing.encoding_detection":
		c.DocumentProcessing.EncodingDetection = parseBool(value)
	case "document_processing.text_processing.default_encoding":
		c.DocumentProcessing.DefaultEncoding = value
	case "document_processing.text_processing.remove_html_tags":
		c.DocumentProcessing.RemoveHTMLTags = parseBool(value)
	case "document_processing.text_processing.normalize_whitespace":
		c.DocumentProcessing.NormalizeWhitespace = parseBool(value)
	case "document_processing.text_processing.extract_metadata":
		c.DocumentProcessing.ExtractMetadata = parseBool(value)
	case "document_processing.quality_filtering.enabled":
		c.DocumentProcessing.QualityFiltering.Enabled = parseBool(value)
	case "document_processing.quality_filtering.min_content_quality_score":
		c.DocumentProcessing.QualityFiltering.MinContentQualityScore, err = strconv.ParseFloat(value, 64)
	case "document_processing.quality_filtering.min_information_density":
		c.DocumentProcessing.QualityFiltering.MinInformationDensity, err = strconv.ParseFloat(value, 64)
	case "document_processing.quality_filtering.min_content_length":
		c.DocumentProcessing.QualityFiltering.MinContentLength, err = strconv.Atoi(value)
	case "document_processing.quality_filtering.max_content_length":
		c.DocumentProcessing.QualityFiltering.MaxContentLength, err = strconv.Atoi(value)
	case "document_processing.quality_filtering.filter_empty_documents":
		c.DocumentProcessing.QualityFiltering.FilterEmptyDocuments = parseBool(value)
	case "document_processing.quality_filtering.filter_low_quality_documents":
		c.DocumentProcessing.QualityFiltering.FilterLowQualityDocuments = parseBool(value)
	case "chunking.chunk_token_limit":
		c.Chunking.ChunkTokenLimit, err = strconv.Atoi(value)
	case "chunking.chunk_overlap":
		c.Chunking.ChunkOverlap, err = strconv.Atoi(value)
	case "chunking.mini_chunk_size":
		c.Chunking.MiniChunkSize, err = strconv.Atoi(value)
	case "chunking.blurb_size":
		c.Chunking.BlurbSize, err = strconv.Atoi(value)
	case "chunking.large_chunk_ratio":
		c.Chunking.LargeChunkRatio, err = strconv.Atoi(value)
	case "chunking.chunk_min_content":
		c.Chunking.ChunkMinContent, err = strconv.Atoi(value)
	case "chunking.max_metadata_percentage":
		c.Chunking.MaxMetadataPercentage, err = strconv.ParseFloat(value, 64)
	case "chunking.contextual_rag_reserved_tokens":
		c.Chunking.ContextualRAGReservedTokens, err = strconv.Atoi(value)
	case "chunking.enable_multipass":
		c.Chunking.EnableMultipass = parseBool(value)
	case "chunking.enable_large_chunks":
		c.Chunking.EnableLargeChunks = parseBool(value)
	case "chunking.enable_contextual_rag":
		c.Chunking.EnableContextualRAG = parseBool(value)
	case "chunking.include_metadata":
		c.Chunking.IncludeMetadata = parseBool(value)
	case "chunking.tokenizer":
		c.Chunking.Tokenizer = value
	case "chunking.tokenizer_max_tokens":
		c.Chunking.TokenizerMaxTokens, err = strconv.Atoi(value)
	case "server.host":
		c.Server.Host = value
	case "server.port":
		c.Server.Port = value
	case "redis.enabled":
		c.Redis.Enabled = parseBool(value)
	case "redis.host":
		c.Redis.Host = value
	case "redis.port":
		c.Redis.Port, err = strconv.Atoi(value)
	case "redis.password":
		c.Redis.Password = value
	case "redis.db":
		c.Redis.DB, err = strconv.Atoi(value)
	case "minio.enabled":
		c.MinIO.Enabled = parseBool(value)
	case "minio.endpoint":
		c.MinIO.Endpoint = value
	case "minio.access_key_id":
		c.MinIO.AccessKeyID = value
	case "minio.secret_access_key":
		c.MinIO.SecretAccessKey = value
	case "minio.bucket_name":
		c.MinIO.BucketName = value
	case "minio.use_ssl":
		c.MinIO.UseSSL = parseBool(value)
	default:
		// Unrecognized keys are ignored by contract.
	}
	return err
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.DocumentProcessing.MaxFileSize <= 0 {
		return fmt.Errorf("%w: max_file_size must be positive", ErrInvalidConfig)
	}
	if c.Chunking.ChunkTokenLimit <= 0 {
		return fmt.Errorf("%w: chunk_token_limit must be positive", ErrInvalidConfig)
	}
	if c.Chunking.ChunkOverlap >= c.Chunking.ChunkTokenLimit {
		return fmt.Errorf("%w: chunk_overlap must be less than chunk_token_limit", ErrInvalidConfig)
	}
	if p := c.Chunking.MaxMetadataPercentage; p < 0 || p > 1 {
		return fmt.Errorf("%w: max_metadata_percentage must be in [0, 1]", ErrInvalidConfig)
	}
	return nil
}

// Load reads config.yaml from the given directory plus environment
// overrides and returns the effective configuration.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	settings := make(map[string]string)
	for _, key := range v.AllKeys() {
		settings[key] = v.GetString(key)
	}
	cfg, err := FromMap(settings)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad loads the configuration and panics on failure. Use only in
// main() where failure should be fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// ParseSize parses a byte count that may carry a KB/MB/GB suffix.
func ParseSize(value string) (int64, error) {
	s := strings.TrimSpace(strings.ToUpper(value))
	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return n * multiplier, nil
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
