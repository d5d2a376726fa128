package common

import (
	"os"
	"strconv"
	"time"

	"github.com/docparse/invoice-extractor/constants"
)

// Config holds all application configuration
type Config struct {
	OCR      OCRConfig
	Pipeline PipelineConfig
	ML       MLConfig
	Server   ServerConfig
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract string
	Lang      string
	PSM       int
	OEM       int
	DPI       int
	MaxPages  int
}

// PipelineConfig holds extraction pipeline configuration
type PipelineConfig struct {
	OutputDir     string
	MinConfidence float32
	NormalizeText bool
	Grayscale     bool
	DenoiseSigma  float64
}

// MLConfig holds the optional ML extraction endpoint configuration
type MLConfig struct {
	URL     string
	Timeout time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Tesseract: getEnv("TESSERACT_BIN", "tesseract"),
			Lang:      getEnv("TESSERACT_LANG", "eng"),
			PSM:       getEnvAsInt("TESSERACT_PSM", 6),
			OEM:       getEnvAsInt("TESSERACT_OEM", 0),
			DPI:       getEnvAsInt("PDF_DPI", 300),
			MaxPages:  getEnvAsInt("PDF_MAX_PAGES", 0),
		},
		Pipeline: PipelineConfig{
			OutputDir:     getEnv("OUTPUT_DIR", "outputs"),
			MinConfidence: getEnvAsFloat32("MIN_OCR_CONFIDENCE", constants.DefaultMinConfidence),
			NormalizeText: getEnvAsBool("NORMALIZE_TEXT", false),
			Grayscale:     getEnvAsBool("PREPROCESS_GRAYSCALE", true),
			DenoiseSigma:  getEnvAsFloat64("PREPROCESS_DENOISE_SIGMA", 0.8),
		},
		ML: MLConfig{
			URL:     getEnv("ML_EXTRACTOR_URL", ""),
			Timeout: getEnvAsDuration("ML_EXTRACTOR_TIMEOUT", 45*time.Second),
		},
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.OCR.PSM < 0 || c.OCR.PSM > 13 {
		return NewAppError("CONFIG_ERROR", "TESSERACT_PSM must be between 0 and 13", ErrInvalidInput)
	}
	if c.Pipeline.MinConfidence < 0 || c.Pipeline.MinConfidence > 1 {
		return NewAppError("CONFIG_ERROR", "MIN_OCR_CONFIDENCE must be in [0,1]", ErrInvalidInput)
	}
	return nil
}
