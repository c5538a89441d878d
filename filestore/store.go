package filestore

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Backend defines the interface for static file storage backends. Source
// images and their derived cache files live behind the same backend.
type Backend interface {
	// Save saves data to the specified path
	Save(path string, data []byte) error

	// SaveReader saves data from a reader to the specified path
	SaveReader(path string, reader io.Reader) error

	// Load loads data from the specified path
	Load(path string) ([]byte, error)

	// LoadReader returns a reader for the specified path
	LoadReader(path string) (io.ReadCloser, error)

	// Exists checks if a file exists at the specified path
	Exists(path string) (bool, error)

	// Delete deletes a file at the specified path
	Delete(path string) error

	// CreateDir creates a directory at the specified path
	CreateDir(path string) error

	// List lists files in the specified directory
	List(path string) ([]string, error)

	// ListDirs lists subdirectories of the specified directory
	ListDirs(path string) ([]string, error)

	// ModTime returns the last modification time of a file
	ModTime(path string) (time.Time, error)
}

// StorageConfig holds configuration for storage backends
type StorageConfig struct {
	BackendType string // "local", "sftp", "s3"

	// Local backend config
	LocalBasePath string

	// SFTP backend config
	SFTPHost     string
	SFTPPort     int
	SFTPUsername string
	SFTPPassword string
	SFTPKeyFile  string
	SFTPHostKey  string
	SFTPBasePath string

	// S3 backend config
	S3Bucket   string
	S3Region   string
	S3Endpoint string
	S3BasePath string
}

// ParseStorageConfigFromEnv parses storage configuration from environment
// variables. defaultLocalPath is used for the local backend when no explicit
// path is configured.
func ParseStorageConfigFromEnv(defaultLocalPath string) (*StorageConfig, error) {
	config := &StorageConfig{
		BackendType: getEnvOrDefault("SUSHIKUB_STORAGE_BACKEND", "local"),
	}

	switch config.BackendType {
	case "local":
		config.LocalBasePath = getEnvOrDefault("SUSHIKUB_STORAGE_LOCAL_PATH", defaultLocalPath)
	case "sftp":
		config.SFTPHost = getEnvOrDefault("SUSHIKUB_STORAGE_SFTP_HOST", "")
		if portStr := os.Getenv("SUSHIKUB_STORAGE_SFTP_PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return nil, fmt.Errorf("invalid SFTP port: %w", err)
			}
			config.SFTPPort = port
		} else {
			config.SFTPPort = 22
		}
		config.SFTPUsername = getEnvOrDefault("SUSHIKUB_STORAGE_SFTP_USERNAME", "")
		config.SFTPPassword = getEnvOrDefault("SUSHIKUB_STORAGE_SFTP_PASSWORD", "")
		config.SFTPKeyFile = getEnvOrDefault("SUSHIKUB_STORAGE_SFTP_KEY_FILE", "")
		config.SFTPHostKey = getEnvOrDefault("SUSHIKUB_STORAGE_SFTP_HOST_KEY", "")
		config.SFTPBasePath = getEnvOrDefault("SUSHIKUB_STORAGE_SFTP_BASE_PATH", "")
	case "s3":
		config.S3Bucket = getEnvOrDefault("SUSHIKUB_STORAGE_S3_BUCKET", "")
		config.S3Region = getEnvOrDefault("SUSHIKUB_STORAGE_S3_REGION", "")
		config.S3Endpoint = getEnvOrDefault("SUSHIKUB_STORAGE_S3_ENDPOINT", "")
		config.S3BasePath = getEnvOrDefault("SUSHIKUB_STORAGE_S3_BASE_PATH", "")
	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", config.BackendType)
	}

	return config, nil
}

// Validate validates the storage configuration
func (c *StorageConfig) Validate() error {
	switch c.BackendType {
	case "local":
		if c.LocalBasePath == "" {
			return fmt.Errorf("local base path is required for local backend")
		}
	case "sftp":
		if c.SFTPHost == "" {
			return fmt.Errorf("SFTP host is required")
		}
		if c.SFTPUsername == "" {
			return fmt.Errorf("SFTP username is required")
		}
		if c.SFTPPassword == "" && c.SFTPKeyFile == "" {
			return fmt.Errorf("either SFTP password or key file is required")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required")
		}
		if c.S3Region == "" {
			return fmt.Errorf("S3 region is required")
		}
	default:
		return fmt.Errorf("unsupported storage backend type: %s", c.BackendType)
	}
	return nil
}

// CreateBackend creates a storage backend from the configuration
func (c *StorageConfig) CreateBackend() (Backend, error) {
	switch c.BackendType {
	case "local":
		return NewLocalFileSystemAdapter(c.LocalBasePath), nil
	case "sftp":
		sftpConfig := SFTPConfig{
			Host:     c.SFTPHost,
			Port:     c.SFTPPort,
			Username: c.SFTPUsername,
			Password: c.SFTPPassword,
			KeyFile:  c.SFTPKeyFile,
			HostKey:  c.SFTPHostKey,
			BasePath: c.SFTPBasePath,
		}
		return NewSFTPAdapter(sftpConfig)
	case "s3":
		s3Config := S3Config{
			Bucket:   c.S3Bucket,
			Region:   c.S3Region,
			Endpoint: c.S3Endpoint,
			BasePath: c.S3BasePath,
		}
		return NewS3Adapter(s3Config)
	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", c.BackendType)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
