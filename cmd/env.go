package cmd

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/df07/go-tiled-pathtracer/pkg/imageio"
)

// Environment variables holding the upload target
const (
	envS3Endpoint  = "PATHTRACER_S3_ENDPOINT"
	envS3Region    = "PATHTRACER_S3_REGION"
	envS3Bucket    = "PATHTRACER_S3_BUCKET"
	envS3AccessKey = "PATHTRACER_S3_ACCESS_KEY"
	envS3SecretKey = "PATHTRACER_S3_SECRET_KEY"
	envS3ACL       = "PATHTRACER_S3_ACL"
	envS3Timeout   = "PATHTRACER_S3_TIMEOUT"
)

// loadEnv reads a dotenv file into the process environment. Variables that
// are already set win. A missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return errors.Wrapf(godotenv.Load(path), "failed to load %s", path)
}

// s3ConfigFromEnv reads the upload target from the environment
func s3ConfigFromEnv() (imageio.S3Config, error) {
	config := imageio.S3Config{
		Endpoint:  os.Getenv(envS3Endpoint),
		Region:    os.Getenv(envS3Region),
		Bucket:    os.Getenv(envS3Bucket),
		AccessKey: os.Getenv(envS3AccessKey),
		SecretKey: os.Getenv(envS3SecretKey),
		ACL:       os.Getenv(envS3ACL),
	}

	if timeout := os.Getenv(envS3Timeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return config, errors.Wrapf(err, "invalid %s", envS3Timeout)
		}
		config.Timeout = d
	}
	return config, config.Validate()
}
