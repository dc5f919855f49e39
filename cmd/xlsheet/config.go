package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

type envConfig struct {
	LogLevel      string
	LogFormat     string
	CommentAuthor string
	TableStyle    string
}

// loadEnvConfig reads .env from the working directory, if present, and
// returns the XLSHEET_* settings with their defaults applied.
func loadEnvConfig(files ...string) (*envConfig, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return &envConfig{
		LogLevel:      getEnvString("XLSHEET_LOG_LEVEL", "info"),
		LogFormat:     getEnvString("XLSHEET_LOG_FORMAT", "console"),
		CommentAuthor: getEnvString("XLSHEET_COMMENT_AUTHOR", ""),
		TableStyle:    getEnvString("XLSHEET_TABLE_STYLE", ""),
	}, nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
