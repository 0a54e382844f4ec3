// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional YAML
// config file. Environment variables take precedence over the file.
package config
