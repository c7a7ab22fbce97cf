// Package config loads the application configuration from an optional YAML
// file, a .env file, and process environment variables, in increasing order
// of precedence.
package config
