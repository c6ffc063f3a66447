// Package config loads and validates the service configuration from a
// yaml file: simulator parameters, channel management, the HTTP
// observability endpoint and logging.
package config
