// Package config loads and validates application settings from defaults, an
// optional YAML file and FISZKI_ environment variables. Storage backend
// selection and the retry budget are passed on to the persistence layer as
// plain values.
package config
