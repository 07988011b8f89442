// Package config loads buster settings from an optional buster.yaml, .env
// files and BUSTER_* environment variables, in increasing precedence. CLI
// flags are applied on top by the commands.
package config
