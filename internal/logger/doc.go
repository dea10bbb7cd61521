// Package logger wraps a global zap logger.
// Child loggers travel in the context, so every log call takes a ctx and
// picks up the names and key-value pairs attached upstream (for example a command's correlation id).
package logger
