// Package httpserver runs the http-mode listener with validated addresses
// and graceful shutdown.
package httpserver
