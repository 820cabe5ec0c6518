// Package config loads the service configuration from a YAML file and
// environment variables. It covers the server address and run mode, log
// level, resolver timeout and TLS fingerprinting, the resolver circuit
// breaker, and the metrics buffer.
package config
