// Package handler exposes the download-links flow to callers. The same
// DownloadLinksHandler serves plain HTTP requests and API Gateway proxy
// events, encodes every outcome as JSON and records invocation metrics.
package handler
