package handler

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
)

// HandleLambda serves an API Gateway proxy event. It never returns an error:
// every failure is already encoded in the response.
func (h *DownloadLinksHandler) HandleLambda(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.logger.Info("Received invocation",
		slog.String("method", event.HTTPMethod),
		slog.String("path", event.Path),
		slog.String("request_id", event.RequestContext.RequestID))

	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			h.logger.Debug("Rejected base64 body", slog.String("error", err.Error()))
			decoded = nil
		}
		body = decoded
	}

	status, payload := h.invoke(ctx, body)

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(payload),
	}, nil
}
