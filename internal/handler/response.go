package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/angeloszaimis/download-links/internal/links"
)

var internalErrorBody = []byte(`{"error":"Failed to fetch download links: response encoding failed"}`)

// encodeOutcome renders an outcome as status code and JSON body. HTML
// escaping is off so signed media URLs keep their literal '&'.
func encodeOutcome(out links.Outcome) (int, []byte) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(out.Payload()); err != nil {
		return http.StatusInternalServerError, internalErrorBody
	}

	return out.StatusCode(), bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
