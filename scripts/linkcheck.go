// linkcheck posts video ids to a running instance and reports the status
// and number of formats returned for each.
//
// Usage:
//
//	go run linkcheck.go -url http://localhost:8080 dQw4w9WgXcQ jNQXAC9IVRw
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

type mediaFormat struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Format  string `json:"format"`
}

type errorBody struct {
	Error string `json:"error"`
}

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "Service base URL")
		timeout = flag.Duration("timeout", 30*time.Second, "Per-request timeout")
		verbose = flag.Bool("v", false, "Print every returned format")
	)
	flag.Parse()

	ids := flag.Args()
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "usage: linkcheck [-url URL] VIDEO_ID...")
		os.Exit(2)
	}

	client := &http.Client{Timeout: *timeout}
	endpoint := *baseURL + "/api/fetch-download-links"

	fmt.Println(colorCyan + "━━━ Download links check ━━━" + colorReset)

	failures := 0
	for _, id := range ids {
		start := time.Now()
		status, body, err := fetch(client, endpoint, id)
		elapsed := time.Since(start).Round(time.Millisecond)

		if err != nil {
			failures++
			fmt.Printf(colorRed+"  %s: ERROR - %v\n"+colorReset, id, err)
			continue
		}

		if status != http.StatusOK {
			failures++
			var e errorBody
			_ = json.Unmarshal(body, &e)
			color := colorYellow
			if status >= 500 {
				color = colorRed
			}
			fmt.Printf(color+"  %s: %d %s (%s)\n"+colorReset, id, status, e.Error, elapsed)
			continue
		}

		var formats []mediaFormat
		if err := json.Unmarshal(body, &formats); err != nil {
			failures++
			fmt.Printf(colorRed+"  %s: bad response body: %v\n"+colorReset, id, err)
			continue
		}

		fmt.Printf(colorGreen+"  %s: %d formats (%s)\n"+colorReset, id, len(formats), elapsed)
		if *verbose {
			for _, f := range formats {
				fmt.Printf("    %-16s %-5s %.60s\n", f.Quality, f.Format, f.URL)
			}
		}
	}

	fmt.Printf("\n%d/%d ids returned formats\n", len(ids)-failures, len(ids))
	if failures > 0 {
		os.Exit(1)
	}
}

func fetch(client *http.Client, endpoint, videoID string) (int, []byte, error) {
	payload, err := json.Marshal(map[string]string{"videoId": videoID})
	if err != nil {
		return 0, nil, err
	}

	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, body, nil
}
