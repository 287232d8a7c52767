package client

import (
	"bufio"
	"context"
	"net/http"
	"strings"
)

// ChangeEvent is the name of the event the server emits after notes change.
const ChangeEvent = "notes.changed"

// Subscribe opens the /events stream and calls onChange for every
// notes.changed event until ctx is cancelled or the stream ends. It returns
// once the stream is established; reading continues in the background and
// done is closed when it stops.
func (c *Client) Subscribe(ctx context.Context, onChange func()) (done <-chan struct{}, err error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/events", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	// The stream outlives any request timeout.
	hc := &http.Client{Transport: c.http.Transport}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}

	ch := make(chan struct{})
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		var event string
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case line == "":
				if event == ChangeEvent {
					onChange()
				}
				event = ""
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimSpace(line[len("event:"):])
			}
		}
	}()
	return ch, nil
}
