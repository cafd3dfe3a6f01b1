package loki

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	pushPath      = "/loki/api/v1/push"
	batchSize     = 20
	flushInterval = time.Second
)

// Writer is an io.Writer that ships every non-empty line to Loki's push API.
// Lines are batched and flushed every second or once batchSize lines are queued.
type Writer struct {
	url    string
	labels map[string]string
	client *http.Client

	mu      sync.Mutex
	pending [][2]string

	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

type pushRequest struct {
	Streams []pushStream `json:"streams"`
}

type pushStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// NewWriter returns nil when baseURL is empty, so callers can skip Loki entirely.
func NewWriter(baseURL, service string) *Writer {
	if baseURL == "" || service == "" {
		return nil
	}
	w := &Writer{
		url:    strings.TrimSuffix(baseURL, "/") + pushPath,
		labels: map[string]string{"job": service, "service": service},
		client: &http.Client{Timeout: 5 * time.Second},
		ticker: time.NewTicker(flushInterval),
		done:   make(chan struct{}),
	}
	go w.flushLoop()
	return w
}

func (w *Writer) Write(p []byte) (int, error) {
	now := strconv.FormatInt(time.Now().UnixNano(), 10)
	w.mu.Lock()
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		w.pending = append(w.pending, [2]string{now, string(line)})
	}
	full := len(w.pending) >= batchSize
	w.mu.Unlock()
	if full {
		w.Flush()
	}
	return len(p), nil
}

func (w *Writer) flushLoop() {
	for {
		select {
		case <-w.done:
			return
		case <-w.ticker.C:
			w.Flush()
		}
	}
}

// Flush sends queued lines. Push failures drop the batch; logging must never block requests.
func (w *Writer) Flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	values := w.pending
	w.pending = nil
	w.mu.Unlock()

	raw, err := json.Marshal(pushRequest{Streams: []pushStream{{Stream: w.labels, Values: values}}})
	if err != nil {
		return
	}
	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewReader(raw))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}

// Close stops the background flusher and sends whatever is still queued.
func (w *Writer) Close() error {
	w.once.Do(func() {
		w.ticker.Stop()
		close(w.done)
		w.Flush()
	})
	return nil
}
