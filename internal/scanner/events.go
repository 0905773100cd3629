package scanner

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/aleister1102/themediff/internal/models"
)

// EventSink consumes progress events from a scan. Emit returning an error
// means the consumer is gone and the scan should stop dispatching work.
type EventSink interface {
	Emit(event models.ProgressEvent) error
}

// NDJSONSink writes each event as one JSON line. When the underlying
// writer supports flushing (a streaming HTTP response), every line is
// flushed immediately so the consumer sees progress as it happens.
type NDJSONSink struct {
	enc     *json.Encoder
	flusher http.Flusher
	events  int
}

// NewNDJSONSink creates a sink writing newline-delimited JSON to w.
func NewNDJSONSink(w io.Writer) *NDJSONSink {
	flusher, _ := w.(http.Flusher)
	return &NDJSONSink{
		enc:     json.NewEncoder(w),
		flusher: flusher,
	}
}

// Emit writes one event line and flushes it to the consumer.
func (s *NDJSONSink) Emit(event models.ProgressEvent) error {
	if err := s.enc.Encode(event); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	s.events++
	return nil
}

// Events returns how many events were written so far.
func (s *NDJSONSink) Events() int {
	return s.events
}
