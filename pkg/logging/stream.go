package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// sink is the shared, locked destination of a logger and all loggers derived from it
type sink struct {
	mu     sync.Mutex
	writer io.Writer
	format Format
	level  Level
	file   *rotatingFile // nil unless writing to a log file
}

// StreamLogger implements Logger on top of any io.Writer
type StreamLogger struct {
	sink   *sink
	fields Fields
}

// NewStreamLogger creates a logger writing text or JSON lines to w
func NewStreamLogger(w io.Writer, format Format, level Level) *StreamLogger {
	return &StreamLogger{
		sink: &sink{writer: w, format: format, level: level},
	}
}

// Debug logs a debug message
func (l *StreamLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

// Info logs an info message
func (l *StreamLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

// Warn logs a warning message
func (l *StreamLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

// Error logs an error message
func (l *StreamLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger with additional fields sharing the same output
func (l *StreamLogger) WithFields(fields Fields) Logger {
	return &StreamLogger{
		sink:   l.sink,
		fields: mergeFields(l.fields, fields),
	}
}

// Close closes the underlying log file, if any
func (l *StreamLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.file != nil {
		return l.sink.file.close()
	}
	return nil
}

func (l *StreamLogger) log(level Level, msg string, err error, fields Fields) {
	if level < l.sink.level {
		return
	}

	allFields := mergeFields(l.fields, fields)

	var line []byte
	if l.sink.format == FormatJSON {
		var jsonErr error
		line, jsonErr = formatJSON(level, msg, err, allFields)
		if jsonErr != nil {
			return
		}
	} else {
		line = formatText(level, msg, err, allFields)
	}

	l.sink.write(line)
}

func (s *sink) write(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		if s.file.needsRotation() {
			s.file.rotate()
		}
		s.writer = s.file.writer()
	}
	if s.writer == nil {
		return
	}

	n, _ := s.writer.Write(line)
	if s.file != nil {
		s.file.size += int64(n)
	}
}

func mergeFields(base, extra Fields) Fields {
	merged := make(Fields, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// formatJSON formats a log entry as a JSON line
func formatJSON(level Level, msg string, err error, fields Fields) ([]byte, error) {
	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     levelString(level),
		"message":   msg,
	}

	if err != nil {
		entry["error"] = err.Error()
	}

	for k, v := range fields {
		entry[k] = v
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		return nil, jsonErr
	}

	return append(data, '\n'), nil
}

// formatText formats a log entry as plain text with fields in key order
func formatText(level Level, msg string, err error, fields Fields) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", time.Now().UTC().Format("2006-01-02T15:04:05.000Z"), levelString(level), msg)

	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	b.WriteByte('\n')
	return []byte(b.String())
}
