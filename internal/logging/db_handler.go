package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/trailtalk/forum-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	batchSize     = 50
	flushInterval = 5 * time.Second
)

// DBHandler is an slog.Handler that batches ERROR+ records into system_logs.
type DBHandler struct {
	sink  *sink
	attrs []slog.Attr
	group string
}

type sink struct {
	db     *gorm.DB
	mu     sync.Mutex
	buffer []models.SystemLog
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewDBHandler(db *gorm.DB) *DBHandler {
	s := &sink{
		db:     db,
		buffer: make([]models.SystemLog, 0, batchSize),
		ticker: time.NewTicker(flushInterval),
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop()
	return &DBHandler{sink: s}
}

func (s *sink) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *sink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, batchSize)
	s.mu.Unlock()

	if err := s.db.CreateInBatches(batch, batchSize).Error; err != nil {
		slog.Error("failed to flush system logs to DB", "error", err, "count", len(batch))
	}
}

func (s *sink) add(entry models.SystemLog) {
	s.mu.Lock()
	s.buffer = append(s.buffer, entry)
	full := len(s.buffer) >= batchSize
	s.mu.Unlock()

	if full {
		go s.flush()
	}
}

// Stop flushes what is buffered and waits for the writer to exit.
func (h *DBHandler) Stop() {
	h.sink.ticker.Stop()
	close(h.sink.done)
	h.sink.wg.Wait()
}

func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(key string, a slog.Attr) {
		a.Value = a.Value.Resolve()
		switch key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			entry.UserID = uintValue(a.Value)
		case "report_id":
			entry.ReportID = uintValue(a.Value)
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		default:
			extra[key] = a.Value.Any()
		}
	}
	for _, a := range h.attrs {
		apply(a.Key, a)
	}
	record.Attrs(func(a slog.Attr) bool {
		apply(qualify(h.group, a.Key), a)
		return true
	})

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.sink.add(entry)
	return nil
}

// WithAttrs qualifies attrs with the group open at the time of the call, so
// groups opened later do not rename them.
func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		a.Key = qualify(h.group, a.Key)
		merged = append(merged, a)
	}
	return &DBHandler{sink: h.sink, attrs: merged, group: h.group}
}

func (h *DBHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &DBHandler{sink: h.sink, attrs: h.attrs, group: qualify(h.group, name)}
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

func uintValue(v slog.Value) *uint {
	var n uint
	switch v.Kind() {
	case slog.KindUint64:
		n = uint(v.Uint64())
	case slog.KindInt64:
		if v.Int64() <= 0 {
			return nil
		}
		n = uint(v.Int64())
	default:
		return nil
	}
	if n == 0 {
		return nil
	}
	return &n
}
