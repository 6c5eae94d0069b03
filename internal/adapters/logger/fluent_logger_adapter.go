package logger_adapter

import (
	"fmt"
	"log/slog"
	"time"

	"zillow-parser-service/internal/core/port"
)

// FluentPoster - то, что нужно адаптеру от клиента Fluent Bit (*fluent.Fluent)
type FluentPoster interface {
	Post(tag string, message interface{}) error
}

type FluentLoggerAdapter struct {
	client   FluentPoster
	fields   port.Fields
	minLevel slog.Level
}

func NewFluentLoggerAdapter(client FluentPoster, minLevel slog.Leveler) (*FluentLoggerAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("fluent client cannot be nil")
	}

	level := slog.LevelInfo
	if minLevel != nil {
		level = minLevel.Level()
	}

	return &FluentLoggerAdapter{
		client:   client,
		fields:   port.Fields{},
		minLevel: level,
	}, nil
}

// post отправляет запись, тег совпадает с уровнем (к нему добавится TagPrefix клиента)
func (a *FluentLoggerAdapter) post(level slog.Level, tag string, msg string, fields port.Fields) {
	if level < a.minLevel {
		return
	}
	data := a.fields.Merge(fields)
	data["level"] = tag
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)

	_ = a.client.Post(tag, data)
}

func (a *FluentLoggerAdapter) Debug(msg string, fields port.Fields) {
	a.post(slog.LevelDebug, "debug", msg, fields)
}

func (a *FluentLoggerAdapter) Info(msg string, fields port.Fields) {
	a.post(slog.LevelInfo, "info", msg, fields)
}

func (a *FluentLoggerAdapter) Warn(msg string, fields port.Fields) {
	a.post(slog.LevelWarn, "warn", msg, fields)
}

func (a *FluentLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	if err != nil {
		fields = port.Fields{"error": err.Error()}.Merge(fields)
	}
	a.post(slog.LevelError, "error", msg, fields)
}

// WithFields создает новый логгер с расширенным контекстом
func (a *FluentLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	return &FluentLoggerAdapter{
		client:   a.client,
		fields:   a.fields.Merge(fields),
		minLevel: a.minLevel,
	}
}
