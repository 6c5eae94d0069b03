package sinks

import (
	"context"
	"fmt"

	"zillow-parser-service/internal/core/domain"
	"zillow-parser-service/internal/core/port"
)

// NamedSink - хранилище с именем для логов и ошибок
type NamedSink struct {
	Name string
	Sink port.ListingSinkPort
}

// MultiSinkAdapter сохраняет страницу во все хранилища по порядку
type MultiSinkAdapter struct {
	sinks []NamedSink
}

// NewMultiSinkAdapter создает новый экземпляр. nil-хранилища пропускаются.
func NewMultiSinkAdapter(sinks ...NamedSink) (*MultiSinkAdapter, error) {
	active := make([]NamedSink, 0, len(sinks))
	for _, s := range sinks {
		if s.Sink != nil {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("multi sink: at least one sink is required")
	}
	return &MultiSinkAdapter{sinks: active}, nil
}

// Save останавливается на первой ошибке: следующие хранилища страницу не получат
func (m *MultiSinkAdapter) Save(ctx context.Context, listings []domain.ListingRecord) error {
	for _, s := range m.sinks {
		if err := s.Sink.Save(ctx, listings); err != nil {
			return fmt.Errorf("multi sink: %s: %w", s.Name, err)
		}
	}
	return nil
}

// Names возвращает имена активных хранилищ
func (m *MultiSinkAdapter) Names() []string {
	names := make([]string, len(m.sinks))
	for i, s := range m.sinks {
		names[i] = s.Name
	}
	return names
}
