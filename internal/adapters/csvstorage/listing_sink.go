package csvstorage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"zillow-parser-service/internal/contextkeys"
	"zillow-parser-service/internal/core/domain"
	"zillow-parser-service/internal/core/port"
)

// ListingCSVSink дописывает записи в CSV файл с фиксированным набором колонок
type ListingCSVSink struct {
	path   string
	fields []string

	mu sync.Mutex
}

// NewListingCSVSink - конструктор. fields задают порядок колонок.
func NewListingCSVSink(path string, fields []string) (*ListingCSVSink, error) {
	if path == "" {
		return nil, fmt.Errorf("csv sink: path cannot be empty")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("csv sink: at least one field is required")
	}
	return &ListingCSVSink{
		path:   path,
		fields: append([]string(nil), fields...),
	}, nil
}

// Path возвращает путь к файлу
func (s *ListingCSVSink) Path() string {
	return s.path
}

// Exists сообщает, существует ли выходной файл
func (s *ListingCSVSink) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("csv sink: failed to stat %s: %w", s.path, err)
}

// Reset удаляет файл, следующий Save начнет его заново с заголовком
func (s *ListingCSVSink) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("csv sink: failed to remove %s: %w", s.path, err)
	}
	return nil
}

// Save дописывает строки одной страницы. Заголовок пишется, только если файла еще не было.
func (s *ListingCSVSink) Save(ctx context.Context, listings []domain.ListingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.Exists()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("csv sink: failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("csv sink: failed to open %s: %w", s.path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if !exists {
		if err := w.Write(s.fields); err != nil {
			return fmt.Errorf("csv sink: failed to write header: %w", err)
		}
	}

	row := make([]string, len(s.fields))
	for _, listing := range listings {
		for i, field := range s.fields {
			row[i] = formatValue(listing[field])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv sink: failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv sink: failed to flush %s: %w", s.path, err)
	}

	contextkeys.LoggerFromContext(ctx).Debug("Rows appended to CSV", port.Fields{
		"component": "ListingCSVSink",
		"path":      s.path,
		"rows":      len(listings),
		"header":    !exists,
	})
	return nil
}

// ReadAll читает файл обратно: по одной карте "колонка -> значение" на строку
func (s *ListingCSVSink) ReadAll() ([]map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csv sink: failed to open %s: %w", s.path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("csv sink: failed to read header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv sink: failed to read row: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, column := range header {
			row[column] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// formatValue приводит значение из JSON к строке ячейки
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		// вложенные объекты и массивы пишем как JSON
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(raw)
	}
}
