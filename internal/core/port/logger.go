package port

// Fields - структурированные данные для записи в лог
type Fields map[string]interface{}

// Merge возвращает новую карту: поля f, дополненные (и перекрытые) полями other
func (f Fields) Merge(other Fields) Fields {
	merged := make(Fields, len(f)+len(other))
	for k, v := range f {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// LoggerPort определяет контракт для системы логирования
type LoggerPort interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)

	// WithFields создает новый экземпляр логгера с уже добавленными полями
	WithFields(fields Fields) LoggerPort
}
