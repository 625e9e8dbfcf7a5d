package port

// Fields - структурированные данные для записи в лог.
type Fields map[string]interface{}

// LoggerPort определяет контракт для системы логирования.
// Ядро не знает, пишутся ли логи в stdout, во Fluent Bit или в оба места сразу.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)

	// Error записывает ошибку вместе с объектом error.
	Error(msg string, err error, fields Fields)

	Debug(msg string, fields Fields)

	// WithFields создает новый экземпляр логгера с уже добавленными полями (trace_id, component).
	WithFields(fields Fields) LoggerPort
}
