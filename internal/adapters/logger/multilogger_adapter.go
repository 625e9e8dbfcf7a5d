package logger_adapter

import (
	"errors"
	"io"
	"rental-client/internal/core/port"
)

// MultiLoggerAdapter пишет каждую запись во все приемники (stdout, Fluent Bit).
// Корневой экземпляр владеет приемниками и закрывает их; производные от WithFields только пишут.
type MultiLoggerAdapter struct {
	sinks []port.LoggerPort
	root  bool
}

// NewMultiloggerAdapter собирает приемники. nil пропускается, вложенный MultiLoggerAdapter раскрывается,
// чтобы одна запись не проходила через несколько уровней рассылки.
func NewMultiloggerAdapter(loggers ...port.LoggerPort) (*MultiLoggerAdapter, error) {
	m := &MultiLoggerAdapter{root: true}
	for _, l := range loggers {
		switch sink := l.(type) {
		case nil:
		case *MultiLoggerAdapter:
			if sink != nil {
				m.sinks = append(m.sinks, sink.sinks...)
			}
		default:
			m.sinks = append(m.sinks, sink)
		}
	}
	if len(m.sinks) == 0 {
		return nil, errors.New("multilogger: at least one logger is required")
	}
	return m, nil
}

// Sinks - число приемников, в которые уходит запись.
func (m *MultiLoggerAdapter) Sinks() int {
	return len(m.sinks)
}

func (m *MultiLoggerAdapter) each(write func(port.LoggerPort)) {
	for _, sink := range m.sinks {
		write(sink)
	}
}

func (m *MultiLoggerAdapter) Info(msg string, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Info(msg, fields) })
}

func (m *MultiLoggerAdapter) Warn(msg string, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Warn(msg, fields) })
}

func (m *MultiLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Error(msg, err, fields) })
}

func (m *MultiLoggerAdapter) Debug(msg string, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Debug(msg, fields) })
}

func (m *MultiLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	derived := &MultiLoggerAdapter{sinks: make([]port.LoggerPort, 0, len(m.sinks))}
	m.each(func(l port.LoggerPort) { derived.sinks = append(derived.sinks, l.WithFields(fields)) })
	return derived
}

// Close закрывает приемники с io.Closer (Fluent Bit) и возвращает все ошибки разом.
// У производного логгера Close ничего не делает.
func (m *MultiLoggerAdapter) Close() error {
	if !m.root {
		return nil
	}
	var errs []error
	for _, sink := range m.sinks {
		if closer, ok := sink.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
