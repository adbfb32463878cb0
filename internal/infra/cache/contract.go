package cache

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, args ...interface{})
	Warn(format string, args ...interface{})
}
