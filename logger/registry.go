package logger

import (
	"sync"
)

// registry holds loggers by component name.
var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// Register stores a named logger in the registry.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Get retrieves a named logger. If the name is not registered it returns the
// global logger tagged with the requested component name.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults registers component loggers derived from the global logger.
// Call it after Init so the registered loggers share the configured output.
func RegisterDefaults(names ...string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for _, name := range names {
		registry.loggers[name] = GetGlobalLogger().WithComponent(name)
	}
}

func resetRegistry() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	clear(registry.loggers)
}
