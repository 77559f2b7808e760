package logging

import "sync"

// MemoryLogger keeps entries in memory instead of writing them. Field
// values keep their Go types, so tests can compare ints directly.
type MemoryLogger struct {
	mu      *sync.Mutex
	level   Level
	fields  []Field
	entries *[]LogEntry
}

// NewMemoryLogger creates a MemoryLogger that records level and above.
func NewMemoryLogger(level Level) *MemoryLogger {
	return &MemoryLogger{
		mu:      &sync.Mutex{},
		level:   level,
		entries: &[]LogEntry{},
	}
}

func (m *MemoryLogger) record(level Level, msg string, fields []Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if level < m.level {
		return
	}
	*m.entries = append(*m.entries, buildEntry(level, msg, m.fields, fields))
}

func (m *MemoryLogger) Debug(msg string, fields ...Field) { m.record(DebugLevel, msg, fields) }
func (m *MemoryLogger) Info(msg string, fields ...Field)  { m.record(InfoLevel, msg, fields) }
func (m *MemoryLogger) Warn(msg string, fields ...Field)  { m.record(WarnLevel, msg, fields) }
func (m *MemoryLogger) Error(msg string, fields ...Field) { m.record(ErrorLevel, msg, fields) }

// With returns a child that records into the same entry list.
func (m *MemoryLogger) With(fields ...Field) Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &MemoryLogger{
		mu:      m.mu,
		level:   m.level,
		fields:  childFields(m.fields, fields),
		entries: m.entries,
	}
}

func (m *MemoryLogger) SetLevel(level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

func (m *MemoryLogger) GetLevel() Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// Entries returns a copy of everything recorded so far, oldest first.
func (m *MemoryLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry(nil), *m.entries...)
}

// Find returns the most recent entry with message msg.
func (m *MemoryLogger) Find(msg string) (LogEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(*m.entries) - 1; i >= 0; i-- {
		if (*m.entries)[i].Message == msg {
			return (*m.entries)[i], true
		}
	}
	return LogEntry{}, false
}
