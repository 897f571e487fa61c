// Package android provides shadow implementations for platform SDK classes.
package android

import (
	"sync"

	"github.com/zboralski/shade/internal/shadow"
)

const logClass = "android.util.Log"

// Log priorities, as in android.util.Log.
const (
	Verbose int32 = 2
	Debug   int32 = 3
	Info    int32 = 4
	Warn    int32 = 5
	Error   int32 = 6
	Assert  int32 = 7
)

var priorityLetters = map[int32]string{
	Verbose: "V", Debug: "D", Info: "I", Warn: "W", Error: "E", Assert: "A",
}

// LogEntry is one line written through android.util.Log.
type LogEntry struct {
	Priority int32
	Tag      string
	Msg      string
}

// Letter returns the logcat priority letter.
func (e LogEntry) Letter() string {
	if l, ok := priorityLetters[e.Priority]; ok {
		return l
	}
	return "?"
}

func (e LogEntry) String() string {
	return e.Letter() + "/" + e.Tag + ": " + e.Msg
}

// LogBuffer collects log lines in memory.
type LogBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Logcat receives every line logged by shadowed code.
var Logcat = &LogBuffer{}

func (b *LogBuffer) write(e LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, e)
}

// Entries returns a copy of the buffered lines.
func (b *LogBuffer) Entries() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]LogEntry(nil), b.entries...)
}

// Clear drops buffered lines.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
}

func init() {
	for name, prio := range map[string]int32{
		"v": Verbose, "d": Debug, "i": Info, "w": Warn, "e": Error, "wtf": Assert,
	} {
		shadow.RegisterFunc("log", logClass, name, logAt(prio))
	}
	shadow.RegisterFunc("log", logClass, "println", shadowLogPrintln)
	shadow.RegisterFunc("log", logClass, "isLoggable", shadowLogIsLoggable)
}

// logAt handles Log.x(tag, msg) and Log.x(tag, msg, tr).
func logAt(prio int32) shadow.Handler {
	return func(c *shadow.Call) (any, error) {
		e := LogEntry{Priority: prio, Tag: c.String(0), Msg: c.String(1)}
		if tr := c.Arg(2); tr != nil {
			e.Msg += "\n" + c.String(2)
		}
		Logcat.write(e)
		return int32(len(e.Tag) + len(e.Msg)), nil
	}
}

func shadowLogPrintln(c *shadow.Call) (any, error) {
	// int println(int priority, String tag, String msg)
	e := LogEntry{Priority: c.Int(0), Tag: c.String(1), Msg: c.String(2)}
	Logcat.write(e)
	return int32(len(e.Tag) + len(e.Msg)), nil
}

func shadowLogIsLoggable(c *shadow.Call) (any, error) {
	return true, nil
}
