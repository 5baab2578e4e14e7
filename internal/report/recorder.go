package report

import (
	"fmt"
	"strings"
	"sync"
)

var _ Reporter = (*Recorder)(nil)

// Entry 是一条被记录的消息。
type Entry struct {
	Level   Level
	Message string
}

// Recorder 在内存中记录全部消息（含 debug），用于测试断言。
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Debugf(format string, args ...any)   { r.add(LevelDebug, format, args...) }
func (r *Recorder) Infof(format string, args ...any)    { r.add(LevelInfo, format, args...) }
func (r *Recorder) Warnf(format string, args ...any)    { r.add(LevelWarning, format, args...) }
func (r *Recorder) Errorf(format string, args ...any)   { r.add(LevelError, format, args...) }
func (r *Recorder) Successf(format string, args ...any) { r.add(LevelSuccess, format, args...) }

func (r *Recorder) add(lvl Level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: lvl, Message: oneLine(fmt.Sprintf(format, args...))})
}

// Entries 返回已记录消息的副本。
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Messages 返回指定级别的消息文本。
func (r *Recorder) Messages(lvl Level) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Level == lvl {
			out = append(out, e.Message)
		}
	}
	return out
}

// Count 返回指定级别的消息数量。
func (r *Recorder) Count(lvl Level) int { return len(r.Messages(lvl)) }

// Contains 判断指定级别下是否有包含 substr 的消息。
func (r *Recorder) Contains(lvl Level, substr string) bool {
	for _, m := range r.Messages(lvl) {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
