// Package report 提供分级的单行控制台消息（debug/info/warning/error/success）。
//
// 核心流程只依赖 Reporter 接口；CLI 决定输出到哪里、是否着色、是否显示 debug。
package report

import (
	"fmt"
	"strings"
)

// Level 是消息级别。
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelSuccess
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel 解析最低显示级别；只区分 debug 与其他（默认 info）。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelInfo, fmt.Errorf("未知的日志级别 %q（只能是 debug 或 info）", s)
	}
}

// Reporter 接收分级消息。每次调用对应恰好一行输出。
//
// 实现必须并发安全：当前流程是单线程的，但“一行是原子的”这一约束要保留。
type Reporter interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Successf(format string, args ...any)
}

// Discard 丢弃所有消息。
var Discard Reporter = discard{}

type discard struct{}

func (discard) Debugf(string, ...any)   {}
func (discard) Infof(string, ...any)    {}
func (discard) Warnf(string, ...any)    {}
func (discard) Errorf(string, ...any)   {}
func (discard) Successf(string, ...any) {}

// oneLine 把多行消息压成一行（外部编译器的错误信息常带换行）。
func oneLine(s string) string {
	s = strings.TrimRight(s, "\r\n")
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
