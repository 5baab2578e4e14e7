package report

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var _ Reporter = (*Console)(nil)

// Console 把消息写到 w，每条一行，按级别着色。
type Console struct {
	w   io.Writer
	min Level

	mu     sync.Mutex
	colors map[Level]*color.Color
}

// ConsoleOptions 控制 Console 的行为。
type ConsoleOptions struct {
	MinLevel Level
	// NoColor 强制关闭颜色；否则仅当 w 是终端时着色。
	NoColor bool
}

func NewConsole(w io.Writer, opts ConsoleOptions) *Console {
	c := &Console{
		w:   w,
		min: opts.MinLevel,
		colors: map[Level]*color.Color{
			LevelDebug:   color.New(color.Faint),
			LevelInfo:    color.New(color.FgCyan),
			LevelWarning: color.New(color.FgYellow),
			LevelError:   color.New(color.FgRed),
			LevelSuccess: color.New(color.FgGreen),
		},
	}

	enable := !opts.NoColor && IsTerminal(w)
	for _, col := range c.colors {
		if enable {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// IsTerminal 判断 w 是否是交互终端（只有 *os.File 才可能是）。
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (c *Console) Debugf(format string, args ...any) { c.write(LevelDebug, format, args...) }
func (c *Console) Infof(format string, args ...any)  { c.write(LevelInfo, format, args...) }
func (c *Console) Warnf(format string, args ...any)  { c.write(LevelWarning, format, args...) }
func (c *Console) Errorf(format string, args ...any) { c.write(LevelError, format, args...) }

func (c *Console) Successf(format string, args ...any) { c.write(LevelSuccess, format, args...) }

func (c *Console) write(lvl Level, format string, args ...any) {
	if lvl < c.min {
		return
	}
	msg := oneLine(fmt.Sprintf(format, args...))

	c.mu.Lock()
	defer c.mu.Unlock()

	if col := c.colors[lvl]; col != nil {
		msg = col.Sprint(msg)
	}
	fmt.Fprintln(c.w, msg)
}
