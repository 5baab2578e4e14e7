package report

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConsole_PlainOutputAndLevels(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, ConsoleOptions{MinLevel: LevelInfo})

	c.Debugf("hidden %d", 1)
	c.Infof("info %s", "a")
	c.Warnf("warn")
	c.Errorf("error:\nsecond line")
	c.Successf("ok")

	// bytes.Buffer 不是终端：不应出现 ANSI 转义。
	require.NotContains(t, buf.String(), "\x1b[")
	require.Equal(t, "info a\nwarn\nerror: second line\nok\n", buf.String())
}

func TestConsole_DebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, ConsoleOptions{MinLevel: LevelDebug})

	c.Debugf("visible")
	require.Equal(t, "visible\n", buf.String())
}

func TestConsole_ConcurrentLinesAreAtomic(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, ConsoleOptions{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Infof("%s", strings.Repeat("x", 40))
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1000)
	for _, l := range lines {
		require.Equal(t, strings.Repeat("x", 40), l)
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Warnf("no match for %s", "a.json#0")
	r.Errorf("boom")
	r.Debugf("d")

	require.Equal(t, 1, r.Count(LevelWarning))
	require.True(t, r.Contains(LevelWarning, "a.json#0"))
	require.False(t, r.Contains(LevelError, "a.json#0"))
	require.Len(t, r.Entries(), 3)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	require.Equal(t, LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, LevelInfo, lvl)

	_, err = ParseLevel("trace")
	require.Error(t, err)
}
