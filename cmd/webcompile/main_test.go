package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/webcompile/internal/compiler"
	"github.com/John-Robertt/webcompile/internal/compiler/scss"
	"github.com/John-Robertt/webcompile/internal/config"
	"github.com/John-Robertt/webcompile/internal/domain"
)

func TestParseArgs(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want cliArgs
	}{
		{name: "默认 build", args: nil, want: cliArgs{Mode: domain.ModeBuild}},
		{name: "短参数 clean", args: []string{"-c", "a.json"}, want: cliArgs{Mode: domain.ModeClean, ConfigFiles: []string{"a.json"}}},
		{name: "长参数 build", args: []string{"a.json", "--build", "b.toml"}, want: cliArgs{Mode: domain.ModeBuild, ConfigFiles: []string{"a.json", "b.toml"}}},
		{name: "重复同一参数", args: []string{"-b", "--build"}, want: cliArgs{Mode: domain.ModeBuild}},
		{name: "帮助", args: []string{"-?"}, want: cliArgs{Mode: domain.ModeBuild, Help: true}},
		{name: "帮助优先于冲突参数", args: []string{"-h", "-b", "-c"}, want: cliArgs{Mode: domain.ModeBuild, Help: true}},
		{name: "帮助优先于未知参数", args: []string{"--watch", "--help"}, want: cliArgs{Mode: domain.ModeBuild, Help: true}},
		{name: "终止符", args: []string{"--", "-c.json"}, want: cliArgs{Mode: domain.ModeBuild, ConfigFiles: []string{"-c.json"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseArgs(tc.args)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseArgs_Errors(t *testing.T) {
	for _, args := range [][]string{
		{"-b", "-c"},
		{"--clean", "--build"},
		{"--watch"},
		{"--watch", "-b", "-c"},
		// 终止符之后的 -h 是配置文件名，不是帮助。
		{"-b", "-c", "--", "-h"},
	} {
		_, err := parseArgs(args)
		require.Error(t, err, "%v：期望错误", args)
	}
}

// withStubRegistry 用不依赖 cgo 的转换器替换默认 registry。
func withStubRegistry(t *testing.T) {
	t.Helper()
	orig := newRegistry
	t.Cleanup(func() { newRegistry = orig })
	newRegistry = func() (compiler.Registry, error) {
		return compiler.NewRegistry(compiler.Entry{
			Type: domain.TypeScss,
			New: scss.New(scss.TranspilerFunc(func(req scss.Request) (scss.Response, error) {
				if strings.Contains(req.Source, "@error") {
					return scss.Response{}, errors.New("stub: @error")
				}
				return scss.Response{CSS: req.Source}, nil
			})),
		})
	}
}

func setupCwd(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvLogLevel, config.EnvStrict, config.EnvSourceCache} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunCLI_UsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 2, runCLI([]string{"-b", "-c"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "用法", "参数错误时应显示帮助")

	stdout.Reset()
	stderr.Reset()
	require.Equal(t, 0, runCLI([]string{"--help"}, &stdout, &stderr))
	require.Contains(t, stdout.String(), config.DefaultConfigFileName, "帮助应提到默认配置文件")
}

func TestRunCLI_HelpWinsOverOtherArgs(t *testing.T) {
	setupCwd(t)
	withStubRegistry(t)
	writeFile(t, "a.scss", "a{}")
	writeFile(t, config.DefaultConfigFileName, `[{"InputFiles":["a.scss"]}]`)

	for _, args := range [][]string{
		{"-h", "-b", "-c"},
		{"-c", "--watch", "-?"},
	} {
		var stdout, stderr bytes.Buffer
		require.Equal(t, 0, runCLI(args, &stdout, &stderr), "%v", args)
		require.Contains(t, stdout.String(), "用法", "%v：应输出帮助", args)
		require.Empty(t, stderr.String(), "%v：不应报告参数错误", args)
	}
	require.NoFileExists(t, "a.css", "显示帮助时不应执行编译")
}

func TestRunCLI_BuildAndClean(t *testing.T) {
	setupCwd(t)
	withStubRegistry(t)
	writeFile(t, "a.scss", "a{}")
	writeFile(t, config.DefaultConfigFileName, `[{"InputFiles":["a.scss"]}]`)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, runCLI(nil, &stdout, &stderr), stderr.String())
	require.Contains(t, stdout.String(), "完成：mode=build jobs=1 ok=1 failed=0 dropped=0")
	require.FileExists(t, "a.css")

	stdout.Reset()
	require.Equal(t, 0, runCLI([]string{"--clean"}, &stdout, &stderr))
	require.NoFileExists(t, "a.css", "期望 a.css 已删除")
	require.Contains(t, stdout.String(), "mode=clean")
}

func TestRunCLI_StrictMode(t *testing.T) {
	setupCwd(t)
	withStubRegistry(t)
	writeFile(t, "bad.scss", "@error")
	writeFile(t, config.DefaultConfigFileName, `[{"InputFiles":["bad.scss"]}]`)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, runCLI(nil, &stdout, &stderr), "非严格模式下期望退出码 0")

	t.Setenv(config.EnvStrict, "true")
	stdout.Reset()
	require.Equal(t, 1, runCLI(nil, &stdout, &stderr), "严格模式下期望退出码 1")
	require.Contains(t, stdout.String(), "failed=1")
}

func TestRunCLI_InvalidEnv(t *testing.T) {
	setupCwd(t)
	t.Setenv(config.EnvLogLevel, "trace")

	var stdout, stderr bytes.Buffer
	require.Equal(t, 1, runCLI(nil, &stdout, &stderr))
	require.Contains(t, stderr.String(), config.ErrCodeInvalidEnv)
}

func TestFormatItemLine(t *testing.T) {
	ok := formatItemLine(1, 2, domain.ItemResult{
		Source: "compileconfig.json#0",
		Type:   domain.TypeScss,
		Status: domain.StatusOK,
		Files:  []domain.FileResult{{Path: "a.css", Status: domain.FileStatusWritten}},
	}, 1500*time.Millisecond)
	require.Equal(t, "[1/2] compileconfig.json#0 OK type=Scss files=1 (1.5s)", ok)

	fail := formatItemLine(2, 2, domain.ItemResult{
		Source:    "compileconfig.json#1",
		Status:    domain.StatusFailed,
		ErrorCode: domain.ErrCodeCompilationFailed,
		ErrorMsg:  strings.Repeat("x", 300),
	}, 0)
	require.Contains(t, fail, "FAIL compilation_failed")
	require.True(t, strings.HasSuffix(fail, "... (0.0s)"), "不符合预期：%q", fail)
}

func TestFormatItemLine_TruncatesMultiByteMessage(t *testing.T) {
	msg := strings.Repeat("编译失败", 100)
	line := formatItemLine(1, 1, domain.ItemResult{
		Source:    "compileconfig.json#0",
		Status:    domain.StatusFailed,
		ErrorCode: domain.ErrCodeCompilationFailed,
		ErrorMsg:  msg,
	}, 0)

	require.True(t, utf8.ValidString(line), "截断后不应出现非法 UTF-8：%q", line)
	require.Contains(t, line, strings.Repeat("编译失败", 39)+"编...")
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		s    string
		max  int
		want string
	}{
		{s: "  abc  ", max: 10, want: "abc"},
		{s: "abcdef", max: 5, want: "ab..."},
		{s: "中文错误信息", max: 5, want: "中文..."},
		{s: "中文错误信息", max: 6, want: "中文错误信息"},
		{s: "中文错误", max: 2, want: "中文"},
		{s: "中文", max: 0, want: "中文"},
	}
	for _, tc := range cases {
		got := truncate(tc.s, tc.max)
		require.Equal(t, tc.want, got, "truncate(%q, %d)", tc.s, tc.max)
		require.True(t, utf8.ValidString(got))
		if tc.max > 0 {
			require.LessOrEqual(t, utf8.RuneCountInString(got), tc.max)
		}
	}
}
