package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/John-Robertt/webcompile/internal/domain"
	"github.com/John-Robertt/webcompile/internal/infra/cache"
	"github.com/John-Robertt/webcompile/internal/report"
)

const (
	// ErrCodeNotFound 表示配置文件不存在。
	ErrCodeNotFound = domain.ErrCodeConfigNotFound
	// ErrCodeInvalid 表示配置文件无法读取/解析。
	ErrCodeInvalid = domain.ErrCodeConfigInvalid
	// ErrCodeInvalidEnv 表示环境变量（或 .env）中的取值不合法。
	ErrCodeInvalidEnv = "env_invalid"
)

// DefaultConfigFileName 是未指定配置文件时读取的文件（相对 cwd）。
const DefaultConfigFileName = "compileconfig.json"

// 环境变量名。进程环境优先于 <cwd>/.env。
const (
	EnvLogLevel    = "WEBCOMPILE_LOG_LEVEL"
	EnvNoColor     = "WEBCOMPILE_NO_COLOR"
	EnvStrict      = "WEBCOMPILE_STRICT"
	EnvSourceCache = "WEBCOMPILE_SOURCE_CACHE"

	// EnvNoColorStd 是通用约定 https://no-color.org。
	EnvNoColorStd = "NO_COLOR"
)

// CLIArgs 是命令行给出的入口参数。
type CLIArgs struct {
	Mode        domain.WorkMode
	ConfigFiles []string
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Mode domain.WorkMode
	// ConfigFiles 按命令行顺序排列；相对路径已经以 cwd 为基准拼接。
	ConfigFiles []string
	// BaseDir 是展开 glob 的基准目录（即 cwd）。
	BaseDir string

	LogLevel report.Level
	NoColor  bool
	// Strict 为 true 时，任何 job 失败或被丢弃都会让进程以非零码退出。
	Strict bool
	// SourceCacheSize 是源文件内容缓存的容量；0 表示不缓存。
	SourceCacheSize int
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	case ErrCodeInvalidEnv:
		return fmt.Sprintf("%s：%s：%v", e.Code, e.Path, e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 把 CLI 参数与环境设置合并为最终配置。
//
// 规则（固定）：
// - mode：CLI 未指定时为 build
// - 配置文件：CLI 未给出时为 <cwd>/compileconfig.json；这里不检查存在性（读取阶段逐个报告）
// - 环境：进程环境 > <cwd>/.env > 内置默认值；.env 不存在不算错误
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	if strings.TrimSpace(cwd) == "" {
		cwd = "."
	}

	mode := cli.Mode
	if mode == "" {
		mode = domain.ModeBuild
	}

	files := cli.ConfigFiles
	if len(files) == 0 {
		files = []string{DefaultConfigFileName}
	}
	cfgFiles := make([]string, 0, len(files))
	for _, f := range files {
		cfgFiles = append(cfgFiles, joinFrom(cwd, f))
	}

	env, err := readEnv(cwd)
	if err != nil {
		return EffectiveConfig{}, err
	}

	eff := EffectiveConfig{
		Mode:            mode,
		ConfigFiles:     cfgFiles,
		BaseDir:         cwd,
		LogLevel:        report.LevelInfo,
		SourceCacheSize: cache.DefaultSize,
	}

	if v, ok := env.get(EnvLogLevel); ok {
		lvl, err := report.ParseLevel(v)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalidEnv, Path: EnvLogLevel, Err: err}
		}
		eff.LogLevel = lvl
	}

	if v, ok := env.get(EnvNoColor); ok && v != "" {
		eff.NoColor = true
	}
	if v, ok := env.get(EnvNoColorStd); ok && v != "" {
		eff.NoColor = true
	}

	if v, ok := env.get(EnvStrict); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalidEnv, Path: EnvStrict, Err: err}
		}
		eff.Strict = b
	}

	if v, ok := env.get(EnvSourceCache); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalidEnv, Path: EnvSourceCache, Err: fmt.Errorf("必须是非负整数，实际是 %q", v)}
		}
		eff.SourceCacheSize = n
	}

	return eff, nil
}

// envSource 按“进程环境 > .env 文件”的顺序查找变量。
type envSource struct {
	dotenv map[string]string
}

func (s envSource) get(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v), true
	}
	v, ok := s.dotenv[key]
	return strings.TrimSpace(v), ok
}

func readEnv(cwd string) (envSource, error) {
	p := filepath.Join(cwd, ".env")
	m, err := godotenv.Read(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return envSource{}, nil
		}
		return envSource{}, &Error{Code: ErrCodeInvalidEnv, Path: p, Err: err}
	}
	return envSource{dotenv: m}, nil
}

// joinFrom 以 base 为基准解析 p：绝对路径原样 Clean，相对路径 Join 到 base。
func joinFrom(base, p string) string {
	p = strings.TrimSpace(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
