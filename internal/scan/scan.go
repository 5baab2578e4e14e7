package scan

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExcludePrefix 标记排除模式：以 '!' 开头的模式会从匹配结果中移除。
const ExcludePrefix = "!"

// PatternError 表示 glob 模式本身不合法（而不是没有匹配）。
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("非法的 glob 模式 %q：%v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// IsPatternError 判断 err 是否为 PatternError。
func IsPatternError(err error) bool {
	var e *PatternError
	return errors.As(err, &e)
}

// Expand 以 baseDir 为基准展开 patterns，返回实际存在的文件路径。
//
// 规则（硬约束）：
// - 支持 *、**、?、[...]、{a,b} 与字面路径段；只返回文件，不返回目录
// - 结果顺序 = 模式声明顺序；单个模式内按目录遍历的字典序；重复路径只保留第一次出现
// - 以 '!' 开头的模式是排除模式，在所有包含模式展开之后统一移除
// - 相对模式得到的路径形如 filepath.Join(baseDir, match)；baseDir 为 "." 时即相对 cwd
//
// 零匹配不是错误：由调用方决定是否作废该工作单元。
func Expand(patterns []string, baseDir string) ([]string, error) {
	files := make([]string, 0, 16)
	seen := make(map[string]struct{}, 16)
	var excludes []string

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, ExcludePrefix) {
			excludes = append(excludes, strings.TrimPrefix(p, ExcludePrefix))
			continue
		}

		matches, err := globOne(p, baseDir)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	if len(excludes) == 0 || len(files) == 0 {
		return files, nil
	}

	drop := make(map[string]struct{}, 16)
	for _, x := range excludes {
		matches, err := globOne(x, baseDir)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			drop[m] = struct{}{}
		}
	}

	kept := files[:0]
	for _, f := range files {
		if _, ok := drop[f]; ok {
			continue
		}
		kept = append(kept, f)
	}
	return kept, nil
}

// IncludePatterns 返回非空的包含模式（去掉排除模式），保持声明顺序。
func IncludePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, ExcludePrefix) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func globOne(pattern, baseDir string) ([]string, error) {
	root, rel := splitRoot(pattern, baseDir)
	if !doublestar.ValidatePattern(rel) {
		return nil, &PatternError{Pattern: pattern, Err: doublestar.ErrBadPattern}
	}

	matches, err := doublestar.Glob(os.DirFS(root), rel, doublestar.WithFilesOnly())
	if err != nil {
		if errors.Is(err, doublestar.ErrBadPattern) {
			return nil, &PatternError{Pattern: pattern, Err: err}
		}
		return nil, err
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, filepath.Join(root, filepath.FromSlash(m)))
	}
	return out, nil
}

// splitRoot 把模式拆成“文件系统根目录 + fs.FS 内的相对模式”。
//
// - 绝对模式：按第一个含通配符的段切分
// - 相对模式：Clean 之后，开头的 ../ 段并入根目录（fs.FS 不允许向上越界）
//
// baseDir 本身不会参与模式匹配，因此其中出现的 [ ] { } 等字符不需要转义。
func splitRoot(pattern, baseDir string) (root, rel string) {
	slashed := filepath.ToSlash(pattern)
	if filepath.IsAbs(pattern) {
		base, rest := doublestar.SplitPattern(slashed)
		return filepath.FromSlash(base), rest
	}

	rel = path.Clean(slashed)
	root = baseDir
	if root == "" {
		root = "."
	}
	for rel == ".." || strings.HasPrefix(rel, "../") {
		root = filepath.Join(root, "..")
		rel = strings.TrimPrefix(strings.TrimPrefix(rel, ".."), "/")
	}
	if rel == "" {
		rel = "."
	}
	return root, rel
}
