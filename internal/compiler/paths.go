package compiler

import (
	"path/filepath"
	"strings"

	"github.com/John-Robertt/webcompile/internal/domain"
)

// OutputPath 推导单个输入文件的输出路径（纯函数，不访问文件系统）：
// - explicit 非空时原样返回
// - 设置了 OutputDirectory 时：<OutputDirectory>/<输入文件名去扩展名><ext>
// - 否则与输入同目录，仅替换扩展名
func OutputPath(input, explicit string, opts domain.Options, ext string) string {
	if explicit != "" {
		return explicit
	}
	if dir := opts.OutputDirectory(); dir != "" {
		return filepath.Join(dir, changeExt(filepath.Base(input), ext))
	}
	return changeExt(input, ext)
}

// SourceMapPath 是输出路径追加 ".map"（a.css -> a.css.map）。
func SourceMapPath(input, explicit string, opts domain.Options, ext string) string {
	return OutputPath(input, explicit, opts, ext) + ".map"
}

func changeExt(p, ext string) string {
	return strings.TrimSuffix(p, filepath.Ext(p)) + ext
}
