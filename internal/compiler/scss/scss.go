// Package scss 实现 SCSS/SASS -> CSS 的编译器。
//
// 文本转换本身交给 Transpiler（默认是 libsass）；本包只负责：
// 读取输入、按顺序拼接、窄化选项、决定 source map 是否可用、把失败转成带 error_code 的结果。
package scss

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/webcompile/internal/compiler"
	"github.com/John-Robertt/webcompile/internal/domain"
)

// OutputExt 是 SCSS 编译器的默认输出扩展名。
const OutputExt = ".css"

// SCSS 专属选项（与通用选项共存于同一个 Options）。
const (
	OptionOutputStyle  = "OutputStyle"
	OptionPrecision    = "Precision"
	OptionIncludePaths = "IncludePaths"
)

const (
	DefaultOutputStyle = "Nested"
	DefaultPrecision   = 5
)

var outputStyles = []string{"Nested", "Expanded", "Compact", "Compressed"}

// Request 是一次转换请求。
type Request struct {
	Source string

	// InputPath 仅在单输入时非空（合并时没有“唯一的”来源文件）。
	InputPath     string
	OutputPath    string
	SourceMapPath string
	SourceMap     bool

	IndentedSyntax bool
	OutputStyle    string
	Precision      int
	IncludePaths   []string
}

type Response struct {
	CSS       string
	SourceMap string
}

// Transpiler 是外部的 SCSS 转换能力。
type Transpiler interface {
	Transpile(req Request) (Response, error)
}

// TranspilerFunc 允许用普通函数实现 Transpiler（测试常用）。
type TranspilerFunc func(req Request) (Response, error)

func (f TranspilerFunc) Transpile(req Request) (Response, error) { return f(req) }

// Settings 是从 Options 窄化出的 SCSS 设置。
type Settings struct {
	SourceMap    bool
	OutputStyle  string
	Precision    int
	IncludePaths []string
}

// SettingsFrom 从 Options 读取 SCSS 设置；缺失或类型不符的值回落到默认值。
func SettingsFrom(o domain.Options) Settings {
	s := Settings{
		SourceMap:    o.GenerateSourceMap(),
		OutputStyle:  DefaultOutputStyle,
		Precision:    domain.Get(o, OptionPrecision, DefaultPrecision),
		IncludePaths: o.Strings(OptionIncludePaths),
	}
	if s.Precision <= 0 {
		s.Precision = DefaultPrecision
	}
	style := strings.TrimSpace(domain.Get(o, OptionOutputStyle, ""))
	for _, known := range outputStyles {
		if strings.EqualFold(style, known) {
			s.OutputStyle = known
			break
		}
	}
	return s
}

var _ compiler.Compiler = (*Compiler)(nil)

type Compiler struct {
	env compiler.Env
	tr  Transpiler
}

// New 返回使用 tr 的工厂。
func New(tr Transpiler) compiler.Factory {
	return func(env compiler.Env) compiler.Compiler {
		return &Compiler{env: env, tr: tr}
	}
}

// Entry 是默认（libsass）SCSS 编译器的注册项。
func Entry() compiler.Entry {
	return compiler.Entry{Type: domain.TypeScss, New: New(LibSass{})}
}

func (c *Compiler) Type() domain.CompilerType { return domain.TypeScss }
func (c *Compiler) OutputExt() string         { return OutputExt }

func (c *Compiler) PredictOutputs(item domain.WorkItem) []string {
	return compiler.PredictOutputs(item, OutputExt)
}

func (c *Compiler) Compile(item domain.WorkItem) []compiler.Result {
	settings := SettingsFrom(item.Options)
	rep := c.env.Report()

	if item.Merged() {
		rep.Warnf("%s：%d 个输入合并到 %s，无法生成 source map（已关闭）",
			item.Source.Provenance(), len(item.InputFiles), item.OutputFile)
	}

	units := compiler.Units(item, OutputExt)
	out := make([]compiler.Result, 0, len(units))
	for _, u := range units {
		out = append(out, c.compileUnit(item, u, settings))
	}
	return out
}

func (c *Compiler) compileUnit(item domain.WorkItem, u compiler.Unit, s Settings) compiler.Result {
	rep := c.env.Report()
	res := compiler.Result{Unit: u}

	var (
		buf  strings.Builder
		read int
	)
	for _, in := range u.Inputs {
		b, err := c.env.ReadSource(in)
		if err != nil {
			// 单个输入读不到不是致命错误：其余内容照常编译。
			rep.Errorf("%s：读取失败：%s：%v", item.Source.Provenance(), in, err)
			continue
		}
		if read > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(b)
		read++
	}
	if read == 0 {
		res.Err = &domain.ItemError{
			Code: domain.ErrCodeCompilationFailed,
			Msg:  fmt.Sprintf("没有可读取的输入：%s", u.OutputPath),
		}
		return res
	}

	req := Request{
		Source:        buf.String(),
		OutputPath:    u.OutputPath,
		SourceMapPath: u.SourceMapPath,
		SourceMap:     u.SourceMapPath != "",
		OutputStyle:   s.OutputStyle,
		Precision:     s.Precision,
		IncludePaths:  append([]string(nil), s.IncludePaths...),
	}
	if !u.Merged() {
		in := u.Inputs[0]
		req.InputPath = in
		req.IndentedSyntax = strings.EqualFold(filepath.Ext(in), ".sass")
		req.IncludePaths = append(req.IncludePaths, filepath.Dir(in))
	}

	resp, err := c.tr.Transpile(req)
	if err != nil {
		res.Err = &domain.ItemError{
			Code: domain.ErrCodeCompilationFailed,
			Msg:  u.OutputPath,
			Err:  err,
		}
		return res
	}

	res.CSS = resp.CSS
	if req.SourceMap {
		res.SourceMap = resp.SourceMap
	}
	return res
}
