package compiler

import "github.com/John-Robertt/webcompile/internal/domain"

// Unit 是一次实际的编译调用：一个或多个输入（按顺序拼接）写到一个输出。
type Unit struct {
	Inputs     []string
	OutputPath string
	// SourceMapPath 为空表示该单元不生成 source map。
	SourceMapPath string
}

// Merged 表示多个输入被拼接编译。
func (u Unit) Merged() bool { return len(u.Inputs) > 1 }

// Units 把 item 拆成编译单元：
// - 显式输出 + 多个输入：一个合并单元，不生成 source map
// - 其他情况：每个输入一个单元，source map 由 GenerateSourceMap 决定
func Units(item domain.WorkItem, ext string) []Unit {
	if item.Merged() {
		return []Unit{{
			Inputs:     append([]string(nil), item.InputFiles...),
			OutputPath: item.OutputFile,
		}}
	}

	sourceMap := item.Options.GenerateSourceMap()
	out := make([]Unit, 0, len(item.InputFiles))
	for _, in := range item.InputFiles {
		u := Unit{
			Inputs:     []string{in},
			OutputPath: OutputPath(in, item.OutputFile, item.Options, ext),
		}
		if sourceMap {
			u.SourceMapPath = u.OutputPath + ".map"
		}
		out = append(out, u)
	}
	return out
}

// PredictOutputs 返回 item 在 build 时会写出的全部路径（去重，保持顺序）。
func PredictOutputs(item domain.WorkItem, ext string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if p == "" {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, u := range Units(item, ext) {
		add(u.OutputPath)
		add(u.SourceMapPath)
	}
	return out
}
