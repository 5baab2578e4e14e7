package compiler

import (
	"os"

	"github.com/John-Robertt/webcompile/internal/domain"
	"github.com/John-Robertt/webcompile/internal/report"
)

// Compiler 把“具体编译器的差异”限制在实现包内部；调度流程只依赖这个接口。
//
// 约束：
// - Compile 不写任何文件：产物由调度层统一落盘（便于 build/clean 共用同一套路径推导）
// - Compile 的失败体现在 Result.Err 上，不 panic、不中断其他单元
// - PredictOutputs 必须与 Compile 实际产出的路径集合一致（clean 依赖它）
type Compiler interface {
	Type() domain.CompilerType
	// OutputExt 是默认输出扩展名（含 '.'，例如 ".css"）。
	OutputExt() string
	Compile(item domain.WorkItem) []Result
	PredictOutputs(item domain.WorkItem) []string
}

// Result 是一个编译单元的结果。Err 非空时 CSS/SourceMap 无意义，不应落盘。
type Result struct {
	Unit
	CSS       string
	SourceMap string
	Err       error
}

// HasSourceMap 表示该结果需要写出 source map。
func (r Result) HasSourceMap() bool {
	return r.Err == nil && r.SourceMapPath != "" && r.SourceMap != ""
}

// SourceReader 读取源文件内容（可带缓存）。
type SourceReader interface {
	ReadSource(path string) ([]byte, error)
}

// Env 是构造编译器实例时注入的协作者。
type Env struct {
	Reporter report.Reporter
	Sources  SourceReader
}

// Report 返回可用的 Reporter（未注入时丢弃消息）。
func (e Env) Report() report.Reporter {
	if e.Reporter == nil {
		return report.Discard
	}
	return e.Reporter
}

// ReadSource 读取源文件；未注入 Sources 时直接读文件。
func (e Env) ReadSource(path string) ([]byte, error) {
	if e.Sources == nil {
		return os.ReadFile(path)
	}
	return e.Sources.ReadSource(path)
}
