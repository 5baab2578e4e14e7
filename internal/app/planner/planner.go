package planner

import (
	"fmt"
	"strings"

	"github.com/John-Robertt/webcompile/internal/domain"
	"github.com/John-Robertt/webcompile/internal/scan"
)

// PlanWorkItem 把配置中的一项解析为可执行的 WorkItem（只读文件系统，不做任何写入）。
//
// 失败时返回 *domain.ItemError，调用方据此丢弃该项并报告：
// - missing_input：InputFiles 为空
// - invalid_pattern：glob 模式不合法
// - no_match：模式没有匹配到任何文件
// - type_inference_failed：Type=Auto 且第一个包含模式的扩展名无法识别
//
// 类型推断看的是“第一个声明的包含模式”，而不是第一个匹配到的文件。
func PlanWorkItem(def domain.Definition, baseDir string) (domain.WorkItem, error) {
	includes := scan.IncludePatterns(def.InputFiles)
	if len(includes) == 0 {
		return domain.WorkItem{}, &domain.ItemError{
			Code: domain.ErrCodeMissingInput,
			Msg:  fmt.Sprintf("%s：InputFiles 为空", def.Provenance()),
		}
	}

	files, err := scan.Expand(def.InputFiles, baseDir)
	if err != nil {
		code := domain.ErrCodeIOFailed
		if scan.IsPatternError(err) {
			code = domain.ErrCodeInvalidPattern
		}
		return domain.WorkItem{}, &domain.ItemError{Code: code, Msg: def.Provenance(), Err: err}
	}
	if len(files) == 0 {
		return domain.WorkItem{}, &domain.ItemError{
			Code: domain.ErrCodeNoMatch,
			Msg:  fmt.Sprintf("%s：没有匹配到任何文件：%s", def.Provenance(), strings.Join(def.InputFiles, ", ")),
		}
	}

	typ := def.Type
	if typ.IsAuto() {
		typ = domain.InferCompilerType(includes[0])
		if typ.IsAuto() {
			return domain.WorkItem{}, &domain.ItemError{
				Code: domain.ErrCodeTypeInference,
				Msg:  fmt.Sprintf("%s：无法从 %q 推断编译器类型", def.Provenance(), includes[0]),
			}
		}
	}

	opts := domain.EmptyOptions()
	if def.Options != nil {
		opts, err = domain.NewOptions(def.Options)
		if err != nil {
			return domain.WorkItem{}, &domain.ItemError{Code: domain.ErrCodeConfigInvalid, Msg: def.Provenance(), Err: err}
		}
	}

	return domain.WorkItem{
		Source:     def,
		InputFiles: files,
		OutputFile: strings.TrimSpace(def.OutputFile),
		Type:       typ,
		Options:    opts,
	}, nil
}

// PlanAll 依次解析 defs；失败项通过 onDrop 交给调用方，不中断后续项。
func PlanAll(defs []domain.Definition, baseDir string, onDrop func(domain.Definition, error)) []domain.WorkItem {
	items := make([]domain.WorkItem, 0, len(defs))
	for _, def := range defs {
		item, err := PlanWorkItem(def, baseDir)
		if err != nil {
			if onDrop != nil {
				onDrop(def, err)
			}
			continue
		}
		items = append(items, item)
	}
	return items
}
