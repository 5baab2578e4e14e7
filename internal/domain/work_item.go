package domain

import "fmt"

// Definition 是配置文件数组中的一项（原样解析，尚未展开 glob）。
// ConfigFile/Index 只用于诊断信息定位，不参与任何逻辑。
type Definition struct {
	ConfigFile string `json:"-" toml:"-"`
	Index      int    `json:"-" toml:"-"`

	InputFiles []string     `json:"InputFiles"`
	OutputFile string       `json:"OutputFile"`
	Type       CompilerType `json:"Type"`
	Options    Settings     `json:"Options"`
}

// Provenance 返回 "<config>#<index>"，用于日志定位。
func (d Definition) Provenance() string {
	name := d.ConfigFile
	if name == "" {
		name = "<config>"
	}
	return fmt.Sprintf("%s#%d", name, d.Index)
}

// WorkItem 是解析完成、可执行的工作单元。创建后不再修改。
//
// 不变量：
// - InputFiles 至少一个，且都是 glob 实际匹配到的路径（按匹配顺序）
// - Type 不会是 Auto
type WorkItem struct {
	Source     Definition
	InputFiles []string
	OutputFile string // 空串表示按每个输入推导输出路径
	Type       CompilerType
	Options    Options
}

// Merged 表示多个输入合并写入同一个显式输出。
func (w WorkItem) Merged() bool {
	return w.OutputFile != "" && len(w.InputFiles) > 1
}
