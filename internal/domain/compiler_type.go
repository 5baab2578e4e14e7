package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// CompilerType 标识一个编译器实现。
//
// Auto 是哨兵值：表示“未指定，需要推断”。它绝不能进入 job 创建阶段。
// 未知名称会原样保留（而不是在解析阶段报错），由 registry 在创建 job 时判定为 unsupported_type。
type CompilerType string

const (
	TypeAuto CompilerType = "Auto"
	TypeScss CompilerType = "Scss"
)

// knownTypes 按数值下标排列，兼容配置里写成数字的枚举值（0=Auto, 1=Scss）。
var knownTypes = []CompilerType{TypeAuto, TypeScss}

// ParseCompilerType 大小写不敏感地解析类型名；空串视为 Auto。
func ParseCompilerType(s string) CompilerType {
	s = strings.TrimSpace(s)
	if s == "" {
		return TypeAuto
	}
	for _, t := range knownTypes {
		if strings.EqualFold(s, string(t)) {
			return t
		}
	}
	return CompilerType(s)
}

func (t CompilerType) String() string {
	if t == "" {
		return string(TypeAuto)
	}
	return string(t)
}

// IsAuto 判断是否仍是未解析状态（零值也视为 Auto）。
func (t CompilerType) IsAuto() bool {
	return t == "" || t == TypeAuto
}

func (t *CompilerType) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = TypeAuto
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = ParseCompilerType(s)
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("Type 必须是字符串或整数：%s", string(b))
	}
	if n < 0 || n >= len(knownTypes) {
		return fmt.Errorf("未知的 Type 数值：%d", n)
	}
	*t = knownTypes[n]
	return nil
}

func (t *CompilerType) UnmarshalText(b []byte) error {
	*t = ParseCompilerType(string(b))
	return nil
}

// InferCompilerType 从路径（或 glob 模式串）的扩展名推断编译器类型。
// 只看最后一个 '.' 之后的字面后缀；无法识别时返回 Auto。
func InferCompilerType(name string) CompilerType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".scss", ".sass":
		return TypeScss
	default:
		return TypeAuto
	}
}

// WorkMode 是一次运行的工作模式：build 生成输出，clean 删除之前的输出。
type WorkMode string

const (
	ModeBuild WorkMode = "build"
	ModeClean WorkMode = "clean"
)
