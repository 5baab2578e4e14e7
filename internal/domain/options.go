package domain

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
)

// ErrNilSettings 表示用 nil 构造 Options（调用方错误）。
var ErrNilSettings = errors.New("options: settings 不能为 nil")

// 所有编译器都认识的通用选项名。
const (
	OptionGenerateSourceMap = "GenerateSourceMap"
	OptionOutputDirectory   = "OutputDirectory"
)

// Options 是对 Settings 的只读视图：键大小写不敏感。
//
// 仅大小写不同的重复键会合并为一条，按 Settings 的顺序“后写覆盖先写”。
// 类型专属的键（例如 SCSS 的 OutputStyle）与通用键共存于同一个 bag，由具体编译器自行窄化。
type Options struct {
	byKey map[string]Value
	keys  []string // 合并后保留的原始键名（首次出现顺序）
}

// NewOptions 从 settings 构造 Options；settings 为 nil 时返回 ErrNilSettings。
func NewOptions(settings Settings) (Options, error) {
	if settings == nil {
		return Options{}, ErrNilSettings
	}

	o := Options{
		byKey: make(map[string]Value, len(settings)),
		keys:  make([]string, 0, len(settings)),
	}
	for _, s := range settings {
		k := foldKey(s.Key)
		if _, ok := o.byKey[k]; !ok {
			o.keys = append(o.keys, s.Key)
		}
		o.byKey[k] = s.Value
	}
	return o, nil
}

// EmptyOptions 返回不含任何键的 Options。
func EmptyOptions() Options {
	o, _ := NewOptions(Settings{})
	return o
}

func foldKey(k string) string { return strings.ToLower(strings.TrimSpace(k)) }

// Lookup 按键（大小写不敏感）查找原始值。
func (o Options) Lookup(key string) (Value, bool) {
	if o.byKey == nil {
		return Value{}, false
	}
	v, ok := o.byKey[foldKey(key)]
	return v, ok
}

// Len 返回合并后的键数量。
func (o Options) Len() int { return len(o.byKey) }

// Keys 返回合并后的键名（按首次出现顺序）。
func (o Options) Keys() []string { return append([]string(nil), o.keys...) }

// Scalar 是 Get 支持的目标类型。
type Scalar interface {
	bool | string | float64 | int
}

// Get 返回 key 对应的值并转换为 T；键不存在或变体不匹配时返回 def，从不报错。
//
// int 只接受没有小数部分且在 int 范围内的数值。
func Get[T Scalar](o Options, key string, def T) T {
	v, ok := o.Lookup(key)
	if !ok {
		return def
	}

	var out any
	switch any(def).(type) {
	case bool:
		if v.kind == KindBool {
			out = v.b
		}
	case string:
		if v.kind == KindString {
			out = v.s
		}
	case float64:
		if v.kind == KindNumber {
			out = v.n
		}
	case int:
		if v.kind == KindNumber && v.n == math.Trunc(v.n) && v.n >= math.MinInt32 && v.n <= math.MaxInt32 {
			out = int(v.n)
		}
	}

	if t, ok := out.(T); ok {
		return t
	}
	return def
}

// Strings 把值窄化为字符串列表：接受单个字符串或字符串数组，其余情况返回 nil。
func (o Options) Strings(key string) []string {
	v, ok := o.Lookup(key)
	if !ok {
		return nil
	}
	switch v.kind {
	case KindString:
		if strings.TrimSpace(v.s) == "" {
			return nil
		}
		return []string{v.s}
	case KindRaw:
		var xs []string
		if err := json.Unmarshal(v.raw, &xs); err != nil {
			return nil
		}
		return xs
	default:
		return nil
	}
}

// GenerateSourceMap 是否生成 source map（默认 false）。
func (o Options) GenerateSourceMap() bool {
	return Get(o, OptionGenerateSourceMap, false)
}

// OutputDirectory 返回输出目录；空串表示未设置（原地输出）。
func (o Options) OutputDirectory() string {
	return strings.TrimSpace(Get(o, OptionOutputDirectory, ""))
}
