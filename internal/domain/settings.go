package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ValueKind 是设置值的变体标签。
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindString
	KindNumber
	// KindRaw 保存数组/对象等非标量值的原始 JSON 文本，由具体编译器自行窄化。
	KindRaw
)

// Value 是一个带标签的设置值（bool/string/number/null/raw JSON）。
// 零值表示 null。
type Value struct {
	kind ValueKind
	b    bool
	s    string
	n    float64
	raw  json.RawMessage
}

func NullValue() Value            { return Value{} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, b: b} }
func StringValue(s string) Value  { return Value{kind: KindString, s: s} }
func NumberValue(n float64) Value { return Value{kind: KindNumber, n: n} }

// RawValue 保存一段原始 JSON（调用方保证其合法）。
func RawValue(raw json.RawMessage) Value {
	return Value{kind: KindRaw, raw: append(json.RawMessage(nil), raw...)}
}

func (v Value) Kind() ValueKind { return v.kind }

// Raw 返回值的 JSON 表示（标量也会被编码）。
func (v Value) Raw() json.RawMessage {
	switch v.kind {
	case KindBool:
		return json.RawMessage(strconv.FormatBool(v.b))
	case KindString:
		b, _ := json.Marshal(v.s)
		return b
	case KindNumber:
		return json.RawMessage(strconv.FormatFloat(v.n, 'g', -1, 64))
	case KindRaw:
		return v.raw
	default:
		return json.RawMessage("null")
	}
}

// ValueFromJSON 把一段 JSON 文本分类为对应的变体。
func ValueFromJSON(raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Value{}, fmt.Errorf("空的 JSON 值")
	}
	switch raw[0] {
	case 'n':
		return NullValue(), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case '[', '{':
		return RawValue(raw), nil
	default:
		n, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return Value{}, fmt.Errorf("无法解析数值 %q：%w", string(raw), err)
		}
		return NumberValue(n), nil
	}
}

// ValueFromAny 把解码器产出的 Go 值（例如 TOML 解析结果）转换为 Value。
func ValueFromAny(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(v), nil
	case string:
		return StringValue(v), nil
	case int:
		return NumberValue(float64(v)), nil
	case int64:
		return NumberValue(float64(v)), nil
	case uint64:
		return NumberValue(float64(v)), nil
	case float64:
		return NumberValue(v), nil
	case fmt.Stringer:
		// 日期/时间等：统一按字符串处理。
		return StringValue(v.String()), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return Value{}, fmt.Errorf("不支持的设置值类型 %T：%w", x, err)
		}
		return RawValue(b), nil
	}
}

// Setting 是一条按文档顺序保存的键值对。
type Setting struct {
	Key   string
	Value Value
}

// Settings 是配置中 Options 对象的原样内容（保持文档顺序，不做大小写合并）。
// nil 与空切片含义不同：nil 表示配置里没有给出 Options。
type Settings []Setting

// UnmarshalJSON 逐 token 解码对象，以保留键的出现顺序（map 解码会丢失顺序）。
func (s *Settings) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("Options 必须是 JSON 对象")
	}

	out := make(Settings, 0, 4)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("Options 的键必须是字符串")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("Options.%s：%w", key, err)
		}
		v, err := ValueFromJSON(raw)
		if err != nil {
			return fmt.Errorf("Options.%s：%w", key, err)
		}
		out = append(out, Setting{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// SettingsFromMap 把无序 map 转为 Settings；键按字节序排列，保证结果确定。
func SettingsFromMap(m map[string]any) (Settings, error) {
	if m == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Settings, 0, len(keys))
	for _, k := range keys {
		v, err := ValueFromAny(m[k])
		if err != nil {
			return nil, fmt.Errorf("Options.%s：%w", k, err)
		}
		out = append(out, Setting{Key: k, Value: v})
	}
	return out, nil
}
