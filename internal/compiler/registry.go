package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/John-Robertt/webcompile/internal/domain"
)

// Factory 为一个 job 创建编译器实例。
type Factory func(env Env) Compiler

// Entry 把编译器类型与其工厂绑定。
type Entry struct {
	Type domain.CompilerType
	New  Factory
}

// Registry 是编译器类型到工厂的只读注册表（大小写不敏感）。
// 每个 job 都会拿到一个新的实例，实例之间不共享可变状态。
type Registry struct {
	byType map[string]Entry
}

func NewRegistry(entries ...Entry) (Registry, error) {
	byType := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if e.New == nil {
			return Registry{}, fmt.Errorf("编译器工厂不能为空：%q", e.Type)
		}
		if e.Type.IsAuto() {
			return Registry{}, fmt.Errorf("不能为 Auto 注册编译器")
		}
		key := typeKey(e.Type)
		if _, ok := byType[key]; ok {
			return Registry{}, fmt.Errorf("重复的编译器类型：%q", e.Type)
		}
		byType[key] = e
	}
	return Registry{byType: byType}, nil
}

func typeKey(t domain.CompilerType) string {
	return strings.ToLower(strings.TrimSpace(string(t)))
}

// New 为类型 t 创建编译器实例；未注册的类型返回 unsupported_type。
func (r Registry) New(t domain.CompilerType, env Env) (Compiler, error) {
	e, ok := r.byType[typeKey(t)]
	if !ok {
		return nil, &domain.ItemError{
			Code: domain.ErrCodeUnsupportedType,
			Msg:  fmt.Sprintf("没有可用的编译器：%s", t),
		}
	}
	return e.New(env), nil
}

// Types 返回已注册的类型（按名称排序）。
func (r Registry) Types() []domain.CompilerType {
	out := make([]domain.CompilerType, 0, len(r.byType))
	for _, e := range r.byType {
		out = append(out, e.Type)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
