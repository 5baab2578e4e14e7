package run

import (
	"time"

	"github.com/John-Robertt/webcompile/internal/config"
	"github.com/John-Robertt/webcompile/internal/domain"
)

// Observer 用于把“阶段/条目结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件；逐条的 success/warning/error 消息走 Reporter，不走 Observer
// - 事件都在调用 ExecuteWithObserver 的 goroutine 上同步发出
type Observer interface {
	// OnStart 在 ExecuteWithObserver 开始时调用。
	OnStart(eff config.EffectiveConfig)
	// OnPhaseDone 在阶段结束时调用（load/plan/build/clean），fields 为该阶段的统计。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnItemDone 在某个 job 执行完成时调用；idx 从 1 开始。
	OnItemDone(idx, total int, res domain.ItemResult, dur time.Duration)
}

type nopObserver struct{}

func (nopObserver) OnStart(config.EffectiveConfig)                        {}
func (nopObserver) OnPhaseDone(string, map[string]any, time.Duration)     {}
func (nopObserver) OnItemDone(int, int, domain.ItemResult, time.Duration) {}
