package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/John-Robertt/webcompile/internal/app/run"
	"github.com/John-Robertt/webcompile/internal/config"
	"github.com/John-Robertt/webcompile/internal/domain"
	"github.com/John-Robertt/webcompile/internal/report"
)

var _ run.Observer = (*progressLog)(nil)

// progressLog 把阶段/条目事件写成 debug 行（只在 WEBCOMPILE_LOG_LEVEL=debug 时启用）。
type progressLog struct {
	rep report.Reporter
}

func newProgressLog(rep report.Reporter) *progressLog {
	return &progressLog{rep: rep}
}

func (p *progressLog) OnStart(eff config.EffectiveConfig) {
	p.rep.Debugf("webcompile %s：configs=%s base=%s source_cache=%d strict=%s",
		eff.Mode, formatList(eff.ConfigFiles), eff.BaseDir, eff.SourceCacheSize, onOff(eff.Strict),
	)
}

func (p *progressLog) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	switch name {
	case "load":
		p.rep.Debugf("读取配置：configs=%d definitions=%d (%s)",
			intField(fields, "configs"), intField(fields, "definitions"), formatShortDuration(dur),
		)
	case "plan":
		p.rep.Debugf("创建 job：jobs=%d dropped=%d (%s)",
			intField(fields, "jobs"), intField(fields, "dropped"), formatShortDuration(dur),
		)
	default:
		p.rep.Debugf("%s：jobs=%d (%s)", name, intField(fields, "jobs"), formatShortDuration(dur))
	}
}

func (p *progressLog) OnItemDone(idx, total int, res domain.ItemResult, dur time.Duration) {
	p.rep.Debugf("%s", formatItemLine(idx, total, res, dur))
}

func formatItemLine(idx, total int, res domain.ItemResult, dur time.Duration) string {
	if res.Status == domain.StatusFailed {
		return fmt.Sprintf("[%d/%d] %s FAIL %s: %s (%s)",
			idx, total, res.Source, res.ErrorCode, truncate(res.ErrorMsg, 160), formatShortDuration(dur),
		)
	}
	return fmt.Sprintf("[%d/%d] %s %s type=%s files=%d (%s)",
		idx, total, res.Source, strings.ToUpper(res.Status), res.Type, len(res.Files), formatShortDuration(dur),
	)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func formatList(xs []string) string {
	return "[" + strings.Join(xs, ", ") + "]"
}

// truncate 按字符（rune）截断，避免切开多字节字符。
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func intField(fields map[string]any, key string) int {
	if fields == nil {
		return 0
	}
	switch x := fields[key].(type) {
	case int:
		return x
	case int64:
		return int(x)
	default:
		return 0
	}
}
