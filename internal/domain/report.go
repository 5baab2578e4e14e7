package domain

import (
	"time"
)

const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusDropped = "dropped"
)

const (
	FileStatusWritten = "written"
	FileStatusRemoved = "removed"
	FileStatusAbsent  = "absent"
	FileStatusFailed  = "failed"
)

// RunReport 汇总一次 build/clean 的结果。Items 顺序即 job 执行顺序（不排序）。
type RunReport struct {
	Mode WorkMode `json:"mode"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Items   []ItemResult  `json:"items"`
}

type ReportSummary struct {
	Jobs    int `json:"jobs"`
	OK      int `json:"ok"`
	Failed  int `json:"failed"`
	Dropped int `json:"dropped"`
}

// ItemResult 对应一个配置定义：要么被丢弃（dropped），要么成为 job 并得到 ok/failed。
type ItemResult struct {
	Source string       `json:"source"` // <config>#<index>
	Type   CompilerType `json:"type"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`

	Files []FileResult `json:"files"`
}

type FileResult struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

// Finalize 做两件事：
// 1) 时间统一为 UTC
// 2) summary 由 items 计算得出
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	var s ReportSummary
	for _, it := range r.Items {
		switch it.Status {
		case StatusOK:
			s.Jobs++
			s.OK++
		case StatusFailed:
			s.Jobs++
			s.Failed++
		case StatusDropped:
			s.Dropped++
		}
	}
	r.Summary = s
}

// HasProblems 表示存在失败的 job 或被丢弃的定义。
func (r RunReport) HasProblems() bool {
	return r.Summary.Failed > 0 || r.Summary.Dropped > 0
}
