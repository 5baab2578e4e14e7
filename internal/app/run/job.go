package run

import (
	"errors"

	"github.com/John-Robertt/webcompile/internal/app/planner"
	"github.com/John-Robertt/webcompile/internal/compiler"
	"github.com/John-Robertt/webcompile/internal/domain"
	"github.com/John-Robertt/webcompile/internal/report"
)

// Job 把一个 WorkItem 与为它创建的编译器实例绑定。创建后不可变。
type Job struct {
	Item     domain.WorkItem
	Compiler compiler.Compiler
}

// CreateJobs 依次解析 defs 并为每项创建编译器实例。
//
// 无法成为 job 的定义会被报告并记为 dropped（返回值 dropped 与 defs 顺序一致），但不中断后续定义。
func CreateJobs(defs []domain.Definition, baseDir string, reg compiler.Registry, env compiler.Env, rep report.Reporter) (jobs []Job, dropped []domain.ItemResult) {
	jobs = make([]Job, 0, len(defs))
	for _, def := range defs {
		item, err := planner.PlanWorkItem(def, baseDir)
		if err != nil {
			reportDrop(rep, err)
			dropped = append(dropped, droppedItem(def, err))
			continue
		}

		c, err := reg.New(item.Type, env)
		if err != nil {
			rep.Errorf("%s：%v", def.Provenance(), err)
			dropped = append(dropped, droppedItem(def, err))
			continue
		}
		rep.Debugf("%s：type=%s inputs=%d output=%q", def.Provenance(), item.Type, len(item.InputFiles), item.OutputFile)
		jobs = append(jobs, Job{Item: item, Compiler: c})
	}
	return jobs, dropped
}

// reportDrop 按错误种类选择级别：无匹配/缺少输入只是 warning。
func reportDrop(rep report.Reporter, err error) {
	var ie *domain.ItemError
	if errors.As(err, &ie) && ie.Warning() {
		rep.Warnf("%v", err)
		return
	}
	rep.Errorf("%v", err)
}

func droppedItem(def domain.Definition, err error) domain.ItemResult {
	return domain.ItemResult{
		Source:    def.Provenance(),
		Type:      def.Type,
		Status:    domain.StatusDropped,
		ErrorCode: domain.ErrorCode(err),
		ErrorMsg:  err.Error(),
	}
}
