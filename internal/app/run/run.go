package run

import (
	"context"
	"fmt"
	"time"

	"github.com/John-Robertt/webcompile/internal/compiler"
	"github.com/John-Robertt/webcompile/internal/config"
	"github.com/John-Robertt/webcompile/internal/domain"
	"github.com/John-Robertt/webcompile/internal/infra/cache"
	"github.com/John-Robertt/webcompile/internal/infra/fsx"
	"github.com/John-Robertt/webcompile/internal/report"
)

// Execute 执行一次 build/clean，并返回 RunReport。
// 该函数把错误“降级”为条目级失败：单个配置/定义/job 失败不影响其他。
func Execute(ctx context.Context, eff config.EffectiveConfig, reg compiler.Registry, rep report.Reporter) domain.RunReport {
	return ExecuteWithObserver(ctx, eff, reg, rep, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 以输出阶段信息（由上层决定是否启用）。
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, reg compiler.Registry, rep report.Reporter, obs Observer) domain.RunReport {
	if rep == nil {
		rep = report.Discard
	}
	if obs == nil {
		obs = nopObserver{}
	}
	mode := eff.Mode
	if mode == "" {
		mode = domain.ModeBuild
	}

	rr := domain.RunReport{
		Mode:      mode,
		StartedAt: time.Now().UTC(),
		Items:     make([]domain.ItemResult, 0, 16),
	}
	obs.OnStart(eff)

	// 配置文件按命令行顺序读取；单个文件失败只影响它自己。
	loadStarted := time.Now()
	var defs []domain.Definition
	for _, f := range eff.ConfigFiles {
		ds, err := config.ReadDefinitions(f)
		if err != nil {
			rep.Errorf("%v", err)
			rr.Items = append(rr.Items, domain.ItemResult{
				Source:    f,
				Status:    domain.StatusDropped,
				ErrorCode: config.Code(err),
				ErrorMsg:  err.Error(),
			})
			continue
		}
		if len(ds) == 0 {
			rep.Warnf("配置文件 %s 中没有任何定义", f)
		} else {
			rep.Debugf("读取配置 %s：%d 项", f, len(ds))
		}
		defs = append(defs, ds...)
	}
	obs.OnPhaseDone("load", map[string]any{
		"configs":     len(eff.ConfigFiles),
		"definitions": len(defs),
	}, time.Since(loadStarted))

	store, err := cache.New(eff.SourceCacheSize)
	if err != nil {
		rep.Warnf("%v（改为直接读文件）", err)
		store, _ = cache.New(0)
	}
	env := compiler.Env{Reporter: rep, Sources: store}

	planStarted := time.Now()
	jobs, dropped := CreateJobs(defs, eff.BaseDir, reg, env, rep)
	rr.Items = append(rr.Items, dropped...)
	obs.OnPhaseDone("plan", map[string]any{
		"jobs":    len(jobs),
		"dropped": len(dropped),
	}, time.Since(planStarted))

	if len(jobs) == 0 {
		rep.Warnf("没有创建任何 job（检查配置文件与 InputFiles）")
	}

	execStarted := time.Now()
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			rep.Warnf("已取消：剩余 %d 个 job 未执行", len(jobs)-i)
			break
		}

		started := time.Now()
		var res domain.ItemResult
		if mode == domain.ModeClean {
			res = cleanJob(job, rep)
		} else {
			res = buildJob(job, store, rep)
		}
		rr.Items = append(rr.Items, res)
		obs.OnItemDone(i+1, len(jobs), res, time.Since(started))
	}
	obs.OnPhaseDone(string(mode), map[string]any{
		"jobs": len(jobs),
	}, time.Since(execStarted))

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr
}

func newResult(job Job) domain.ItemResult {
	return domain.ItemResult{
		Source: job.Item.Source.Provenance(),
		Type:   job.Item.Type,
		Status: domain.StatusOK,
	}
}

// fail 把条目标记为失败；只保留第一个错误码（后续失败仍逐条报告）。
func fail(res *domain.ItemResult, err error) {
	if res.Status != domain.StatusFailed {
		res.Status = domain.StatusFailed
		res.ErrorCode = domain.ErrorCode(err)
		res.ErrorMsg = err.Error()
	}
}

// buildJob 编译一个 job 并把结果落盘。
// 编译失败的单元不写任何文件；写失败报告为 io_failed，其余单元照常处理。
func buildJob(job Job, store *cache.Store, rep report.Reporter) domain.ItemResult {
	res := newResult(job)
	prov := job.Item.Source.Provenance()

	for _, r := range job.Compiler.Compile(job.Item) {
		if r.Err != nil {
			rep.Errorf("%s：%v", prov, r.Err)
			fail(&res, r.Err)
			res.Files = append(res.Files, domain.FileResult{Path: r.OutputPath, Status: domain.FileStatusFailed})
			continue
		}

		res.Files = append(res.Files, persist(r.OutputPath, r.CSS, store, rep, &res))
		if r.HasSourceMap() {
			res.Files = append(res.Files, persist(r.SourceMapPath, r.SourceMap, store, rep, &res))
		}
	}
	return res
}

func persist(path, content string, store *cache.Store, rep report.Reporter, res *domain.ItemResult) domain.FileResult {
	// 输出可能恰好是后续 job 的输入：写之前让缓存失效。
	store.Forget(path)
	if err := fsx.WriteFile(path, []byte(content)); err != nil {
		ie := &domain.ItemError{Code: domain.ErrCodeIOFailed, Msg: fmt.Sprintf("写入 %s 失败", path), Err: err}
		rep.Errorf("%s：%v", res.Source, ie)
		fail(res, ie)
		return domain.FileResult{Path: path, Status: domain.FileStatusFailed}
	}
	rep.Successf("已生成 %s", path)
	return domain.FileResult{Path: path, Status: domain.FileStatusWritten}
}

// cleanJob 删除 job 在 build 时会产生的全部文件；不存在的文件直接跳过（幂等）。
func cleanJob(job Job, rep report.Reporter) domain.ItemResult {
	res := newResult(job)

	for _, p := range job.Compiler.PredictOutputs(job.Item) {
		removed, err := fsx.Remove(p)
		switch {
		case err != nil:
			ie := &domain.ItemError{Code: domain.ErrCodeIOFailed, Msg: fmt.Sprintf("删除 %s 失败", p), Err: err}
			rep.Errorf("%s：%v", res.Source, ie)
			fail(&res, ie)
			res.Files = append(res.Files, domain.FileResult{Path: p, Status: domain.FileStatusFailed})
		case removed:
			rep.Successf("已删除 %s", p)
			res.Files = append(res.Files, domain.FileResult{Path: p, Status: domain.FileStatusRemoved})
		default:
			rep.Debugf("不存在，跳过 %s", p)
			res.Files = append(res.Files, domain.FileResult{Path: p, Status: domain.FileStatusAbsent})
		}
	}
	return res
}
