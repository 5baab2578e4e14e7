package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/John-Robertt/webcompile/internal/app/run"
	"github.com/John-Robertt/webcompile/internal/compiler"
	"github.com/John-Robertt/webcompile/internal/compiler/scss"
	"github.com/John-Robertt/webcompile/internal/config"
	"github.com/John-Robertt/webcompile/internal/domain"
	"github.com/John-Robertt/webcompile/internal/report"
)

// newRegistry 在测试中可替换（避免依赖 cgo 的 libsass）。
var newRegistry = func() (compiler.Registry, error) {
	return compiler.NewRegistry(scss.Entry())
}

func main() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

// runCLI 返回进程退出码：
// - 0：正常运行结束（单个 job 的失败只报告，不影响退出码）
// - 1：严格模式下存在失败/被丢弃的条目，或环境配置不合法
// - 2：命令行参数错误
func runCLI(args []string, stdout, stderr io.Writer) int {
	ca, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "参数错误：%v\n\n", err)
		printUsage(stderr)
		return 2
	}
	if ca.Help {
		printUsage(stdout)
		return 0
	}

	eff, err := config.LoadEffective(".", config.CLIArgs{
		Mode:        ca.Mode,
		ConfigFiles: ca.ConfigFiles,
	})
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	rep := report.NewConsole(stdout, report.ConsoleOptions{
		MinLevel: eff.LogLevel,
		NoColor:  eff.NoColor,
	})

	reg, err := newRegistry()
	if err != nil {
		fmt.Fprintf(stderr, "初始化编译器 registry 失败：%v\n", err)
		return 1
	}

	var obs run.Observer
	if eff.LogLevel == report.LevelDebug {
		obs = newProgressLog(rep)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rr := run.ExecuteWithObserver(ctx, eff, reg, rep, obs)
	emitSummary(stdout, rr)

	if eff.Strict && rr.HasProblems() {
		return 1
	}
	return 0
}

type cliArgs struct {
	Mode        domain.WorkMode
	ConfigFiles []string
	Help        bool
}

func parseArgs(args []string) (cliArgs, error) {
	ca := cliArgs{Mode: domain.ModeBuild}
	var (
		build, clean bool
		unknown      string
	)

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case isHelp(a):
			ca.Help = true
		case a == "-b" || a == "--build":
			build = true
		case a == "-c" || a == "--clean":
			clean = true
		case a == "--":
			ca.ConfigFiles = append(ca.ConfigFiles, args[i+1:]...)
			i = len(args)
		case strings.HasPrefix(a, "-") && a != "-":
			if unknown == "" {
				unknown = a
			}
		default:
			ca.ConfigFiles = append(ca.ConfigFiles, a)
		}
	}

	// 帮助优先：给了 -h 时其他参数（包括冲突/未知参数）都不再检查。
	if ca.Help {
		return ca, nil
	}
	if unknown != "" {
		return cliArgs{}, fmt.Errorf("未知参数 %q", unknown)
	}
	if build && clean {
		return cliArgs{}, fmt.Errorf("不能同时指定 --build 与 --clean")
	}
	if clean {
		ca.Mode = domain.ModeClean
	}
	return ca, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "-?" || s == "--help"
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `用法：
  webcompile [-b|--build|-c|--clean] [config ...]

参数：
  config       配置文件（JSON 数组，或 .toml 中的 [[Items]]）；可指定多个，按顺序处理
               未指定时读取当前目录下的 %s
  -b, --build  编译（默认）
  -c, --clean  删除之前 build 会生成的文件
  -h, --help   显示帮助

环境变量（也可写在当前目录的 .env 中）：
  %s=debug|info   日志级别（默认 info）
  %s=1              关闭颜色（也支持 %s）
  %s=true             存在失败或被丢弃的条目时以退出码 1 结束
  %s=N          源文件内容缓存容量（默认 64，0 为关闭）
`,
		config.DefaultConfigFileName,
		config.EnvLogLevel,
		config.EnvNoColor, config.EnvNoColorStd,
		config.EnvStrict,
		config.EnvSourceCache,
	)
}

func emitSummary(w io.Writer, rr domain.RunReport) {
	fmt.Fprintf(w, "完成：mode=%s jobs=%d ok=%d failed=%d dropped=%d\n",
		rr.Mode, rr.Summary.Jobs, rr.Summary.OK, rr.Summary.Failed, rr.Summary.Dropped,
	)
}
