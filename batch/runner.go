package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/segmentio/ksuid"

	"github.com/chaos-io/rembatch/rembg"
	"github.com/chaos-io/rembatch/util"
)

// Runner 按列表顺序逐个处理：读入 → 去背景 → 写出。
// 输入文件不存在只告警跳过；去背景失败或写出失败直接中止整批。
// 默认借助清单缓存跳过内容未变的输入；Force=true 关掉缓存，
// 每个存在的输入都重新去背景并覆盖写出。
type Runner struct {
	remover rembg.Remover

	// Force 忽略清单缓存，全部重跑
	Force bool
}

// Result 一次批处理的汇总
type Result struct {
	RunID     string
	Processed []string // 成功写出的输出路径
	Missing   []string // 输入不存在而跳过的输入路径
	Unchanged []string // 内容未变化而跳过的文件名
}

func NewRunner(remover rembg.Remover) *Runner {
	return &Runner{remover: remover}
}

// Run 处理 files 中的每个文件，严格按列表顺序，单线程。
// 第 N 个输出完全落盘后才开始第 N+1 个。
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string, files []string) (*Result, error) {
	// 输出目录幂等创建
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outputDir, err)
	}

	result := &Result{RunID: ksuid.New().String()}
	logger := slog.With("run", result.RunID)
	logger.Info("batch start", "input", inputDir, "output", outputDir, "files", len(files))

	manifest := LoadManifest(outputDir)

	for _, job := range BuildJobs(inputDir, outputDir, files) {
		data, ok, err := r.readInput(job, logger)
		if err != nil {
			return result, err
		}
		if !ok {
			result.Missing = append(result.Missing, job.InputPath)
			continue
		}

		hash := HashBytes(data)
		if !r.Force && manifest.Unchanged(job.Name, hash) {
			logger.Info("unchanged, skipped", "file", job.Name)
			result.Unchanged = append(result.Unchanged, job.Name)
			continue
		}

		logger.Info("processing", "input", job.InputPath)

		out, err := r.remover.Remove(ctx, data)
		if err != nil {
			return result, fmt.Errorf("remove background for %s: %w", job.Name, err)
		}

		if err := os.WriteFile(job.OutputPath, out, 0644); err != nil {
			return result, fmt.Errorf("write %s: %w", job.OutputPath, err)
		}

		manifest.Record(job.Name, hash, job.OutputPath)
		result.Processed = append(result.Processed, job.OutputPath)
		logger.Info("saved", "output", job.OutputPath)
	}

	if err := manifest.Save(); err != nil {
		// 清单只是缓存，写失败不影响本次结果
		logger.Warn("save manifest failed", "error", err)
	}

	logger.Info("batch done",
		"processed", len(result.Processed),
		"missing", len(result.Missing),
		"unchanged", len(result.Unchanged))

	return result, nil
}

// readInput 读取任务输入。本地文件不存在、远程下载失败都算"没找到"，
// 返回 ok=false 让批次继续；其余读错误中止。
func (r *Runner) readInput(job Job, logger *slog.Logger) ([]byte, bool, error) {
	if job.Remote {
		data, err := util.DownloadBytes(job.InputPath)
		if err != nil {
			logger.Warn("file not found, skipped", "input", job.InputPath, "error", err)
			return nil, false, nil
		}
		return data, true, nil
	}

	data, err := os.ReadFile(job.InputPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("file not found, skipped", "input", job.InputPath)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", job.InputPath, err)
	}
	return data, true, nil
}
