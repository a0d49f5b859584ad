package batch

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Job 一次处理任务：同名的输入/输出路径对
type Job struct {
	Name       string // 叶子文件名，输入输出共用
	InputPath  string // 本地路径或 http(s) URL
	OutputPath string
	Remote     bool
}

// BuildJobs 把文件名列表展开成任务列表，保持原有顺序。
// 列表项可以是 http(s) URL，此时按 URL 的叶子文件名落盘。
func BuildJobs(inputDir, outputDir string, names []string) []Job {
	jobs := make([]Job, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
			leaf := remoteLeaf(name)
			jobs = append(jobs, Job{
				Name:       leaf,
				InputPath:  name,
				OutputPath: filepath.Join(outputDir, leaf),
				Remote:     true,
			})
			continue
		}

		jobs = append(jobs, Job{
			Name:       name,
			InputPath:  filepath.Join(inputDir, name),
			OutputPath: filepath.Join(outputDir, name),
		})
	}
	return jobs
}

func remoteLeaf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || path.Base(u.Path) == "/" || path.Base(u.Path) == "." {
		return "download.png"
	}
	return path.Base(u.Path)
}
