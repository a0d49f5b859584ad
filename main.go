package main

import (
	"context"
	"log"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/chaos-io/rembatch/batch"
	"github.com/chaos-io/rembatch/config"
	"github.com/chaos-io/rembatch/rembg"
)

func main() {
	configPath := "" // 可用第一个参数指定配置文件
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	remover, err := rembg.FromConfig(cfg.Remover)
	if err != nil {
		log.Fatal("Failed to build remover:", err)
	}

	runner := batch.NewRunner(remover)
	runner.Force = cfg.Force

	log.Println("rembatch - icon background removal")
	log.Println("Input: ", cfg.Input.Dir)
	log.Println("Output:", cfg.Output.Dir)

	if cfg.Schedule != "" {
		// 定时模式：按 cron 表达式反复跑，单个批次失败不退出
		c := cron.New()
		_, err := c.AddFunc(cfg.Schedule, func() {
			if _, err := runner.Run(context.Background(), cfg.Input.Dir, cfg.Output.Dir, cfg.Input.Files); err != nil {
				log.Println("Scheduled batch failed:", err)
			}
		})
		if err != nil {
			log.Fatal("Invalid schedule:", err)
		}
		log.Println("Running on schedule:", cfg.Schedule)
		c.Run()
		return
	}

	if _, err := runner.Run(context.Background(), cfg.Input.Dir, cfg.Output.Dir, cfg.Input.Files); err != nil {
		log.Fatal("Batch failed:", err)
	}

	log.Println("Background removal complete! Transparent images saved to:", cfg.Output.Dir)
}
