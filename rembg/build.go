package rembg

import (
	"fmt"
	"time"

	"github.com/chaos-io/rembatch/config"
)

// FromConfig 按配置组装 Remover
func FromConfig(cfg config.RemoverConfig) (Remover, error) {
	switch cfg.Mode {
	case "server", "":
		opts := []ServerOption{WithModel(cfg.Model)}
		if cfg.TimeoutSeconds > 0 {
			opts = append(opts, WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
		}
		return NewServerRemover(cfg.Endpoint, opts...), nil
	case "local":
		m := NewMatteRemover()
		if cfg.Threshold > 0 {
			m.Threshold = cfg.Threshold
		}
		if cfg.MaxSize > 0 {
			m.MaxSize = cfg.MaxSize
		}
		m.Trim = cfg.Trim
		return m, nil
	case "noop":
		return NewNoopRemover(), nil
	default:
		return nil, fmt.Errorf("unknown remover mode %q", cfg.Mode)
	}
}
