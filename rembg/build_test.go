package rembg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaos-io/rembatch/config"
)

func TestFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.RemoverConfig
		check   func(t *testing.T, r Remover)
		wantErr string
	}{
		{
			name: "server模式",
			cfg: config.RemoverConfig{
				Mode:           "server",
				Endpoint:       "http://inference:7000/api/remove",
				Model:          "u2netp",
				TimeoutSeconds: 120,
			},
			check: func(t *testing.T, r Remover) {
				s, ok := r.(*ServerRemover)
				require.True(t, ok)
				assert.Equal(t, "http://inference:7000/api/remove", s.endpoint)
				assert.Equal(t, "u2netp", s.model)
				assert.Equal(t, 120*time.Second, s.timeout)
			},
		},
		{
			name: "mode为空默认server",
			cfg:  config.RemoverConfig{Model: "u2net"},
			check: func(t *testing.T, r Remover) {
				s, ok := r.(*ServerRemover)
				require.True(t, ok)
				assert.Equal(t, DefaultEndpoint, s.endpoint)
			},
		},
		{
			name: "local模式",
			cfg: config.RemoverConfig{
				Mode:      "local",
				Threshold: 0.2,
				MaxSize:   512,
				Trim:      true,
			},
			check: func(t *testing.T, r Remover) {
				m, ok := r.(*MatteRemover)
				require.True(t, ok)
				assert.InDelta(t, 0.2, m.Threshold, 1e-9)
				assert.Equal(t, 512, m.MaxSize)
				assert.True(t, m.Trim)
			},
		},
		{
			name: "local模式零值用默认参数",
			cfg:  config.RemoverConfig{Mode: "local"},
			check: func(t *testing.T, r Remover) {
				m, ok := r.(*MatteRemover)
				require.True(t, ok)
				assert.InDelta(t, DefaultThreshold, m.Threshold, 1e-9)
				assert.Equal(t, DefaultMaxSize, m.MaxSize)
			},
		},
		{
			name: "noop模式",
			cfg:  config.RemoverConfig{Mode: "noop"},
			check: func(t *testing.T, r Remover) {
				_, ok := r.(*NoopRemover)
				assert.True(t, ok)
			},
		},
		{
			name:    "未知模式报错",
			cfg:     config.RemoverConfig{Mode: "magic"},
			wantErr: `unknown remover mode "magic"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := FromConfig(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, r)
		})
	}
}
