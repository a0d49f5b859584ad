package rembg

import "context"

// Remover 背景去除能力：输入原始图片字节，输出带透明通道的图片字节
type Remover interface {
	Remove(ctx context.Context, data []byte) ([]byte, error)
}

// NoopRemover 原样返回，用于测试和调试
type NoopRemover struct{}

func NewNoopRemover() *NoopRemover {
	return &NoopRemover{}
}

func (n *NoopRemover) Remove(ctx context.Context, data []byte) ([]byte, error) {
	return data, nil
}
