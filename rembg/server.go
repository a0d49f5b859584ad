package rembg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	nhttp "github.com/chaos-io/rembatch/util/http"
)

const (
	DefaultModel    = "u2net"
	DefaultEndpoint = "http://127.0.0.1:7000/api/remove"
)

// ServerRemover 调用 rembg 兼容的推理服务：
//
//	curl -X POST "$ENDPOINT" -F "file=@my_image.png" -F "model=u2net" -o out.png
//
// 响应体是带透明通道的 PNG 字节。
type ServerRemover struct {
	endpoint string
	model    string
	timeout  time.Duration
	cli      nhttp.IClient
}

type ServerOption func(*ServerRemover)

func WithModel(model string) ServerOption {
	return func(s *ServerRemover) { s.model = model }
}

func WithTimeout(timeout time.Duration) ServerOption {
	return func(s *ServerRemover) { s.timeout = timeout }
}

func WithClient(cli nhttp.IClient) ServerOption {
	return func(s *ServerRemover) { s.cli = cli }
}

func NewServerRemover(endpoint string, opts ...ServerOption) *ServerRemover {
	s := &ServerRemover{
		endpoint: endpoint,
		model:    DefaultModel,
		cli:      nhttp.NewHTTPClient(),
	}
	if s.endpoint == "" {
		s.endpoint = DefaultEndpoint
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ServerRemover) Remove(ctx context.Context, data []byte) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	// file 文件字段
	part, err := writer.CreateFormFile("file", "image.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("copy form file: %w", err)
	}

	// 其他字段
	_ = writer.WriteField("model", s.model)
	_ = writer.Close()

	var result []byte
	reqParam := &nhttp.RequestParam{
		RequestURI: s.endpoint,
		Method:     "POST",
		Header:     map[string]string{"Content-Type": writer.FormDataContentType()},
		Body:       body,
		Response:   &result,
		Timeout:    s.timeout,
	}
	if err := s.cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("empty response from %s", s.endpoint)
	}

	slog.Debug("removed background via server", "endpoint", s.endpoint, "model", s.model, "bytes", len(result))

	return result, nil
}
