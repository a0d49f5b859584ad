package server

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"

	"github.com/chaos-io/rembatch/rembg"
)

// 单张图片上限，防止误传大文件拖垮推理端
const maxUploadBytes = 32 << 20

// Server 把同一个 Remover 暴露成 HTTP 服务：
// 上传一张图，拿回带透明通道的 PNG。
type Server struct {
	remover rembg.Remover
	router  *gin.Engine
}

func New(remover rembg.Remover) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		remover: remover,
		router:  router,
	}

	api := router.Group("/api")
	{
		api.POST("/remove", s.handleRemove)
	}
	router.GET("/health", s.handleHealth)

	return s
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler 暴露给 httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleRemove(c *gin.Context) {
	reqID := ksuid.New().String()
	c.Header("X-Request-ID", reqID)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image field"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := s.remover.Remove(c.Request.Context(), data)
	if err != nil {
		slog.Error("remove background failed", "request", reqID, "file", fileHeader.Filename, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "background removal failed"})
		return
	}

	slog.Info("removed background", "request", reqID, "file", fileHeader.Filename, "bytes", len(out))
	c.Data(http.StatusOK, "image/png", out)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
