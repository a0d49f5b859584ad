package rembg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

const (
	DefaultThreshold = 0.12
	DefaultMaxSize   = 1024

	// 软过渡带宽度，避免主体边缘出现硬锯齿
	featherBand = 0.08
)

// MatteRemover 本地兜底抠图：从图片边框采样背景色，
// 按像素到背景色的距离生成 alpha，输出 PNG。
// 适用于纯色（白底图标等）背景；复杂背景应走 ServerRemover。
type MatteRemover struct {
	Threshold float64 // 归一化颜色距离阈值，低于它的像素视为背景
	MaxSize   int     // 最长边上限，超出则先缩放
	Trim      bool    // 是否按主体 bounding box 裁剪输出
}

func NewMatteRemover() *MatteRemover {
	return &MatteRemover{
		Threshold: DefaultThreshold,
		MaxSize:   DefaultMaxSize,
	}
}

func (m *MatteRemover) Remove(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	src := toNRGBA(img)
	src = resizeWithinMax(src, m.MaxSize)

	bg, err := sampleBorder(src)
	if err != nil {
		return nil, err
	}

	applyMatte(src, bg, m.Threshold)

	if m.Trim {
		bbox, err := alphaBBox(src, 0.1)
		if err != nil {
			return nil, err
		}
		src = cropTo(src, bbox)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// sampleBorder 对四条边的像素取均值作为背景色估计
func sampleBorder(img *image.NRGBA) ([3]float64, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return [3]float64{}, errors.New("empty image")
	}

	var sum [3]float64
	var count float64
	add := func(x, y int) {
		i := y*img.Stride + x*4
		sum[0] += float64(img.Pix[i])
		sum[1] += float64(img.Pix[i+1])
		sum[2] += float64(img.Pix[i+2])
		count++
	}

	for x := 0; x < w; x++ {
		add(x, 0)
		add(x, h-1)
	}
	for y := 1; y < h-1; y++ {
		add(0, y)
		add(w-1, y)
	}

	return [3]float64{sum[0] / count, sum[1] / count, sum[2] / count}, nil
}

// applyMatte 把到背景色的距离映射为 alpha：
// 距离 < threshold → 透明，threshold ~ threshold+featherBand 之间线性过渡
func applyMatte(img *image.NRGBA, bg [3]float64, threshold float64) {
	// 255*sqrt(3) 是 RGB 空间的最大距离
	maxDist := 255.0 * math.Sqrt(3)

	for i := 0; i < len(img.Pix); i += 4 {
		dr := float64(img.Pix[i]) - bg[0]
		dg := float64(img.Pix[i+1]) - bg[1]
		db := float64(img.Pix[i+2]) - bg[2]
		dist := math.Sqrt(dr*dr+dg*dg+db*db) / maxDist

		switch {
		case dist <= threshold:
			img.Pix[i+3] = 0
		case dist < threshold+featherBand:
			t := (dist - threshold) / featherBand
			img.Pix[i+3] = uint8(t * float64(img.Pix[i+3]))
		}
	}
}

// alphaBBox 从 alpha 通道计算主体 bounding box
// 把 alpha > threshold * 255 的像素当作主体，找所有主体像素的坐标
func alphaBBox(img *image.NRGBA, threshold float64) (image.Rectangle, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	th := uint8(threshold * 255)

	minX, minY := w, h
	maxX, maxY := 0, 0
	found := false

	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			a := img.Pix[row+x*4+3]
			if a > th {
				found = true
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if !found {
		return image.Rectangle{}, errors.New("未检测到前景区域")
	}

	return image.Rect(minX, minY, maxX+1, maxY+1), nil
}

func cropTo(img *image.NRGBA, rect image.Rectangle) *image.NRGBA {
	rect = rect.Intersect(img.Bounds())
	dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, rect.Min, xdraw.Src)
	return dst
}

func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}
	b := img.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}

// resizeWithinMax 缩放（最长边 <= maxSize）
func resizeWithinMax(img *image.NRGBA, maxSize int) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	longest := max(w, h)

	if maxSize <= 0 || longest <= maxSize {
		return img
	}

	scale := float64(maxSize) / float64(longest)
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)

	resized := resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)
	return toNRGBA(resized)
}
