package rembg

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaos-io/rembatch/util"
)

// 白底 + 居中红色方块，模拟原始图标素材
func whiteIconPNG(t *testing.T, size int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	for y := size / 4; y < size*3/4; y++ {
		for x := size / 4; x < size*3/4; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMatteRemover_Remove(t *testing.T) {
	defer util.Trace("matte remove")()

	in := whiteIconPNG(t, 64)

	m := NewMatteRemover()
	out, err := m.Remove(context.Background(), in)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	nrgba := toNRGBA(decoded)

	// 背景变透明，主体保持不透明
	_, _, _, a := nrgba.At(1, 1).RGBA()
	assert.Zero(t, a)
	_, _, _, a = nrgba.At(32, 32).RGBA()
	assert.EqualValues(t, 0xffff, a)
}

func TestMatteRemover_Remove_Trim(t *testing.T) {
	t.Parallel()

	in := whiteIconPNG(t, 64)

	m := NewMatteRemover()
	m.Trim = true
	out, err := m.Remove(context.Background(), in)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	// 裁剪后只剩主体方块
	assert.Equal(t, 32, decoded.Bounds().Dx())
	assert.Equal(t, 32, decoded.Bounds().Dy())
}

func TestMatteRemover_Remove_ResizeWithinMax(t *testing.T) {
	t.Parallel()

	in := whiteIconPNG(t, 128)

	m := NewMatteRemover()
	m.MaxSize = 64
	out, err := m.Remove(context.Background(), in)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
}

func TestMatteRemover_Remove_BadInput(t *testing.T) {
	t.Parallel()

	m := NewMatteRemover()
	_, err := m.Remove(context.Background(), []byte("not an image"))
	assert.Error(t, err)
}
