package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestScaleToFit(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		max   int
		wantW int
		wantH int
	}{
		{"已在范围内不缩放", 100, 80, 442, 100, 80},
		{"横向大图按宽缩放", 884, 442, 442, 442, 221},
		{"纵向大图按高缩放", 300, 1200, 400, 100, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := ScaleToFit(src, tt.max)
			if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
				t.Errorf("ScaleToFit(%dx%d, %d) = %dx%d, 期望 %dx%d",
					tt.w, tt.h, tt.max, got.Bounds().Dx(), got.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}

	if ScaleToFit(nil, 10) != nil {
		t.Error("ScaleToFit(nil) 应返回 nil")
	}
}

func TestAddBorder(t *testing.T) {
	src := ebiten.NewImage(40, 30)
	framed := AddBorder(src, 4, color.Black)

	if framed.Bounds().Dx() != 48 || framed.Bounds().Dy() != 38 {
		t.Errorf("AddBorder 尺寸 = %v, 期望 48x38", framed.Bounds())
	}
	if framed == src {
		t.Error("AddBorder 不应返回原图")
	}
	if AddBorder(nil, 4, color.Black) != nil {
		t.Error("AddBorder(nil) 应返回 nil")
	}
}
