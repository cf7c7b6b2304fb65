package system

import (
	"image"
	"image/color"
	"sync"
)

// CanvasPool recycles chart canvases by pixel size. A plot run renders one
// chart per property, usually all at the same size.
type CanvasPool struct {
	mu    sync.Mutex
	sizes map[image.Point]*sync.Pool
}

var canvases = NewCanvasPool()

// NewCanvasPool returns an empty pool.
func NewCanvasPool() *CanvasPool {
	return &CanvasPool{sizes: make(map[image.Point]*sync.Pool)}
}

// Canvas returns a w x h canvas from the shared pool, filled with bg.
func Canvas(w, h int, bg color.Color) *image.RGBA {
	return canvases.Get(w, h, bg)
}

// ReleaseCanvas hands a canvas back to the shared pool.
func ReleaseCanvas(img *image.RGBA) {
	canvases.Put(img)
}

// Get returns a w x h canvas anchored at the origin and filled with bg.
// A nil bg leaves it fully transparent.
func (p *CanvasPool) Get(w, h int, bg color.Color) *image.RGBA {
	img := p.pool(image.Pt(w, h)).Get().(*image.RGBA)
	fill(img, bg)
	return img
}

// Put stores img for reuse. Nil and empty canvases are ignored.
func (p *CanvasPool) Put(img *image.RGBA) {
	if img == nil || img.Rect.Empty() || img.Rect.Min != (image.Point{}) {
		return
	}
	p.pool(img.Rect.Size()).Put(img)
}

func (p *CanvasPool) pool(size image.Point) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	pool, ok := p.sizes[size]
	if !ok {
		pool = &sync.Pool{
			New: func() any {
				return image.NewRGBA(image.Rectangle{Max: size})
			},
		}
		p.sizes[size] = pool
	}
	return pool
}

func fill(img *image.RGBA, bg color.Color) {
	var px [4]byte
	if bg != nil {
		c := color.RGBAModel.Convert(bg).(color.RGBA)
		px = [4]byte{c.R, c.G, c.B, c.A}
	}
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], px[:])
	}
}
