package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

const (
	dotW = 4
	dotH = 4
)

// Recorder accumulates canvas frames into an animated GIF.
type Recorder struct {
	palette color.Palette
	index   map[lipgloss.Color]uint8
	frames  []*image.Paletted
}

func NewRecorder(t Theme) *Recorder {
	r := &Recorder{index: make(map[lipgloss.Color]uint8)}
	r.palette = color.Palette{hexRGBA(t.Background), color.White}
	for _, c := range []lipgloss.Color{t.Normal, t.Time, t.Supernova, t.BlackHole, t.Well, t.Neutron, t.Muted} {
		if _, ok := r.index[c]; ok {
			continue
		}
		r.index[c] = uint8(len(r.palette))
		r.palette = append(r.palette, hexRGBA(c))
	}
	return r
}

func (r *Recorder) Frames() int { return len(r.frames) }

// Capture rasterises every lit dot of c as a dotW x dotH block.
func (r *Recorder) Capture(c *Canvas) {
	img := image.NewPaletted(image.Rect(0, 0, c.DotsX()*dotW, c.DotsY()*dotH), r.palette)
	for y := 0; y < c.DotsY(); y++ {
		for x := 0; x < c.DotsX(); x++ {
			if !c.Lit(x, y) {
				continue
			}
			idx, ok := r.index[c.Colors[y/4][x/2]]
			if !ok {
				idx = 1
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, idx)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return errors.New("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

func hexRGBA(c lipgloss.Color) color.RGBA {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{255, 255, 255, 255}
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}
