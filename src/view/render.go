package view

import (
	"bytes"
	"io"

	"github.com/logrusorgru/aurora"

	"evosim/src/life"
	"evosim/src/world"
)

const (
	liveChar = "█"
	deadChar = "░"
)

//cubeLevels are the channel intensities of the xterm 6x6x6 color cube
var cubeLevels = [6]int{0, 95, 135, 175, 215, 255}

//XtermIndex returns the nearest 256-color palette cube index for the color
func XtermIndex(c life.Color) uint8 {
	return uint8(16 + 36*cubeStep(c.R) + 6*cubeStep(c.G) + cubeStep(c.B))
}

func cubeStep(v uint8) int {
	best, bestDist := 0, 1<<30
	for i, l := range cubeLevels {
		d := int(v) - l
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

//cellString renders one tile color, the background is drawn with the dead filler
func cellString(c life.Color) string {
	if c == world.Background {
		return deadChar
	}
	return aurora.Index(XtermIndex(c), liveChar).String()
}

//RenderBoard writes one frame of the board, maxW and maxH crop it when positive
func RenderBoard(w io.Writer, b *world.Board, maxW int, maxH int) error {
	var buf bytes.Buffer
	for y := 0; y < b.Height(); y++ {
		if maxH > 0 && y >= maxH {
			break
		}
		if y != 0 {
			buf.WriteByte('\n')
		}
		for x := 0; x < b.Width(); x++ {
			if maxW > 0 && x >= maxW {
				break
			}
			c, err := b.ColorAt(x, y)
			if err != nil {
				return err
			}
			buf.WriteString(cellString(c))
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}
