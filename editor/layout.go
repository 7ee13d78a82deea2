package editor

import (
	"math"

	"github.com/vsariola/pianoroll"
)

// Layout holds the pixel geometry of the roll canvas. All derived sizes (bar,
// beat and division widths, content size) are computed from these fields and
// the time signature on demand.
//
// Horizontal pixel coordinates passed to LocationToX and XToLocation are
// relative to the left edge of the note grid, i.e. after the key labels;
// GridX converts from canvas coordinates. Vertical coordinates are canvas
// coordinates, the header above the first row included.
type Layout struct {
	CellWidth  int `yaml:"cellwidth"`
	CellHeight int `yaml:"cellheight"`
	LabelWidth int `yaml:"labelwidth"`
	HeadHeight int `yaml:"headheight"`
	ViewWidth  int `yaml:"viewwidth"`
	ScrollX    int `yaml:"-"`
}

// DivWidth is the width of one division in pixels, separator line included.
func (l Layout) DivWidth() int { return l.CellWidth + 1 }

func (l Layout) BeatWidth(sig pianoroll.Signature) int { return l.DivWidth() * sig.Divs }

func (l Layout) BarWidth(sig pianoroll.Signature) int { return l.BeatWidth(sig) * sig.Beats }

func (l Layout) RowHeight() int { return l.CellHeight + 1 }

// GridX converts a canvas x coordinate into a grid coordinate.
func (l Layout) GridX(canvasX float64) float64 { return canvasX - float64(l.LabelWidth) }

// LocationToX returns the grid x coordinate of loc, taking the scroll offset
// into account.
func (l Layout) LocationToX(loc pianoroll.Location, sig pianoroll.Signature) float64 {
	return float64(l.BarWidth(sig))*float64(loc.Bar) + float64(l.BeatWidth(sig))*loc.Beat - float64(l.ScrollX)
}

// XToLocation is the inverse of LocationToX. With round, the result snaps down
// to the start of the division under x, which is what note insertion uses.
// Without round the exact fractional beat is returned; hit tests need that as
// event intervals are half-open.
func (l Layout) XToLocation(x float64, sig pianoroll.Signature, round bool) (pianoroll.Location, error) {
	x += float64(l.ScrollX)
	if x < 0 || math.IsNaN(x) {
		return pianoroll.Location{}, pianoroll.ErrOutOfRange
	}
	barWidth := float64(l.BarWidth(sig))
	bar := math.Floor(x / barWidth)
	div := (x - bar*barWidth) / float64(l.DivWidth())
	if round {
		div = math.Floor(div)
	}
	beat := div / float64(sig.Divs)
	if beat >= float64(sig.Beats) {
		bar++
		beat = 0
	}
	return pianoroll.Normalize(int(bar), beat, sig.Beats), nil
}

// YToRow returns the row index under canvas coordinate y, or false if y is
// above the first or below the last of rowCount rows.
func (l Layout) YToRow(y float64, rowCount int) (int, bool) {
	row := math.Floor((y - float64(l.HeadHeight)) / float64(l.RowHeight()))
	if math.IsNaN(row) || row < 0 || row >= float64(rowCount) {
		return -1, false
	}
	return int(row), true
}

// RowToY returns the canvas y coordinate of the top of a row.
func (l Layout) RowToY(row int) float64 {
	return float64(l.HeadHeight + row*l.RowHeight())
}

// ContentWidth is the width of the whole roll in pixels.
func (l Layout) ContentWidth(sig pianoroll.Signature, bars int) int {
	return l.BarWidth(sig) * bars
}

// ContentHeight is the height of all the rows in pixels, header excluded.
func (l Layout) ContentHeight(rowCount int) int {
	return rowCount * l.RowHeight()
}

// MaxScroll is the largest allowed ScrollX.
func (l Layout) MaxScroll(sig pianoroll.Signature, bars int) int {
	return max(l.ContentWidth(sig, bars)-l.ViewWidth, 0)
}

// ClampScroll returns the layout with ScrollX limited to [0, MaxScroll].
func (l Layout) ClampScroll(sig pianoroll.Signature, bars int) Layout {
	l.ScrollX = max(min(l.ScrollX, l.MaxScroll(sig, bars)), 0)
	return l
}
