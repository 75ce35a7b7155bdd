package detect

import (
	"cardscan/internal/contour"
	"cardscan/internal/edges"
	"cardscan/internal/raster"
	"cardscan/pkg/geometry"
)

// Options configures the full single-frame detection pass.
type Options struct {
	Edges            edges.Options
	Selector         SelectorOptions
	MinContourPoints int
	EpsilonFractions []float64
}

// DefaultOptions returns detection options with all stages at their defaults.
func DefaultOptions() Options {
	return Options{
		Edges:            edges.DefaultOptions(),
		Selector:         DefaultSelectorOptions(),
		MinContourPoints: contour.MinPoints,
		EpsilonFractions: contour.DefaultEpsilonFractions,
	}
}

// Detector runs the edge map / contour / polygon / selector chain on a
// grayscale frame. DetectFrame keeps selection memory across calls for the
// live guidance path; DetectOnce is the memoryless single-shot variant used
// at capture time.
type Detector struct {
	opts     Options
	selector *Selector
}

// NewDetector creates a detector with per-session selection memory.
func NewDetector(opts Options) *Detector {
	return &Detector{
		opts:     opts,
		selector: NewSelector(opts.Selector),
	}
}

// DetectFrame detects the card in one guidance frame, preferring candidates
// sized like the previously detected card.
func (d *Detector) DetectFrame(g *raster.Gray) (CardCorners, bool) {
	polys := d.polygons(g)
	if polys == nil {
		return CardCorners{}, false
	}
	return d.selector.Select(polys, g.W, g.H)
}

// DetectOnce detects the card with no temporal memory.
func (d *Detector) DetectOnce(g *raster.Gray) (CardCorners, bool) {
	polys := d.polygons(g)
	if polys == nil {
		return CardCorners{}, false
	}
	return NewSelector(d.opts.Selector).Select(polys, g.W, g.H)
}

// Reset clears the selector's remembered area.
func (d *Detector) Reset() {
	d.selector.Reset()
}

func (d *Detector) polygons(g *raster.Gray) [][]geometry.Point2D {
	if !g.Valid() {
		return nil
	}

	edgeMap := edges.Build(g, d.opts.Edges)
	contours := contour.Trace(edgeMap, d.opts.MinContourPoints)
	if len(contours) == 0 {
		return nil
	}

	polys := make([][]geometry.Point2D, 0, len(contours))
	for _, c := range contours {
		if poly, ok := contour.Approximate(c.Boundary2D(), d.opts.EpsilonFractions); ok {
			polys = append(polys, poly)
		}
	}
	return polys
}
