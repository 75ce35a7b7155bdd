package detect

import (
	"math"
	"sort"

	"cardscan/pkg/geometry"
)

// SelectorOptions configures card candidate filtering and scoring.
type SelectorOptions struct {
	MinAreaRatio float64 // candidate area lower bound, fraction of frame area
	MaxAreaRatio float64 // candidate area upper bound, fraction of frame area

	// ID-1 cards are 85.60 x 53.98 mm, aspect ratio ~1.586. The bands are
	// deliberately loose to survive perspective foreshortening; the inverse
	// band is checked against height/width and widens the net acceptance to
	// roughly 1.30..1.82.
	AspectMin    float64
	AspectMax    float64
	InvAspectMin float64
	InvAspectMax float64

	// AreaTolerance is the relative deviation from the remembered area within
	// which a candidate is considered "the same card as last frame".
	AreaTolerance float64
}

// DefaultSelectorOptions returns selection options for ID-1 sized cards.
func DefaultSelectorOptions() SelectorOptions {
	return SelectorOptions{
		MinAreaRatio:  0.02,
		MaxAreaRatio:  0.85,
		AspectMin:     1.3,
		AspectMax:     1.8,
		InvAspectMin:  0.55,
		InvAspectMax:  0.77,
		AreaTolerance: 0.30,
	}
}

// Candidate is an accepted card-shaped polygon.
type Candidate struct {
	Corners CardCorners
	Area    float64
}

// Selector filters polygons against card geometry and prefers temporal size
// continuity: once a card has been seen, candidates of similar area win over
// larger intruders. The remembered area survives until Reset.
type Selector struct {
	opts     SelectorOptions
	lastArea float64
	hasLast  bool
}

// NewSelector creates a selector with the given options.
func NewSelector(opts SelectorOptions) *Selector {
	return &Selector{opts: opts}
}

// Reset clears the remembered candidate area.
func (s *Selector) Reset() {
	s.lastArea = 0
	s.hasLast = false
}

// Select picks the best card candidate among the given polygons, or reports
// none. Frame dimensions anchor the area band.
func (s *Selector) Select(polygons [][]geometry.Point2D, frameW, frameH int) (CardCorners, bool) {
	candidates := s.filter(polygons, frameW, frameH)
	if len(candidates) == 0 {
		return CardCorners{}, false
	}

	best := s.pick(candidates)

	// Exponential moving average keeps the remembered size stable against
	// per-frame jitter.
	if s.hasLast {
		s.lastArea = 0.7*s.lastArea + 0.3*best.Area
	} else {
		s.lastArea = best.Area
		s.hasLast = true
	}

	return best.Corners, true
}

func (s *Selector) filter(polygons [][]geometry.Point2D, frameW, frameH int) []Candidate {
	frameArea := float64(frameW) * float64(frameH)
	if frameArea <= 0 {
		return nil
	}

	var candidates []Candidate
	for _, poly := range polygons {
		if len(poly) < 3 {
			continue
		}

		area := geometry.Area(poly)
		if area < s.opts.MinAreaRatio*frameArea || area > s.opts.MaxAreaRatio*frameArea {
			continue
		}

		box := geometry.BoundingBox(poly)
		if box.Width <= 0 || box.Height <= 0 {
			continue
		}
		// The primary band checks width/height, the inverse band the flipped
		// ratio. Together they accept landscape boxes only, with the inverse
		// band stretching the upper bound slightly past AspectMax.
		aspect := box.Width / box.Height
		inverse := box.Height / box.Width

		primary := aspect >= s.opts.AspectMin && aspect <= s.opts.AspectMax
		inverted := inverse >= s.opts.InvAspectMin && inverse <= s.opts.InvAspectMax
		if !primary && !inverted {
			continue
		}

		var corners CardCorners
		if len(poly) == 4 {
			corners = OrderCorners(poly)
		} else {
			corners = CardCorners(box.Corners())
		}
		candidates = append(candidates, Candidate{Corners: corners, Area: area})
	}

	return candidates
}

// pick applies the selection policy: with a remembered area, candidates within
// tolerance of it come first (larger area breaking ties) and the rest rank by
// closeness to the remembered size; without one, the largest candidate wins.
func (s *Selector) pick(candidates []Candidate) Candidate {
	if !s.hasLast {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.Area > best.Area {
				best = c
			}
		}
		return best
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		di := math.Abs(candidates[i].Area-s.lastArea) / s.lastArea
		dj := math.Abs(candidates[j].Area-s.lastArea) / s.lastArea
		iIn := di <= s.opts.AreaTolerance
		jIn := dj <= s.opts.AreaTolerance
		if iIn != jIn {
			return iIn
		}
		if iIn {
			return candidates[i].Area > candidates[j].Area
		}
		return di < dj
	})

	return candidates[0]
}
