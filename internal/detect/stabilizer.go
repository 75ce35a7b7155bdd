package detect

// State describes the stabilized detection condition derived from the
// sliding history window.
type State int

const (
	// NoDetection means the window holds no positive detections.
	NoDetection State = iota
	// Unstable means some recent frames detected a card, but not enough to trust.
	Unstable
	// Stable means enough recent frames detected a card.
	Stable
)

func (s State) String() string {
	switch s {
	case Stable:
		return "stable"
	case Unstable:
		return "unstable"
	default:
		return "no-detection"
	}
}

// Stabilizer applies hysteresis to per-frame detection results. It keeps a
// fixed-capacity window of detection booleans and the last known corners, so
// a single dropped frame does not flicker the guidance while a truly absent
// card clears promptly.
type Stabilizer struct {
	history   []bool
	size      int
	threshold int
	corners   *CardCorners
}

// NewStabilizer creates a stabilizer with the given window size and the
// number of positive frames within the window required for a stable state.
func NewStabilizer(size, threshold int) *Stabilizer {
	if size <= 0 {
		size = 5
	}
	if threshold <= 0 || threshold > size {
		threshold = (size + 1) / 2
	}
	return &Stabilizer{
		history:   make([]bool, 0, size),
		size:      size,
		threshold: threshold,
	}
}

// Update records one frame's detection outcome and returns the stabilized
// state plus the effective corners. When the selector found nothing but the
// window still holds a recent positive, the remembered corners substitute for
// the miss. Remembered corners are cleared only once the window holds no
// positives at all.
func (st *Stabilizer) Update(found bool, corners CardCorners) (State, CardCorners, bool) {
	st.history = append(st.history, found)
	if len(st.history) > st.size {
		st.history = st.history[1:]
	}

	positives := 0
	for _, v := range st.history {
		if v {
			positives++
		}
	}

	if found {
		remembered := corners
		st.corners = &remembered
	} else if positives == 0 {
		st.corners = nil
	}

	state := NoDetection
	switch {
	case positives >= st.threshold:
		state = Stable
	case positives > 0:
		state = Unstable
	}

	if found {
		return state, corners, true
	}
	if positives > 0 && st.corners != nil {
		return state, *st.corners, true
	}
	return state, CardCorners{}, false
}

// Positives returns the number of positive detections in the window.
func (st *Stabilizer) Positives() int {
	n := 0
	for _, v := range st.history {
		if v {
			n++
		}
	}
	return n
}

// Reset clears the window and the remembered corners.
func (st *Stabilizer) Reset() {
	st.history = st.history[:0]
	st.corners = nil
}
