package layout

// Spacing controls the geometry of a layout. The defaults fit a 250x150
// block card.
type Spacing struct {
	RankSep    float64 `json:"rank_sep"`
	NodeSep    float64 `json:"node_sep"`
	NodeWidth  float64 `json:"node_width"`
	NodeHeight float64 `json:"node_height"`
	// Sweeps is the number of extra ordering passes. Zero disables
	// refinement after the initial downward sweep.
	Sweeps int `json:"sweeps"`
}

const (
	DefaultRankSep    = 80
	DefaultNodeSep    = 50
	DefaultNodeWidth  = 250
	DefaultNodeHeight = 150
	DefaultSweeps     = 2
)

// DefaultSpacing returns the default spacing.
func DefaultSpacing() Spacing {
	return Spacing{
		RankSep:    DefaultRankSep,
		NodeSep:    DefaultNodeSep,
		NodeWidth:  DefaultNodeWidth,
		NodeHeight: DefaultNodeHeight,
		Sweeps:     DefaultSweeps,
	}
}

// WithDefaults replaces non-positive dimensions and negative separations
// with the defaults. A negative Sweeps becomes zero.
func (s Spacing) WithDefaults() Spacing {
	if s.NodeWidth <= 0 {
		s.NodeWidth = DefaultNodeWidth
	}
	if s.NodeHeight <= 0 {
		s.NodeHeight = DefaultNodeHeight
	}
	if s.RankSep < 0 {
		s.RankSep = DefaultRankSep
	}
	if s.NodeSep < 0 {
		s.NodeSep = DefaultNodeSep
	}
	if s.Sweeps < 0 {
		s.Sweeps = 0
	}
	return s
}

// Point is the top-left corner of a node.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AssignCoordinates places nodes on a grid: rank r is at y = r*(NodeHeight+RankSep)
// and the i-th node of a rank at x = offset + i*(NodeWidth+NodeSep), where
// offset centers the rank against the widest one.
func AssignCoordinates(orders Orders, sp Spacing) map[string]Point {
	sp = sp.WithDefaults()
	widest := 0.0
	for _, ids := range orders {
		widest = max(widest, rowWidth(len(ids), sp))
	}

	points := make(map[string]Point)
	for r, ids := range orders {
		offset := (widest - rowWidth(len(ids), sp)) / 2
		y := float64(r) * (sp.NodeHeight + sp.RankSep)
		for i, id := range ids {
			points[id] = Point{
				X: offset + float64(i)*(sp.NodeWidth+sp.NodeSep),
				Y: y,
			}
		}
	}
	return points
}

func rowWidth(k int, sp Spacing) float64 {
	if k == 0 {
		return 0
	}
	return float64(k)*sp.NodeWidth + float64(k-1)*sp.NodeSep
}
