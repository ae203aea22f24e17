package layout

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowboard/pkg/cache"
	ferrors "github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/flow"
	"github.com/matzehuels/flowboard/pkg/observability"
	"github.com/matzehuels/flowboard/pkg/port"
)

// Default spacing between boxes of adjacent ranks and within a rank.
const (
	DefaultRankSep = 100.0
	DefaultNodeSep = 40.0
)

// DefaultTTL is how long cached layouts live.
const DefaultTTL = 7 * 24 * time.Hour

// Pair is a directed connection between two nodes, by index into
// [Graph.Nodes]. Port indices do not matter to oracles.
type Pair struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Graph is the input handed to an oracle: node ids in application order,
// distinct directed pairs, and the uniform box geometry.
type Graph struct {
	Nodes   []string  `json:"nodes"`
	Edges   []Pair    `json:"edges"`
	Box     port.Size `json:"box"`
	RankSep float64   `json:"rank_sep"`
	NodeSep float64   `json:"node_sep"`
}

// Oracle is a layered graph drawing algorithm. Place returns the center of
// every node's box keyed by node id, with ranks running left to right.
type Oracle interface {
	Name() string
	Place(ctx context.Context, g Graph) (map[string]flow.Point, error)
}

// Result is the output of [Engine.Compute].
type Result struct {
	Oracle    string                  `json:"oracle"`
	Box       port.Size               `json:"box"`
	Positions map[string]flow.Point   `json:"positions"`
	Offsets   map[string]port.Offsets `json:"offsets"`
	Cached    bool                    `json:"cached"` // positions came from the cache
}

// Engine computes layouts with an Oracle. It is safe for concurrent use if
// the oracle and cache are.
type Engine struct {
	oracle  Oracle
	box     port.Size
	spacing float64
	rankSep float64
	nodeSep float64
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	logger  *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithBoxSize sets the uniform box size. Non-positive dimensions are ignored.
func WithBoxSize(s port.Size) Option {
	return func(e *Engine) {
		if s.W > 0 && s.H > 0 {
			e.box = s
		}
	}
}

// WithSeparation sets the gap between ranks and between boxes in a rank.
func WithSeparation(rankSep, nodeSep float64) Option {
	return func(e *Engine) {
		if rankSep >= 0 {
			e.rankSep = rankSep
		}
		if nodeSep >= 0 {
			e.nodeSep = nodeSep
		}
	}
}

// WithPortSpacing sets the spacing used for default port offsets.
func WithPortSpacing(s float64) Option {
	return func(e *Engine) {
		if s > 0 {
			e.spacing = s
		}
	}
}

// WithCache enables result caching. A zero ttl means DefaultTTL.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = c
		if ttl > 0 {
			e.ttl = ttl
		}
	}
}

// WithKeyer overrides the cache key scheme.
func WithKeyer(k cache.Keyer) Option {
	return func(e *Engine) {
		if k != nil {
			e.keyer = k
		}
	}
}

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine around oracle.
func New(oracle Oracle, opts ...Option) *Engine {
	e := &Engine{
		oracle:  oracle,
		box:     port.DefaultSize(),
		spacing: port.DefaultSpacing,
		rankSep: DefaultRankSep,
		nodeSep: DefaultNodeSep,
		cache:   cache.NewNullCache(),
		keyer:   cache.NewDefaultKeyer(),
		ttl:     DefaultTTL,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Box returns the uniform box size.
func (e *Engine) Box() port.Size { return e.box }

// PortSpacing returns the spacing used for default offsets.
func (e *Engine) PortSpacing() float64 { return e.spacing }

// Oracle returns the oracle name.
func (e *Engine) Oracle() string { return e.oracle.Name() }

// Compute validates the application lists and lays them out.
func (e *Engine) Compute(ctx context.Context, nodes []flow.NodeProps, edges []flow.EdgeProps) (Result, error) {
	g, err := flow.Build(nodes, edges)
	if err != nil {
		return Result{}, ferrors.Wrap(ferrors.ErrCodeInvalidGraph, err, "invalid diagram")
	}
	return e.ComputeGraph(ctx, g)
}

// ComputeGraph lays out an already derived graph. Only edges present in the
// per-node adjacency lists take part.
func (e *Engine) ComputeGraph(ctx context.Context, g *flow.Graph) (Result, error) {
	in := e.input(g)
	res := Result{
		Oracle:    e.oracle.Name(),
		Box:       e.box,
		Positions: make(map[string]flow.Point, g.Len()),
		Offsets:   make(map[string]port.Offsets, g.Len()),
	}
	if g.Len() == 0 {
		return res, nil
	}

	// Offsets are cheap and depend on port counts, which the cache key
	// does not cover; only positions are cached.
	for i := 0; i < g.Len(); i++ {
		n := g.Node(i)
		res.Offsets[n.ID] = port.Compute(n.Inputs, n.Outputs, e.box, e.spacing)
	}

	key := e.key(in)
	if cached, ok := e.lookup(ctx, key, in.Nodes); ok {
		res.Positions = cached
		res.Cached = true
		return res, nil
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, res.Oracle, g.Len())
	start := time.Now()

	centers, err := e.oracle.Place(ctx, in)
	if err == nil {
		err = e.anchor(in, centers, res.Positions)
	}
	hooks.OnLayoutComplete(ctx, res.Oracle, time.Since(start), err)
	if err != nil {
		if ferrors.Is(err, ferrors.ErrCodeLayout) {
			return Result{}, err
		}
		return Result{}, ferrors.Wrap(ferrors.ErrCodeLayout, err, "oracle %s", res.Oracle)
	}
	e.logger.Debug("layout computed", "oracle", res.Oracle, "nodes", g.Len(), "edges", len(in.Edges), "duration", time.Since(start))

	e.store(ctx, key, res.Positions)
	return res, nil
}

// input converts g to the oracle graph. Self-loops are dropped; they do not
// affect ranking.
func (e *Engine) input(g *flow.Graph) Graph {
	in := Graph{
		Nodes:   make([]string, g.Len()),
		Box:     e.box,
		RankSep: e.rankSep,
		NodeSep: e.nodeSep,
	}
	seen := make(map[Pair]bool)
	for i := 0; i < g.Len(); i++ {
		n := g.Node(i)
		in.Nodes[i] = n.ID
		for _, id := range n.EdgesOut {
			ends, _ := g.Ends(id)
			j, ok := g.Index(ends.TargetNode)
			if !ok || j == i {
				continue
			}
			p := Pair{From: i, To: j}
			if !seen[p] {
				seen[p] = true
				in.Edges = append(in.Edges, p)
			}
		}
	}
	return in
}

// anchor converts box centers to anchors, rejecting incomplete or
// non-finite oracle output.
func (e *Engine) anchor(in Graph, centers map[string]flow.Point, out map[string]flow.Point) error {
	for _, id := range in.Nodes {
		c, ok := centers[id]
		if !ok {
			return ferrors.New(ferrors.ErrCodeLayout, "oracle returned no position for %q", id)
		}
		if !c.IsFinite() {
			return ferrors.New(ferrors.ErrCodeLayout, "oracle returned non-finite position for %q", id)
		}
		out[id] = flow.Point{X: c.X - in.Box.W/2, Y: c.Y}
	}
	return nil
}

func (e *Engine) key(in Graph) string {
	data, _ := json.Marshal(struct {
		Nodes []string `json:"nodes"`
		Edges []Pair   `json:"edges"`
	}{in.Nodes, in.Edges})
	return e.keyer.LayoutKey(cache.Hash(data), cache.LayoutKeyOpts{
		Oracle:      e.oracle.Name(),
		BoxWidth:    e.box.W,
		BoxHeight:   e.box.H,
		RankSep:     e.rankSep,
		NodeSep:     e.nodeSep,
		PortSpacing: e.spacing,
	})
}

func (e *Engine) lookup(ctx context.Context, key string, ids []string) (map[string]flow.Point, bool) {
	data, hit, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("layout cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return nil, false
	}
	var pos map[string]flow.Point
	if err := json.Unmarshal(data, &pos); err != nil {
		e.logger.Warn("layout cache entry unreadable", "err", err)
		return nil, false
	}
	for _, id := range ids {
		if _, ok := pos[id]; !ok {
			e.logger.Warn("layout cache entry incomplete", "missing", id)
			return nil, false
		}
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return pos, true
}

func (e *Engine) store(ctx context.Context, key string, pos map[string]flow.Point) {
	data, err := json.Marshal(pos)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
		e.logger.Warn("layout cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "layout", len(data))
}

// Bounds returns the smallest rectangle containing every box of res.
func Bounds(res Result) (lo, hi flow.Point) {
	if len(res.Positions) == 0 {
		return flow.Point{}, flow.Point{}
	}
	lo = flow.Point{X: math.Inf(1), Y: math.Inf(1)}
	hi = flow.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range res.Positions {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y-res.Box.H/2)
		hi.X = math.Max(hi.X, p.X+res.Box.W)
		hi.Y = math.Max(hi.Y, p.Y+res.Box.H/2)
	}
	return lo, hi
}
