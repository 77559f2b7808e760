package simulation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-malsim/pkg/logging"
	"github.com/dd0wney/cluso-malsim/pkg/pubsub"
	"github.com/dd0wney/cluso-malsim/pkg/visualization"
)

// DefaultTickInterval is used when Settings reports a non-positive interval.
const DefaultTickInterval = 600 * time.Millisecond

// Settings supplies the values owned by the control panel. Every method is
// called at the moment the value is needed, never cached.
type Settings interface {
	Rates() RateConfig
	TickInterval() time.Duration
	NodeCount() int
	AutoSeed() bool
}

// Recorder observes controller activity, typically for telemetry.
type Recorder interface {
	RecordTick(result TickResult, sample Sample, duration time.Duration)
	RecordInteraction(mode Mode, result InteractionResult)
	RecordSeed(ids []int)
	RecordTrojanSpawn()
	RecordReset(nodes, edges int, sample Sample)
	SetRunning(running bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordTick(TickResult, Sample, time.Duration) {}
func (nopRecorder) RecordInteraction(Mode, InteractionResult)    {}
func (nopRecorder) RecordSeed([]int)                             {}
func (nopRecorder) RecordTrojanSpawn()                           {}
func (nopRecorder) RecordReset(int, int, Sample)                 {}
func (nopRecorder) SetRunning(bool)                              {}

// Snapshot is a deep copy of everything the presentation layer draws.
type Snapshot struct {
	Nodes     []Node
	Edges     []Edge
	Positions []visualization.Position
	State     State
	Window    []Sample
	Rates     RateConfig
}

// Controller owns one simulation: its graph, lifecycle state and metrics
// window. All methods are safe for concurrent use; they are serialised by
// a single mutex, so a tick never overlaps a click.
type Controller struct {
	mu        sync.Mutex
	settings  Settings
	graph     *Graph
	positions []visualization.Position
	state     State
	window    *Window

	rng       RandomSource
	scheduler Scheduler
	layout    visualization.Layout
	task      Task
	gen       uint64

	// initialSeed is the minimum number of nodes infected by the first
	// reset only. Later resets follow Settings.AutoSeed.
	initialSeed int

	logger   logging.Logger
	recorder Recorder
	events   *pubsub.Broker[Event]
}

// Option configures a Controller.
type Option func(*Controller)

// WithRandom sets the random source used by every rule.
func WithRandom(rng RandomSource) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithScheduler replaces the ticker-based scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.scheduler = s }
}

// WithLayout replaces the default jittered circular layout.
func WithLayout(l visualization.Layout) Option {
	return func(c *Controller) {
		if l != nil {
			c.layout = l
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the telemetry recorder. A nil recorder is ignored.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithMode sets the initial interaction mode.
func WithMode(m Mode) Option {
	return func(c *Controller) { c.state.Mode = m }
}

// WithInitialSeed infects at least k random nodes when the controller is
// built, whether or not auto-seed is on. The infection is part of the
// first reset, so the first window sample already counts it.
func WithInitialSeed(k int) Option {
	return func(c *Controller) { c.initialSeed = k }
}

// WithEvents publishes controller events on an existing broker.
func WithEvents(b *pubsub.Broker[Event]) Option {
	return func(c *Controller) { c.events = b }
}

// NewController creates a controller and performs an initial reset, so the
// returned controller already has a graph and one sample.
func NewController(settings Settings, opts ...Option) *Controller {
	c := &Controller{
		settings:  settings,
		window:    NewWindow(WindowCapacity),
		rng:       NewRandomSource(0),
		scheduler: TickerScheduler{},
		layout:    visualization.NewCircularLayout(visualization.DefaultLayoutConfig()),
		logger:    logging.NewNopLogger(),
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.events == nil {
		c.events = pubsub.NewBroker[Event](pubsub.DefaultBuffer)
	}
	c.logger = c.logger.With(logging.Component("controller"))

	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
	return c
}

// Subscribe returns a subscription to every controller event.
func (c *Controller) Subscribe(ctx context.Context) (*pubsub.Subscription[Event], error) {
	return c.events.Subscribe(ctx, TopicUpdates)
}

// Close stops the clock and ends all event subscriptions.
func (c *Controller) Close() {
	c.Stop()
	c.events.Shutdown()
}

// Start begins ticking at the interval reported by Settings. It returns
// false, and does nothing, when the clock is already running.
func (c *Controller) Start() bool {
	c.mu.Lock()
	if c.state.Running {
		c.mu.Unlock()
		return false
	}

	interval := c.settings.TickInterval()
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	c.gen++
	gen := c.gen
	c.state.Running = true
	c.task = c.scheduler.Every(interval, func() { c.scheduledTick(gen) })
	c.recorder.SetRunning(true)
	c.logger.Info("simulation started", logging.Duration("interval", interval), logging.Tick(c.state.TickCounter))
	ev := c.eventLocked(EventStart, nil)
	c.mu.Unlock()

	c.publish(ev)
	return true
}

// Stop cancels future ticks. Calling it when stopped changes nothing.
func (c *Controller) Stop() {
	c.mu.Lock()
	wasRunning := c.stopLocked()
	var ev Event
	if wasRunning {
		c.logger.Info("simulation stopped", logging.Tick(c.state.TickCounter))
		ev = c.eventLocked(EventStop, nil)
	}
	c.mu.Unlock()

	if wasRunning {
		c.publish(ev)
	}
}

func (c *Controller) stopLocked() bool {
	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
	wasRunning := c.state.Running
	c.state.Running = false
	if wasRunning {
		c.recorder.SetRunning(false)
	}
	return wasRunning
}

// Reset stops the clock, rebuilds the graph at the panel's node count,
// applies the auto-seed policy and records one fresh sample.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.resetLocked()
	ev := c.eventLocked(EventReset, nil)
	c.mu.Unlock()

	c.publish(ev)
}

func (c *Controller) resetLocked() {
	c.stopLocked()
	c.state.TickCounter = 0
	c.state.RunID = uuid.NewString()
	c.window.Reset()
	c.rebuildLocked(c.settings.NodeCount())

	seed := 0
	if c.settings.AutoSeed() {
		seed = 1
	}
	seed = max(seed, c.initialSeed)
	c.initialSeed = 0

	var seeded []int
	if seed > 0 {
		seeded = InfectRandom(c.graph, seed, c.rng)
		c.recorder.RecordSeed(seeded)
	}

	sample := SampleGraph(c.graph)
	c.window.Append(sample)
	c.recorder.RecordReset(c.graph.Len(), len(c.graph.Edges), sample)

	c.logger.Info("simulation reset",
		logging.RunID(c.state.RunID),
		logging.Count(c.graph.Len()),
		logging.Int("edges", len(c.graph.Edges)),
		logging.NodeIDs(seeded),
	)
}

func (c *Controller) rebuildLocked(nodeCount int) {
	c.graph = BuildRandomGraph(nodeCount, c.rng)
	c.positions = c.layout.Place(c.graph.Len(), c.graph.Links(), c.rng)
}

// BuildRandomGraph replaces the graph with a fresh random one of nodeCount
// nodes. Tick counter and window are left alone; use Reset for a full restart.
func (c *Controller) BuildRandomGraph(nodeCount int) {
	c.mu.Lock()
	c.rebuildLocked(nodeCount)
	c.logger.Info("graph rebuilt", logging.Count(c.graph.Len()), logging.Int("edges", len(c.graph.Edges)))
	ev := c.eventLocked(EventRebuild, nil)
	c.mu.Unlock()

	c.publish(ev)
}

// Step applies one tick immediately, whether or not the clock is running.
func (c *Controller) Step() TickResult {
	c.mu.Lock()
	result := c.tickLocked()
	ev := c.eventLocked(EventTick, result.touched())
	c.mu.Unlock()

	c.publish(ev)
	return result
}

// scheduledTick runs a tick on behalf of the task started as generation
// gen. Ticks from a task that has since been stopped are dropped.
func (c *Controller) scheduledTick(gen uint64) {
	c.mu.Lock()
	if !c.state.Running || c.gen != gen {
		c.mu.Unlock()
		return
	}
	result := c.tickLocked()
	ev := c.eventLocked(EventTick, result.touched())
	c.mu.Unlock()

	c.publish(ev)
}

func (c *Controller) tickLocked() TickResult {
	start := time.Now()
	result := ApplyTick(c.graph, c.settings.Rates(), c.rng)
	c.state.TickCounter++

	sample := SampleGraph(c.graph)
	c.window.Append(sample)
	c.recorder.RecordTick(result, sample, time.Since(start))

	c.logger.Debug("tick applied",
		logging.Tick(c.state.TickCounter),
		logging.Int("spread", len(result.Spread)),
		logging.Int("escalated", len(result.Escalated)),
		logging.Int("patched", len(result.Patched)),
	)
	return result
}

// Interact applies the current mode's click rule to node id.
func (c *Controller) Interact(id int) InteractionResult {
	c.mu.Lock()
	mode := c.state.Mode
	result := Interact(c.graph, id, mode, c.settings.Rates(), c.rng)
	c.recorder.RecordInteraction(mode, result)
	c.logger.Debug("node clicked",
		logging.NodeID(id),
		logging.Mode(mode.String()),
		logging.String("branch", result.Branch.String()),
		logging.Bool("changed", result.Changed),
	)
	ev := c.eventLocked(EventInteraction, []int{id})
	c.mu.Unlock()

	c.publish(ev)
	return result
}

// InfectRandom infects up to k random healthy, unpatched nodes and returns their IDs.
func (c *Controller) InfectRandom(k int) []int {
	c.mu.Lock()
	ids := InfectRandom(c.graph, k, c.rng)
	c.recorder.RecordSeed(ids)
	c.logger.Debug("nodes seeded", logging.NodeIDs(ids), logging.Int("requested", k))
	ev := c.eventLocked(EventSeed, ids)
	c.mu.Unlock()

	c.publish(ev)
	return ids
}

// SpawnTrojan plants a trojan on a random healthy node without one.
func (c *Controller) SpawnTrojan() (int, bool) {
	c.mu.Lock()
	id, ok := SpawnTrojan(c.graph, c.rng)
	var ev Event
	if ok {
		c.recorder.RecordTrojanSpawn()
		c.logger.Debug("trojan spawned", logging.NodeID(id))
		ev = c.eventLocked(EventTrojanSpawn, []int{id})
	}
	c.mu.Unlock()

	if ok {
		c.publish(ev)
	}
	return id, ok
}

// SetMode changes the interaction mode used by later clicks.
func (c *Controller) SetMode(m Mode) {
	c.mu.Lock()
	changed := c.state.Mode != m
	c.state.Mode = m
	var ev Event
	if changed {
		c.logger.Info("mode changed", logging.Mode(m.String()))
		ev = c.eventLocked(EventModeChange, nil)
	}
	c.mu.Unlock()

	if changed {
		c.publish(ev)
	}
}

// Sample counts the current graph without touching the window.
func (c *Controller) Sample() Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SampleGraph(c.graph)
}

// Window returns a copy of the recent samples, oldest first.
func (c *Controller) Window() []Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.window.Samples()
}

// State returns the lifecycle state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Node returns a copy of node id.
func (c *Controller) Node(id int) (Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.Node(id)
}

// Snapshot returns a deep copy of the graph, layout, state and window.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.graph.Clone()
	return Snapshot{
		Nodes:     g.Nodes,
		Edges:     g.Edges,
		Positions: append([]visualization.Position(nil), c.positions...),
		State:     c.state,
		Window:    c.window.Samples(),
		Rates:     c.settings.Rates(),
	}
}

func (c *Controller) eventLocked(t EventType, ids []int) Event {
	latest, _ := c.window.Latest()
	if t != EventTick && t != EventReset {
		latest = SampleGraph(c.graph)
	}
	return Event{Type: t, State: c.state, Sample: latest, NodeIDs: ids}
}

func (c *Controller) publish(ev Event) {
	c.events.Publish(TopicUpdates, ev)
}

// touched returns every node ID changed by the tick, ascending and unique.
func (r TickResult) touched() []int {
	n := len(r.Spread) + len(r.Escalated) + len(r.Patched)
	seen := make(map[int]struct{}, n)
	ids := make([]int, 0, n)
	for _, list := range [][]int{r.Spread, r.Escalated, r.Patched} {
		for _, id := range list {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	sort.Ints(ids)
	return ids
}
