package places

import (
	"context"
	"errors"
	"sync"

	"localscope/app"
)

// State is the controller's position in the search workflow.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateLoading
	StateDisplaying
	StateErrorShown
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateLoading:
		return "loading"
	case StateDisplaying:
		return "displaying"
	case StateErrorShown:
		return "error"
	default:
		return "idle"
	}
}

type eventKind int

const (
	eventSubmit eventKind = iota
	eventLocate
)

type event struct {
	kind    eventKind
	form    *Form
	locator Locator
	done    chan struct{}
}

// ErrStopped is returned for events sent after the controller loop ended.
var ErrStopped = errors.New("controller stopped")

// View is a snapshot of everything the page shows.
type View struct {
	State      string        `json:"state"`
	Busy       bool          `json:"busy"`
	Form       Form          `json:"form"`
	Items      []string      `json:"items"`
	Result     *SearchResult `json:"result,omitempty"`
	MapVisible bool          `json:"mapVisible"`
	Banners    []Banner      `json:"banners"`
}

// Controller runs the search workflow for one page. Events are queued and
// handled one at a time by Run, so overlapping searches display in the
// order they were submitted.
type Controller struct {
	searcher Searcher
	renderer *Renderer
	banners  *Banners
	metrics  *Metrics

	events  chan event
	stopped chan struct{}
	stop    sync.Once

	mu    sync.Mutex
	state State
	busy  bool
	form  Form

	// onState observes every transition; used by tests.
	onState func(State)
}

// NewController wires the workflow. metrics may be nil.
func NewController(s Searcher, r *Renderer, b *Banners, m *Metrics) *Controller {
	return &Controller{
		searcher: s,
		renderer: r,
		banners:  b,
		metrics:  m,
		events:   make(chan event, 16),
		stopped:  make(chan struct{}),
	}
}

// Run handles queued events until ctx is done. Waiters on events still
// queued at that point are released with ErrStopped.
func (c *Controller) Run(ctx context.Context) error {
	defer c.stop.Do(func() { close(c.stopped) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-c.events:
			if err := ctx.Err(); err != nil {
				return err
			}
			switch ev.kind {
			case eventSubmit:
				c.handleSubmit(ctx, *ev.form)
			case eventLocate:
				c.handleLocate(ctx, ev.locator, ev.form)
			}
			close(ev.done)
		}
	}
}

// Submit queues a form submission and waits until it has been handled.
func (c *Controller) Submit(ctx context.Context, f Form) error {
	return c.dispatch(ctx, event{kind: eventSubmit, form: &f})
}

// Locate queues a "use current location" request and waits for it. It only
// fills the coordinate fields; it never starts a search. When current is
// set it holds the field values on the page at the time of the request and
// replaces the stored form before the coordinates are filled in.
func (c *Controller) Locate(ctx context.Context, l Locator, current *Form) error {
	return c.dispatch(ctx, event{kind: eventLocate, locator: l, form: current})
}

func (c *Controller) dispatch(ctx context.Context, ev event) error {
	ev.done = make(chan struct{})
	select {
	case c.events <- ev:
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ev.done:
		return nil
	case <-c.stopped:
		select {
		case <-ev.done:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	hook := c.onState
	c.mu.Unlock()
	if hook != nil {
		hook(s)
	}
}

func (c *Controller) setBusy(busy bool) {
	c.mu.Lock()
	c.busy = busy
	c.mu.Unlock()
}

func (c *Controller) fail(message, outcome string) {
	c.banners.ShowError(message)
	c.setState(StateErrorShown)
	c.metrics.search(outcome)
	c.setState(StateIdle)
}

func (c *Controller) handleSubmit(ctx context.Context, f Form) {
	c.mu.Lock()
	c.form = f
	c.mu.Unlock()

	c.setState(StateValidating)
	q, err := ParseQuery(f)
	if err != nil {
		c.fail(err.Error(), "invalid")
		return
	}

	c.setState(StateLoading)
	c.setBusy(true)
	c.renderer.Clear()

	res, err := c.searcher.Search(ctx, q)
	c.setBusy(false)
	if err != nil {
		app.Log("places", "Search failed: %v", err)
		c.fail(searchErrorPrefix+err.Error(), searchOutcome(err))
		return
	}

	c.setState(StateDisplaying)
	c.renderer.Render(q.Latitude, q.Longitude, q.Radius, res)
	c.banners.ShowRateLimit(res.RateLimitInfo)
	if len(res.Places) == 0 {
		c.metrics.search("empty")
	} else {
		c.metrics.search("ok")
	}
	c.setState(StateIdle)
}

func (c *Controller) handleLocate(ctx context.Context, l Locator, current *Form) {
	if current != nil {
		c.mu.Lock()
		c.form = *current
		c.mu.Unlock()
	}

	c.setBusy(true)
	pos, err := Locate(ctx, l)
	c.setBusy(false)
	if err != nil {
		app.Log("places", "Geolocation failed: %v", err)
		c.banners.ShowError(err.Error())
		c.setState(StateErrorShown)
		c.setState(StateIdle)
		return
	}

	c.mu.Lock()
	c.form.Latitude = formatCoord(pos.Latitude)
	c.form.Longitude = formatCoord(pos.Longitude)
	c.mu.Unlock()
}

func searchOutcome(err error) string {
	var rlErr *RateLimitError
	var httpErr *HTTPError
	switch {
	case errors.As(err, &rlErr):
		return "rate_limited"
	case errors.As(err, &httpErr):
		return "http_error"
	default:
		return "failed"
	}
}

// State returns the current workflow state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View snapshots the page.
func (c *Controller) View() View {
	c.mu.Lock()
	v := View{
		State: c.state.String(),
		Busy:  c.busy,
		Form:  c.form,
	}
	c.mu.Unlock()

	v.Items = c.renderer.Items()
	v.Result = c.renderer.Result()
	v.MapVisible = c.renderer.m.Visible()
	v.Banners = c.banners.Active()
	return v
}
