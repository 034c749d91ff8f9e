// Package live wraps the validation engine in a debounced, cancellable
// recomputation loop for consumers that revalidate on every edit. The engine
// itself stays synchronous and pure; this package owns all the scheduling.
package live

import (
	"sync"
	"time"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

// Debounce delay bounds. Requests outside the range are clamped.
const (
	DefaultDelay = 300 * time.Millisecond
	MinDelay     = 50 * time.Millisecond
	MaxDelay     = 1000 * time.Millisecond
)

// Controller debounces revalidation. Every trigger (tree change, rule
// change) bumps a generation counter and schedules a run; when a deferred
// run fires it compares its captured generation against the current one and
// discards its result if superseded. Only the most recently scheduled run
// ever commits — last write wins, with no ordering guarantee for stale
// inputs. While a run is pending the last good result stays readable and is
// marked stale rather than cleared.
type Controller struct {
	mu         sync.Mutex
	delay      time.Duration
	steps      []pipeline.Step
	strict     bool
	disabled   map[validation.Code]bool
	schemas    *validation.SchemaRegistry
	result     *validation.Result
	stale      bool
	generation uint64
	timer      *time.Timer

	// onResult, when set, observes every committed result.
	onResult func(*validation.Result)

	// defer hook: when set, the debounced computation is handed to the
	// host's idle scheduler instead of running on the timer goroutine.
	// Purely a scheduling hint; the synchronous path is always available.
	idle func(run func())
}

// Option configures a Controller.
type Option func(*Controller)

// WithDelay sets the debounce delay, clamped to [MinDelay, MaxDelay].
func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = clampDelay(d) }
}

// WithSchemas enables the schema-driven parameter pass on every run.
func WithSchemas(reg *validation.SchemaRegistry) Option {
	return func(c *Controller) { c.schemas = reg }
}

// WithResultHandler registers a callback invoked for every committed result.
func WithResultHandler(fn func(*validation.Result)) Option {
	return func(c *Controller) { c.onResult = fn }
}

// WithIdleScheduler defers debounced computations to the given scheduler.
func WithIdleScheduler(idle func(run func())) Option {
	return func(c *Controller) { c.idle = idle }
}

// NewController returns a controller holding an empty valid result.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		delay:    DefaultDelay,
		disabled: make(map[validation.Code]bool),
		result:   validation.EmptyResult(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func clampDelay(d time.Duration) time.Duration {
	if d < MinDelay {
		return MinDelay
	}
	if d > MaxDelay {
		return MaxDelay
	}
	return d
}

// SetSteps replaces the input tree, marks the result stale, and schedules a
// debounced revalidation.
func (c *Controller) SetSteps(steps []pipeline.Step) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps = steps
	c.scheduleLocked()
}

// SetStrictMode toggles strict mode and schedules a revalidation.
func (c *Controller) SetStrictMode(strict bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.strict = strict
	c.scheduleLocked()
}

// DisableRule disables a rule code. Codes whose rule is not disableable are
// refused; the engine would honor them, but guaranteed rules must stay
// guaranteed. Returns false when refused.
func (c *Controller) DisableRule(code validation.Code) bool {
	if rule, ok := validation.RuleFor(code); ok && !rule.CanDisable {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled[code] = true
	c.scheduleLocked()
	return true
}

// EnableRule re-enables a previously disabled rule code.
func (c *Controller) EnableRule(code validation.Code) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.disabled, code)
	c.scheduleLocked()
}

// DisabledRules returns the currently disabled codes.
func (c *Controller) DisabledRules() []validation.Code {
	c.mu.Lock()
	defer c.mu.Unlock()
	codes := make([]validation.Code, 0, len(c.disabled))
	for code := range c.disabled {
		codes = append(codes, code)
	}
	return codes
}

// scheduleLocked bumps the generation and arms the debounce timer. The
// caller must hold c.mu.
func (c *Controller) scheduleLocked() {
	c.stale = true
	c.generation++
	gen := c.generation

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, func() {
		if c.idle != nil {
			c.idle(func() { c.run(gen) })
			return
		}
		c.run(gen)
	})
}

// run executes one generation's validation. The snapshot is taken under the
// lock, the computation happens outside it, and the commit re-checks the
// generation so superseded results are silently dropped.
func (c *Controller) run(gen uint64) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	steps := c.steps
	opts := c.optionsLocked()
	c.mu.Unlock()

	result := validation.Validate(steps, opts)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.result = result
	c.stale = false
	handler := c.onResult
	c.mu.Unlock()

	if handler != nil {
		handler(result)
	}
}

func (c *Controller) optionsLocked() validation.Options {
	opts := validation.Options{StrictMode: c.strict, Schemas: c.schemas}
	for code := range c.disabled {
		opts.DisabledRules = append(opts.DisabledRules, code)
	}
	return opts
}

// ValidateNow bypasses the debounce: it cancels any pending run, computes
// synchronously, and commits the result.
func (c *Controller) ValidateNow() *validation.Result {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	steps := c.steps
	opts := c.optionsLocked()
	c.mu.Unlock()

	result := validation.Validate(steps, opts)

	c.mu.Lock()
	if gen == c.generation {
		c.result = result
		c.stale = false
	}
	handler := c.onResult
	c.mu.Unlock()

	if handler != nil {
		handler(result)
	}
	return result
}

// Result returns the last committed result and whether it is stale. The
// result is never nil.
func (c *Controller) Result() (*validation.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.stale
}

// Stale reports whether the inputs have changed since the last commit.
func (c *Controller) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}

// Close cancels any pending revalidation.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++ // orphan any in-flight run
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
