package animation

import (
	"sync"
	"sync/atomic"
	"time"
)

var (
	tickerMu      sync.Mutex
	activeTickers = make(map[*Ticker]struct{})
)

// Ticker calls a callback on each frame while active.
//
// Ticker is the low-level timing primitive used by [Interpolator]. Most
// code should use Interpolator or Animator directly. The callback receives
// the elapsed time since Start was called. Tickers are driven by the host
// platform's frame loop via [StepTickers]; Start and Stop may be called
// from any goroutine.
type Ticker struct {
	callback func(elapsed time.Duration)
	isActive atomic.Bool
	mu       sync.Mutex
	start    time.Time
}

// NewTicker creates a new ticker with the given callback.
func NewTicker(callback func(elapsed time.Duration)) *Ticker {
	return &Ticker{
		callback: callback,
	}
}

// Start activates the ticker.
func (t *Ticker) Start() {
	if !t.isActive.CompareAndSwap(false, true) {
		return
	}
	t.mu.Lock()
	t.start = Now()
	t.mu.Unlock()
	tickerMu.Lock()
	activeTickers[t] = struct{}{}
	tickerMu.Unlock()
}

// Stop deactivates the ticker.
func (t *Ticker) Stop() {
	if !t.isActive.CompareAndSwap(true, false) {
		return
	}
	tickerMu.Lock()
	delete(activeTickers, t)
	tickerMu.Unlock()
}

// IsActive returns whether the ticker is currently running.
func (t *Ticker) IsActive() bool {
	return t.isActive.Load()
}

// Elapsed returns the time since the ticker started.
func (t *Ticker) Elapsed() time.Duration {
	if !t.isActive.Load() {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return Now().Sub(t.start)
}

// StepTickers advances all active tickers. The host platform calls this
// once per frame from its UI-affinity context.
func StepTickers() {
	tickerMu.Lock()
	if len(activeTickers) == 0 {
		tickerMu.Unlock()
		return
	}
	// Copy so callbacks can start and stop tickers.
	tickers := make([]*Ticker, 0, len(activeTickers))
	for ticker := range activeTickers {
		tickers = append(tickers, ticker)
	}
	tickerMu.Unlock()

	for _, ticker := range tickers {
		if ticker.callback == nil || !ticker.isActive.Load() {
			continue
		}
		ticker.mu.Lock()
		elapsed := Now().Sub(ticker.start)
		ticker.mu.Unlock()
		ticker.callback(elapsed)
	}
}

// HasActiveTickers returns true if any tickers are active.
func HasActiveTickers() bool {
	tickerMu.Lock()
	defer tickerMu.Unlock()
	return len(activeTickers) > 0
}
