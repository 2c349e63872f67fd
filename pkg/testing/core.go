package testing

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-drift/viewbridge/pkg/animation"
	"github.com/go-drift/viewbridge/pkg/foreign"
)

// FakeCore is an in-memory foreign reactive core. It mints handles for
// tests and keeps a ledger of how each one was retired, so tests can
// assert the exactly-once ownership contract: every minted handle must be
// retired exactly once, whether by extraction, release, fire, or drop.
type FakeCore struct {
	mu      sync.Mutex
	next    uint64
	nextSub uint64
	version string
	async   bool

	views    map[foreign.RawView]*fakeView
	cells    map[foreign.RawCell]*fakeCell
	closures map[foreign.RawClosure]*fakeClosure
	envs     map[foreign.RawEnv]struct{}
	watches  map[foreign.WatchID]*fakeCell

	ledger      map[uint64]*record
	invocations map[foreign.RawClosure]int
	failExtract map[foreign.TypeID]bool

	pending sync.WaitGroup
}

type record struct {
	kind    string
	retired int
}

type fakeView struct {
	typeID foreign.TypeID
	node   foreign.RawNode
}

type fakeCell struct {
	mu       sync.Mutex
	value    any
	writable bool
	watchers []watcherEntry
	queue    chan func()
}

type watcherEntry struct {
	id foreign.WatchID
	fn foreign.WatchFunc
}

type fakeClosure struct {
	fn      func(args ...any)
	invoked int
}

// ViewSpec describes a view node to mint.
type ViewSpec struct {
	Type     foreign.TypeID
	Props    map[string]any
	Children []foreign.RawView
	Cells    map[string]foreign.RawCell
	Actions  map[string]foreign.RawClosure
	Hooks    []foreign.RawHook
}

// NewFakeCore creates a core reporting a compatible ABI version.
func NewFakeCore() *FakeCore {
	return &FakeCore{
		version:     "v1.3.0",
		views:       make(map[foreign.RawView]*fakeView),
		cells:       make(map[foreign.RawCell]*fakeCell),
		closures:    make(map[foreign.RawClosure]*fakeClosure),
		envs:        make(map[foreign.RawEnv]struct{}),
		watches:     make(map[foreign.WatchID]*fakeCell),
		ledger:      make(map[uint64]*record),
		invocations: make(map[foreign.RawClosure]int),
		failExtract: make(map[foreign.TypeID]bool),
	}
}

// SetVersion overrides the reported ABI version.
func (f *FakeCore) SetVersion(v string) {
	f.mu.Lock()
	f.version = v
	f.mu.Unlock()
}

// SetAsync switches notification delivery onto one goroutine per cell,
// preserving per-cell write order while exercising the arbitrary-origin
// push path. Call Drain before asserting on delivered values.
func (f *FakeCore) SetAsync(async bool) {
	f.mu.Lock()
	f.async = async
	f.mu.Unlock()
}

// FailExtract makes extraction of the given variant fail (after retiring
// the handle, as the real core does).
func (f *FakeCore) FailExtract(id foreign.TypeID) {
	f.mu.Lock()
	f.failExtract[id] = true
	f.mu.Unlock()
}

func (f *FakeCore) mint(kind string) uint64 {
	f.next++
	h := f.next
	f.ledger[h] = &record{kind: kind}
	return h
}

// MintCell mints a reactive cell holding initial.
func (f *FakeCore) MintCell(initial any, writable bool) foreign.RawCell {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := foreign.RawCell(f.mint("cell"))
	f.cells[h] = &fakeCell{value: initial, writable: writable}
	return h
}

// MintClosure mints a closure handle for actions and hooks.
func (f *FakeCore) MintClosure(fn func(args ...any)) foreign.RawClosure {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := foreign.RawClosure(f.mint("closure"))
	f.closures[h] = &fakeClosure{fn: fn}
	return h
}

// MintEnv mints an environment scope.
func (f *FakeCore) MintEnv() foreign.RawEnv {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := foreign.RawEnv(f.mint("env"))
	f.envs[h] = struct{}{}
	return h
}

// MintView mints a view node.
func (f *FakeCore) MintView(spec ViewSpec) foreign.RawView {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := foreign.RawView(f.mint("view"))
	node := foreign.RawNode{
		Props:   spec.Props,
		Cells:   make(map[string]foreign.RawCellInfo, len(spec.Cells)),
		Actions: spec.Actions,
		Hooks:   spec.Hooks,
	}
	node.Children = spec.Children
	for name, cell := range spec.Cells {
		writable := false
		if fc, ok := f.cells[cell]; ok {
			writable = fc.writable
		}
		node.Cells[name] = foreign.RawCellInfo{Handle: cell, Writable: writable}
	}
	f.views[h] = &fakeView{typeID: spec.Type, node: node}
	return h
}

// Push performs a foreign-side write: it updates the cell and notifies
// watchers in write order, attaching the given animation metadata.
func (f *FakeCore) Push(c foreign.RawCell, value any, meta animation.Metadata) {
	f.mu.Lock()
	cell, ok := f.cells[c]
	async := f.async
	f.mu.Unlock()
	if !ok {
		return
	}
	f.notify(cell, value, meta, async)
}

func (f *FakeCore) notify(cell *fakeCell, value any, meta animation.Metadata, async bool) {
	cell.mu.Lock()
	cell.value = value
	watchers := make([]watcherEntry, len(cell.watchers))
	copy(watchers, cell.watchers)

	if !async {
		// Deliver under the cell lock so concurrent writers observe a
		// total per-cell order matching write order.
		defer cell.mu.Unlock()
		for _, w := range watchers {
			w.fn(value, meta)
		}
		return
	}

	if cell.queue == nil {
		cell.queue = make(chan func(), 256)
		go func(queue chan func()) {
			for fn := range queue {
				fn()
			}
		}(cell.queue)
	}
	queue := cell.queue
	cell.mu.Unlock()

	f.pending.Add(1)
	queue <- func() {
		defer f.pending.Done()
		for _, w := range watchers {
			w.fn(value, meta)
		}
	}
}

// Drain blocks until all queued async notifications are delivered.
func (f *FakeCore) Drain() {
	f.pending.Wait()
}

// retire marks a handle retired and returns its record.
func (f *FakeCore) retire(h uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.ledger[h]; ok {
		rec.retired++
	}
}

// Retirements returns how many times a handle was retired. Exactly one
// retirement is the contract; zero is a leak, more is a double release.
func (f *FakeCore) Retirements(h uint64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.ledger[h]; ok {
		return rec.retired
	}
	return 0
}

// Leaks lists every minted handle whose retirement count is not exactly
// one. Call it after teardown.
func (f *FakeCore) Leaks() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var leaks []string
	for h, rec := range f.ledger {
		if rec.retired != 1 {
			leaks = append(leaks, fmt.Sprintf("%s handle %d retired %d times", rec.kind, h, rec.retired))
		}
	}
	sort.Strings(leaks)
	return leaks
}

// InvokeCount returns how many times a closure has been invoked,
// including one-shot hooks that have since been consumed.
func (f *FakeCore) InvokeCount(c foreign.RawClosure) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invocations[c]
}

// CellValue returns a cell's current value.
func (f *FakeCore) CellValue(c foreign.RawCell) any {
	f.mu.Lock()
	cell, ok := f.cells[c]
	f.mu.Unlock()
	if !ok {
		return nil
	}
	cell.mu.Lock()
	defer cell.mu.Unlock()
	return cell.value
}

// Version implements foreign.Core.
func (f *FakeCore) Version() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version
}

// TypeOf implements foreign.Core.
func (f *FakeCore) TypeOf(v foreign.RawView) (foreign.TypeID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	view, ok := f.views[v]
	if !ok {
		return "", fmt.Errorf("fakecore: unknown view handle %d", v)
	}
	return view.typeID, nil
}

// Extract implements foreign.Core. The view handle is retired whether or
// not extraction succeeds.
func (f *FakeCore) Extract(v foreign.RawView) (*foreign.RawNode, error) {
	f.mu.Lock()
	view, ok := f.views[v]
	if !ok {
		f.mu.Unlock()
		return nil, fmt.Errorf("fakecore: extract of unknown view handle %d", v)
	}
	delete(f.views, v)
	if rec, okRec := f.ledger[uint64(v)]; okRec {
		rec.retired++
	}
	fail := f.failExtract[view.typeID]
	f.mu.Unlock()

	if fail {
		// Sub-handles stay minted and unretired; a failed extraction
		// releases them inside the real core, so retire them here too.
		f.retireNode(&view.node)
		return nil, fmt.Errorf("fakecore: extraction of %q failed", view.typeID)
	}
	node := view.node
	return &node, nil
}

func (f *FakeCore) retireNode(node *foreign.RawNode) {
	for _, child := range node.Children {
		f.ReleaseView(child)
	}
	for _, info := range node.Cells {
		f.ReleaseCell(info.Handle)
	}
	for _, closure := range node.Actions {
		f.DropClosure(closure)
	}
	for _, hook := range node.Hooks {
		f.DropClosure(hook.Closure)
	}
}

// ReleaseView implements foreign.Core.
func (f *FakeCore) ReleaseView(v foreign.RawView) {
	f.mu.Lock()
	delete(f.views, v)
	f.mu.Unlock()
	f.retire(uint64(v))
}

// ReadCell implements foreign.Core.
func (f *FakeCore) ReadCell(c foreign.RawCell) (any, error) {
	f.mu.Lock()
	cell, ok := f.cells[c]
	f.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("fakecore: unknown cell handle %d", c)
	}
	cell.mu.Lock()
	defer cell.mu.Unlock()
	return cell.value, nil
}

// WriteCell implements foreign.Core. Writes notify watchers with
// metadata-none, in write order.
func (f *FakeCore) WriteCell(c foreign.RawCell, value any) error {
	f.mu.Lock()
	cell, ok := f.cells[c]
	async := f.async
	f.mu.Unlock()
	if !ok {
		return fmt.Errorf("fakecore: unknown cell handle %d", c)
	}
	if !cell.writable {
		return fmt.Errorf("fakecore: cell handle %d is read-only", c)
	}
	f.notify(cell, value, animation.Immediate(), async)
	return nil
}

// Watch implements foreign.Core.
func (f *FakeCore) Watch(c foreign.RawCell, fn foreign.WatchFunc) (foreign.WatchID, error) {
	f.mu.Lock()
	cell, ok := f.cells[c]
	if !ok {
		f.mu.Unlock()
		return 0, fmt.Errorf("fakecore: watch of unknown cell handle %d", c)
	}
	f.nextSub++
	id := foreign.WatchID(f.nextSub)
	f.watches[id] = cell
	f.mu.Unlock()

	cell.mu.Lock()
	cell.watchers = append(cell.watchers, watcherEntry{id: id, fn: fn})
	cell.mu.Unlock()
	return id, nil
}

// Unwatch implements foreign.Core.
func (f *FakeCore) Unwatch(id foreign.WatchID) {
	f.mu.Lock()
	cell, ok := f.watches[id]
	delete(f.watches, id)
	f.mu.Unlock()
	if !ok {
		return
	}
	cell.mu.Lock()
	for i, w := range cell.watchers {
		if w.id == id {
			cell.watchers = append(cell.watchers[:i], cell.watchers[i+1:]...)
			break
		}
	}
	cell.mu.Unlock()
}

// ReleaseCell implements foreign.Core.
func (f *FakeCore) ReleaseCell(c foreign.RawCell) {
	f.mu.Lock()
	delete(f.cells, c)
	f.mu.Unlock()
	f.retire(uint64(c))
}

// CloneEnv implements foreign.Core.
func (f *FakeCore) CloneEnv(e foreign.RawEnv) (foreign.RawEnv, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.envs[e]; !ok {
		return 0, fmt.Errorf("fakecore: clone of unknown env handle %d", e)
	}
	h := foreign.RawEnv(f.mint("env"))
	f.envs[h] = struct{}{}
	return h, nil
}

// ReleaseEnv implements foreign.Core.
func (f *FakeCore) ReleaseEnv(e foreign.RawEnv) {
	f.mu.Lock()
	delete(f.envs, e)
	f.mu.Unlock()
	f.retire(uint64(e))
}

// InvokeAction implements foreign.Core.
func (f *FakeCore) InvokeAction(c foreign.RawClosure, args ...any) error {
	f.mu.Lock()
	closure, ok := f.closures[c]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("fakecore: invoke of unknown closure handle %d", c)
	}
	closure.invoked++
	f.invocations[c]++
	fn := closure.fn
	f.mu.Unlock()
	if fn != nil {
		fn(args...)
	}
	return nil
}

// FireHook implements foreign.Core. Firing consumes the closure.
func (f *FakeCore) FireHook(c foreign.RawClosure) error {
	f.mu.Lock()
	closure, ok := f.closures[c]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("fakecore: fire of unknown closure handle %d", c)
	}
	closure.invoked++
	f.invocations[c]++
	fn := closure.fn
	delete(f.closures, c)
	if rec, okRec := f.ledger[uint64(c)]; okRec {
		rec.retired++
	}
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
	return nil
}

// DropClosure implements foreign.Core.
func (f *FakeCore) DropClosure(c foreign.RawClosure) {
	f.mu.Lock()
	delete(f.closures, c)
	f.mu.Unlock()
	f.retire(uint64(c))
}
