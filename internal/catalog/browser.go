package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	log "github.com/sirupsen/logrus"
)

// ErrStaleResult is returned by Refresh when a newer refresh started while
// this one was loading. The stale result is dropped.
var ErrStaleResult = errors.New("stale catalog result discarded")

// Loader fetches the full catalog.
type Loader func(ctx context.Context) ([]domain.Exercise, error)

// View is a snapshot of what a Browser currently shows.
type View struct {
	Criteria Criteria `json:"criteria"`
	Page     Page     `json:"page"`
}

type BrowserOption func(*Browser)

func WithPageSize(size int) BrowserOption {
	return func(b *Browser) {
		if size > 0 {
			b.pageSize = size
		}
	}
}

func WithDebounce(delay time.Duration) BrowserOption {
	return func(b *Browser) {
		b.debouncer = NewDebouncer(delay)
	}
}

// OnChange registers a callback invoked with the new view after every
// applied change, including debounced text changes.
func OnChange(fn func(View)) BrowserOption {
	return func(b *Browser) {
		b.onChange = fn
	}
}

// Browser holds a loaded catalog, the active criteria and the current page.
// Changing any criterion resets the page to 1. Text changes are debounced.
type Browser struct {
	mu        sync.Mutex
	load      Loader
	all       []domain.Exercise
	filtered  []domain.Exercise
	criteria  Criteria
	page      int
	pageSize  int
	token     uint64
	debouncer *Debouncer
	onChange  func(View)
}

func NewBrowser(load Loader, opts ...BrowserOption) *Browser {
	b := &Browser{
		load:     load,
		page:     1,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.debouncer == nil {
		b.debouncer = NewDebouncer(DefaultDebounce)
	}
	return b
}

// Refresh reloads the catalog. Each call takes a new request token; a load
// that completes after a newer one started returns ErrStaleResult and leaves
// the browser untouched.
func (b *Browser) Refresh(ctx context.Context) error {
	b.mu.Lock()
	b.token++
	token := b.token
	b.mu.Unlock()

	exercises, err := b.load(ctx)

	b.mu.Lock()
	if token != b.token {
		b.mu.Unlock()
		log.Debugf("catalog: dropping refresh %d, %d is current", token, b.token)
		return ErrStaleResult
	}
	if err != nil {
		b.mu.Unlock()
		return err
	}
	b.all = exercises
	b.apply(false)
	view := b.view()
	b.mu.Unlock()

	b.notify(view)
	return nil
}

func (b *Browser) SetCategory(c domain.Category) {
	b.update(func(cr *Criteria) { cr.Category = c })
}

func (b *Browser) SetEquipment(tags []string) {
	b.update(func(cr *Criteria) { cr.Equipment = tags })
}

func (b *Browser) SetMuscleGroups(tags []string) {
	b.update(func(cr *Criteria) { cr.MuscleGroups = tags })
}

// SetText applies the search text after the debounce quiet period. Only the
// last text of a burst is applied.
func (b *Browser) SetText(text string) {
	b.debouncer.Trigger(func() {
		b.update(func(cr *Criteria) { cr.Text = text })
	})
}

// SetPage moves to page n, clamped to the valid range.
func (b *Browser) SetPage(n int) {
	b.mu.Lock()
	b.page = ClampPage(n, len(b.filtered), b.pageSize)
	view := b.view()
	b.mu.Unlock()

	b.notify(view)
}

func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view()
}

// Close cancels any pending debounced change.
func (b *Browser) Close() {
	b.debouncer.Stop()
}

func (b *Browser) update(change func(*Criteria)) {
	b.mu.Lock()
	change(&b.criteria)
	b.apply(true)
	view := b.view()
	b.mu.Unlock()

	b.notify(view)
}

// apply re-filters the catalog. Must hold b.mu.
func (b *Browser) apply(resetPage bool) {
	b.filtered = Filter(b.all, b.criteria)
	if resetPage {
		b.page = 1
	}
	b.page = ClampPage(b.page, len(b.filtered), b.pageSize)
}

// view must be called with b.mu held.
func (b *Browser) view() View {
	return View{
		Criteria: b.criteria,
		Page:     Paginate(b.filtered, b.page, b.pageSize),
	}
}

func (b *Browser) notify(v View) {
	if b.onChange != nil {
		b.onChange(v)
	}
}
