// Package search implements the location field of the room search bar:
// debounced place autocomplete, the "near me" shortcut and suggestion
// selection, all writing into the search query.
package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"room-service/internal/geo"
	"room-service/internal/searchroom"
)

const DefaultDebounce = 500 * time.Millisecond

// NearbyLabel is shown as the location when the device position resolves
// to no usable address.
const NearbyLabel = "근처 추천 장소"

var (
	ErrClosed = errors.New("search: bar closed")
	// ErrNotOffered is returned by SelectCurrentLocation while the field
	// holds text.
	ErrNotOffered = errors.New("search: current location is only offered for an empty query")
	// ErrNoPlaceService is returned when the bar was built without the
	// searcher or resolver an operation needs.
	ErrNoPlaceService = errors.New("search: no place service configured")
)

type Phase int

const (
	Idle Phase = iota
	Typing
	ResultsShown
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Typing:
		return "typing"
	case ResultsShown:
		return "results"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Snapshot is what a view needs to draw the field.
type Snapshot struct {
	Phase     Phase
	Query     string
	Results   []geo.Prediction
	PopupOpen bool
	Searching bool
}

// OffersCurrentLocation reports whether the "near me" entry is listed.
func (s Snapshot) OffersCurrentLocation() bool {
	return s.PopupOpen && s.Query == ""
}

type Options struct {
	Debounce time.Duration
	Searcher geo.PlaceSearcher
	Resolver geo.PlaceResolver
	Locator  geo.Locator
	Geocoder geo.ReverseGeocoder
	// OnChange is called after every visible change, outside the bar's lock.
	OnChange func(Snapshot)
}

type Bar struct {
	query *searchroom.Store
	opts  Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	timer     *time.Timer
	timerGen  uint64
	seq       uint64
	inflight  context.CancelFunc
	results   []geo.Prediction
	phase     Phase
	popup     bool
	searching bool
	closed    bool
}

func NewBar(query *searchroom.Store, opts Options) *Bar {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bar{
		query:   query,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		results: []geo.Prediction{},
	}
}

func (b *Bar) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Bar) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:     b.phase,
		Query:     b.query.State().Location,
		Results:   slices.Clone(b.results),
		PopupOpen: b.popup,
		Searching: b.searching,
	}
}

func (b *Bar) notify() {
	if b.opts.OnChange != nil {
		b.opts.OnChange(b.Snapshot())
	}
}

// Input records q as the location text and restarts the debounce timer.
func (b *Bar) Input(q string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	b.query.Dispatch(searchroom.SetLocation(q))

	b.mu.Lock()
	b.phase = Typing
	b.popup = true
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timerGen++
	gen := b.timerGen
	b.timer = time.AfterFunc(b.opts.Debounce, func() { b.fire(gen) })
	b.mu.Unlock()

	b.notify()
}

// Flush runs a pending debounced search right away.
func (b *Bar) Flush() {
	b.mu.Lock()
	if b.timer == nil || !b.timer.Stop() {
		b.mu.Unlock()
		return
	}
	gen := b.timerGen
	b.mu.Unlock()

	b.fire(gen)
}

func (b *Bar) fire(gen uint64) {
	b.mu.Lock()
	if b.closed || gen != b.timerGen {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	// Only "" counts as empty; whitespace is sent like any other text.
	q := b.query.State().Location

	// Whatever is in flight answers an older query now.
	b.seq++
	seq := b.seq
	if b.inflight != nil {
		b.inflight()
		b.inflight = nil
	}

	if q == "" {
		b.results = []geo.Prediction{}
		b.phase = Idle
		b.searching = false
		b.mu.Unlock()
		b.notify()
		return
	}

	ctx, cancel := context.WithCancel(b.ctx)
	b.inflight = cancel
	b.searching = true
	b.wg.Add(1)
	b.mu.Unlock()

	go b.search(ctx, seq, q)
}

func (b *Bar) search(ctx context.Context, seq uint64, q string) {
	defer b.wg.Done()

	var (
		results []geo.Prediction
		err     error
	)
	if b.opts.Searcher == nil {
		err = ErrNoPlaceService
	} else {
		results, err = b.opts.Searcher.SearchPlaces(ctx, q)
	}

	b.mu.Lock()
	if b.closed || seq != b.seq {
		b.mu.Unlock()
		log.WithFields(log.Fields{"query": q, "seq": seq}).Debug("discarding stale place search")
		return
	}
	b.inflight = nil
	b.searching = false
	if err != nil {
		if len(b.results) > 0 {
			b.phase = ResultsShown
		} else {
			b.phase = Idle
		}
		b.mu.Unlock()
		log.WithError(err).WithField("query", q).Warn("place search failed")
		b.notify()
		return
	}
	b.results = lo.Ternary(results == nil, []geo.Prediction{}, results)
	b.phase = ResultsShown
	b.mu.Unlock()

	b.notify()
}

// Open shows the popup, e.g. when the field is clicked.
func (b *Bar) Open() {
	b.setPopup(true)
}

// Dismiss hides the popup after an interaction outside the field.
func (b *Bar) Dismiss() {
	b.setPopup(false)
}

func (b *Bar) setPopup(open bool) {
	b.mu.Lock()
	changed := b.popup != open
	b.popup = open
	b.mu.Unlock()
	if changed {
		b.notify()
	}
}

// SelectCurrentLocation points the search at the device position.
func (b *Bar) SelectCurrentLocation(ctx context.Context) error {
	if err := b.usable(); err != nil {
		return err
	}
	if b.query.State().Location != "" {
		return ErrNotOffered
	}
	b.Dismiss()

	if b.opts.Locator == nil {
		return fmt.Errorf("Bar.SelectCurrentLocation: %w", geo.ErrLocationUnavailable)
	}
	at, err := b.opts.Locator.Locate(ctx)
	if err != nil {
		log.WithError(err).Warn("current location unavailable")
		return fmt.Errorf("Bar.SelectCurrentLocation: %w", err)
	}

	label := NearbyLabel
	if b.opts.Geocoder != nil {
		info, err := b.opts.Geocoder.GetLocationInfo(ctx, at)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"latitude":  at.Latitude,
				"longitude": at.Longitude,
			}).Warn("reverse geocoding failed")
			return fmt.Errorf("Bar.SelectCurrentLocation: %w", err)
		}
		label = placeLabel(info)
	}

	b.query.Dispatch(searchroom.SetPlace(label, at.Latitude, at.Longitude))
	b.notify()
	return nil
}

func placeLabel(info geo.LocationInfo) string {
	parts := lo.Compact([]string{info.City, info.District})
	if len(parts) == 0 {
		return NearbyLabel
	}
	return strings.Join(parts, " ")
}

// Select resolves a listed suggestion and writes it into the query.
func (b *Bar) Select(ctx context.Context, placeID string) error {
	if err := b.usable(); err != nil {
		return err
	}
	if b.opts.Resolver == nil {
		return fmt.Errorf("Bar.Select: %w", ErrNoPlaceService)
	}
	place, err := b.opts.Resolver.GetPlace(ctx, placeID)
	if err != nil {
		log.WithError(err).WithField("placeId", placeID).Warn("place lookup failed")
		return fmt.Errorf("Bar.Select: %w", err)
	}

	b.query.Dispatch(searchroom.SetPlace(place.Location, place.Latitude, place.Longitude))
	b.mu.Lock()
	b.popup = false
	b.mu.Unlock()
	b.notify()
	return nil
}

func (b *Bar) usable() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	return nil
}

// Close stops the debounce timer, cancels any running search and waits for
// it to return.
func (b *Bar) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()
}
