// Package search implements search-as-you-type over remote or local collections.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// MinChars is the shortest trimmed input that triggers a query.
const MinChars = 3

// Status of the adapter after a query.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusQuerying Status = "querying"
	StatusReady    Status = "ready"
)

// Reason explains an empty result list.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonNeedsMoreInput Reason = "needs_more_input"
	ReasonNoMatches      Reason = "no_matches"
	ReasonFailed         Reason = "request_failed"
)

// Messages are the user-facing texts for each reason.
type Messages struct {
	Empty     string // nothing typed yet
	TooShort  string
	NoMatches string
	Failed    string
}

// AccountMessages are used by the account lookup screens.
var AccountMessages = Messages{
	Empty:     "กรุณาพิมพ์เพื่อค้นหา",
	TooShort:  "กรุณาพิมพ์อย่างน้อย 3 ตัวอักษร",
	NoMatches: "ไม่พบบัญชีที่ตรงกับการค้นหา",
	Failed:    "เกิดข้อผิดพลาดในการค้นหา กรุณาลองใหม่อีกครั้ง",
}

// LoanMessages are used by the loan payment screen.
var LoanMessages = Messages{
	Empty:     "กรุณาพิมพ์ชื่อผู้กู้เพื่อค้นหา",
	TooShort:  "กรุณาพิมพ์อย่างน้อย 3 ตัวอักษร",
	NoMatches: "ไม่พบสัญญาเงินกู้ที่ตรงกับการค้นหา",
	Failed:    "เกิดข้อผิดพลาดในการค้นหา กรุณาลองใหม่อีกครั้ง",
}

// Searcher resolves a trimmed term into candidates.
type Searcher[T any] func(ctx context.Context, term string) ([]T, error)

// Result is the outcome of one query.
type Result[T any] struct {
	Term    string `json:"term"`
	Status  Status `json:"status"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
	Items   []T    `json:"items"`
	Seq     uint64 `json:"seq"`
	// Stale is set when a newer query started before this one finished.
	// Stale results never become Latest.
	Stale bool `json:"stale,omitempty"`
}

// Normalize trims input and reports whether it is long enough to query.
// Length is counted in characters, not bytes.
func Normalize(raw string) (string, bool) {
	term := strings.TrimSpace(raw)
	return term, utf8.RuneCountInString(term) >= MinChars
}

// Adapter runs a Searcher for one input box. Every input at or above the
// threshold fires a query; a newer query cancels the one in flight.
type Adapter[T any] struct {
	search   Searcher[T]
	messages Messages
	log      zerolog.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	latest Result[T]
}

// NewAdapter creates an idle adapter.
func NewAdapter[T any](s Searcher[T], messages Messages, log zerolog.Logger) *Adapter[T] {
	return &Adapter[T]{
		search:   s,
		messages: messages,
		log:      log.With().Str("component", "search").Logger(),
		latest: Result[T]{
			Status:  StatusIdle,
			Reason:  ReasonNeedsMoreInput,
			Message: messages.Empty,
			Items:   []T{},
		},
	}
}

// Pending is a query that has taken its sequence number but not yet run.
type Pending[T any] struct {
	term   string
	seq    uint64
	ctx    context.Context
	cancel context.CancelFunc
	// settled is set when the input needs no request.
	settled *Result[T]
}

// Seq is the sequence number the query will report.
func (p Pending[T]) Seq() uint64 {
	return p.seq
}

// Query handles one input change.
func (a *Adapter[T]) Query(ctx context.Context, raw string) Result[T] {
	return a.Run(a.Begin(ctx, raw))
}

// Begin orders one input change: it takes the next sequence number and
// cancels the query in flight. Call it in input order; Run may then happen
// on any goroutine.
func (a *Adapter[T]) Begin(ctx context.Context, raw string) Pending[T] {
	term, ok := Normalize(raw)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	seq := a.seq
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}

	if !ok {
		msg := a.messages.TooShort
		if term == "" {
			msg = a.messages.Empty
		}
		res := Result[T]{
			Term:    term,
			Status:  StatusIdle,
			Reason:  ReasonNeedsMoreInput,
			Message: msg,
			Items:   []T{},
			Seq:     seq,
		}
		a.latest = res
		return Pending[T]{term: term, seq: seq, settled: &res}
	}

	qctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.latest = Result[T]{Term: term, Status: StatusQuerying, Items: []T{}, Seq: seq}
	return Pending[T]{term: term, seq: seq, ctx: qctx, cancel: cancel}
}

// Run performs a query started by Begin. The result is Stale when a newer
// Begin happened in the meantime.
func (a *Adapter[T]) Run(p Pending[T]) Result[T] {
	if p.settled != nil {
		res := *p.settled
		a.mu.Lock()
		res.Stale = p.seq != a.seq
		a.mu.Unlock()
		return res
	}

	items, err := a.search(p.ctx, p.term)

	a.mu.Lock()
	defer a.mu.Unlock()

	stale := p.seq != a.seq
	if !stale {
		a.cancel = nil
	}
	p.cancel()

	res := Result[T]{Term: p.term, Status: StatusReady, Items: items, Seq: p.seq, Stale: stale}
	switch {
	case err != nil:
		res.Items = []T{}
		res.Reason = ReasonFailed
		res.Message = a.messages.Failed
		if !stale && !errors.Is(err, context.Canceled) {
			a.log.Warn().Err(err).Str("term", p.term).Msg("Search request failed")
		}
	case len(items) == 0:
		res.Items = []T{}
		res.Reason = ReasonNoMatches
		res.Message = a.messages.NoMatches
	}

	if !stale {
		a.latest = res
	}
	return res
}

// Latest returns the newest settled (or pending) result.
func (a *Adapter[T]) Latest() Result[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latest
}

// Close aborts any query in flight.
func (a *Adapter[T]) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.seq++
}

// Local builds a Searcher over an in-memory collection: case-insensitive
// substring match on text(item), original order kept.
func Local[T any](items []T, text func(T) string) Searcher[T] {
	return func(ctx context.Context, term string) ([]T, error) {
		needle := strings.ToLower(term)
		out := make([]T, 0)
		for _, it := range items {
			if strings.Contains(strings.ToLower(text(it)), needle) {
				out = append(out, it)
			}
		}
		return out, nil
	}
}

// Filter runs a one-off query against a local collection without keeping
// adapter state. Used by server-rendered pages that filter on each request.
func Filter[T any](ctx context.Context, items []T, raw string, text func(T) string, messages Messages) Result[T] {
	return NewAdapter(Local(items, text), messages, zerolog.Nop()).Query(ctx, raw)
}
