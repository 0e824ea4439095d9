package search

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingSearcher(calls *int32, results map[string][]string) Searcher[string] {
	return func(ctx context.Context, term string) ([]string, error) {
		atomic.AddInt32(calls, 1)
		return results[term], nil
	}
}

func TestQuery_BelowThresholdIssuesNoRequest(t *testing.T) {
	var calls int32
	a := NewAdapter(countingSearcher(&calls, nil), AccountMessages, zerolog.Nop())

	for _, input := range []string{"", " ", "ab", "  ab  ", "กข"} {
		res := a.Query(context.Background(), input)
		assert.Equal(t, StatusIdle, res.Status, input)
		assert.Equal(t, ReasonNeedsMoreInput, res.Reason, input)
		assert.Empty(t, res.Items, input)
		assert.NotNil(t, res.Items, input)
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.Equal(t, AccountMessages.TooShort, a.Latest().Message)
	assert.Equal(t, AccountMessages.Empty, a.Query(context.Background(), "   ").Message)
}

func TestQuery_CountsCharactersNotBytes(t *testing.T) {
	var calls int32
	a := NewAdapter(countingSearcher(&calls, map[string][]string{"สมช": {"สมชาย"}}), AccountMessages, zerolog.Nop())

	res := a.Query(context.Background(), "สมช")
	assert.Equal(t, StatusReady, res.Status)
	assert.Equal(t, []string{"สมชาย"}, res.Items)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestQuery_EveryKeystrokeAboveThresholdFires(t *testing.T) {
	var calls int32
	a := NewAdapter(countingSearcher(&calls, nil), AccountMessages, zerolog.Nop())

	for _, input := range []string{"000", "0001", "00012", "000123"} {
		a.Query(context.Background(), input)
	}
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestQuery_NoMatchesAndFailure(t *testing.T) {
	var calls int32
	a := NewAdapter(countingSearcher(&calls, map[string][]string{}), AccountMessages, zerolog.Nop())
	res := a.Query(context.Background(), "zzz")
	assert.Equal(t, StatusReady, res.Status)
	assert.Equal(t, ReasonNoMatches, res.Reason)
	assert.Equal(t, AccountMessages.NoMatches, res.Message)

	failing := NewAdapter(func(ctx context.Context, term string) ([]string, error) {
		return nil, errors.New("connection refused")
	}, AccountMessages, zerolog.Nop())
	res = failing.Query(context.Background(), "abc")
	assert.Equal(t, ReasonFailed, res.Reason)
	assert.Equal(t, AccountMessages.Failed, res.Message)
	assert.Empty(t, res.Items)
}

func TestQuery_SupersededResultIsStale(t *testing.T) {
	started := make(chan struct{})
	a := NewAdapter(func(ctx context.Context, term string) ([]string, error) {
		if term == "slow" {
			close(started)
			<-ctx.Done()
			return []string{"slow result"}, nil
		}
		return []string{"fast result"}, nil
	}, AccountMessages, zerolog.Nop())

	slowDone := make(chan Result[string])
	go func() {
		slowDone <- a.Query(context.Background(), "slow")
	}()
	<-started

	fast := a.Query(context.Background(), "fast")
	slow := <-slowDone

	assert.False(t, fast.Stale)
	assert.True(t, slow.Stale)
	assert.Greater(t, fast.Seq, slow.Seq)
	assert.Equal(t, []string{"fast result"}, a.Latest().Items)
}

func TestBegin_OrdersByInputNotByRun(t *testing.T) {
	var older context.Context
	a := NewAdapter(func(ctx context.Context, term string) ([]string, error) {
		if term == "000" {
			older = ctx
		}
		return []string{term + " result"}, nil
	}, AccountMessages, zerolog.Nop())

	first := a.Begin(context.Background(), "000")
	second := a.Begin(context.Background(), "0001")
	require.Greater(t, second.Seq(), first.Seq())

	// The newer keystroke runs first, as when goroutines are scheduled out of order.
	newest := a.Run(second)
	oldest := a.Run(first)

	assert.False(t, newest.Stale)
	assert.Equal(t, "0001", newest.Term)
	assert.True(t, oldest.Stale)
	require.NotNil(t, older)
	assert.ErrorIs(t, older.Err(), context.Canceled)
	assert.Equal(t, "0001", a.Latest().Term)
	assert.Equal(t, []string{"0001 result"}, a.Latest().Items)
}

func TestBegin_ShortInputSettlesImmediately(t *testing.T) {
	var calls int32
	a := NewAdapter(countingSearcher(&calls, nil), AccountMessages, zerolog.Nop())

	short := a.Begin(context.Background(), "ab")
	assert.Equal(t, StatusIdle, a.Latest().Status)
	a.Begin(context.Background(), "abc")

	res := a.Run(short)
	assert.True(t, res.Stale)
	assert.Equal(t, ReasonNeedsMoreInput, res.Reason)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestClose_CancelsInFlight(t *testing.T) {
	started := make(chan struct{})
	a := NewAdapter(func(ctx context.Context, term string) ([]string, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}, AccountMessages, zerolog.Nop())

	done := make(chan Result[string])
	go func() { done <- a.Query(context.Background(), "abcd") }()
	<-started
	a.Close()

	res := <-done
	assert.True(t, res.Stale)
}

func TestLocalAndFilter(t *testing.T) {
	names := []string{"สมชาย ใจดี", "Somsak Dee", "มานี มีนา", "somchai ok"}

	res := Filter(context.Background(), names, "SOM", func(s string) string { return s }, LoanMessages)
	require.Equal(t, StatusReady, res.Status)
	assert.Equal(t, []string{"Somsak Dee", "somchai ok"}, res.Items)

	res = Filter(context.Background(), names, "ใจดี", func(s string) string { return s }, LoanMessages)
	assert.Equal(t, []string{"สมชาย ใจดี"}, res.Items)

	res = Filter(context.Background(), names, "so", strings.ToUpper, LoanMessages)
	assert.Equal(t, ReasonNeedsMoreInput, res.Reason)
}
