package choices

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestHeldWindowIsNotRefetched(t *testing.T) {
	source := &pagedSource{total: 1000}
	c := newTestController(t, Params{AutoSelect: Bool(false)}, WithFetcher(source))

	c.Commit(Open(true))
	c.Wait()
	c.Commit(OffsetItem(10))
	c.Commit(OffsetItem(40))
	c.Wait()
	if got := len(source.Calls()); got != 1 {
		t.Fatalf("expected one fetch for the held window, got %d", got)
	}

	c.Commit(OffsetItem(60))
	c.Wait()
	c.Commit(OffsetItem(0))
	c.Wait()

	want := []fetchCall{{Offset: 0, Limit: 100}, {Offset: 100, Limit: 100}}
	if diff := cmp.Diff(want, source.Calls()); diff != "" {
		t.Fatalf("fetch calls mismatch (-want +got):\n%s", diff)
	}
	if got := len(c.FilteredOptions()); got != 200 {
		t.Fatalf("expected 200 held items, got %d", got)
	}
	totals := c.Totals()
	if totals.All != 1000 || totals.Dynamic != 1000 || totals.Filtered != 1000 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	calls := make(chan scriptedCall)
	logs := &logRecorder{}
	c := newTestController(t, Params{AutoSelect: Bool(false)},
		WithFetcher(scriptedFetcher(calls)),
		WithLogger(logs),
	)

	c.Commit(Open(true))
	first := <-calls
	c.Commit(SearchText("be"))
	second := <-calls
	if first.search != "" || second.search != "be" {
		t.Fatalf("unexpected requests %q then %q", first.search, second.search)
	}

	second.reply <- &Page{Total: PageTotal(1), Result: []Option{{ID: StringID("b"), Text: "Beta"}}}
	first.reply <- &Page{Total: PageTotal(1), Result: []Option{{ID: StringID("a"), Text: "Alpha"}}}
	c.Wait()

	if diff := cmp.Diff([]string{"b"}, itemIDs(c.FilteredOptions())); diff != "" {
		t.Fatalf("filtered mismatch (-want +got):\n%s", diff)
	}
	if got := c.AllOptions(); len(got) != 0 {
		t.Fatalf("stale base page leaked into the universe: %+v", got)
	}
	if c.Status().Searching {
		t.Fatalf("searching flag left on")
	}

	stale := 0
	for _, event := range logs.ops("fetch") {
		if event.Stale {
			stale++
			if event.Search != "" {
				t.Fatalf("wrong request marked stale: %+v", event)
			}
		}
	}
	if stale != 1 {
		t.Fatalf("expected one stale fetch, got %d", stale)
	}
}

func TestShortPagesKeepFillingTheWindow(t *testing.T) {
	capped := func(rows int) (Fetcher, func() []fetchCall) {
		var mu sync.Mutex
		var calls []fetchCall
		fetcher := FetcherFunc(func(_ context.Context, search string, offset, limit int) (*Page, error) {
			mu.Lock()
			calls = append(calls, fetchCall{Search: search, Offset: offset, Limit: limit})
			mu.Unlock()
			result := make([]Option, 0, rows)
			for i := offset; i < offset+rows; i++ {
				result = append(result, Option{ID: IntID(int64(i)), Text: "item"})
			}
			return &Page{Total: PageTotal(1000), Result: result}, nil
		})
		return fetcher, func() []fetchCall {
			mu.Lock()
			defer mu.Unlock()
			return slices.Clone(calls)
		}
	}

	t.Run("base window", func(t *testing.T) {
		fetcher, calls := capped(3)
		c := newTestController(t, Params{PageSize: 10, AutoSelect: Bool(false)}, WithFetcher(fetcher))

		c.Commit(Open(true))
		c.Wait()

		want := []fetchCall{{Offset: 0, Limit: 10}, {Offset: 3, Limit: 10}}
		if diff := cmp.Diff(want, calls()); diff != "" {
			t.Fatalf("fetch calls mismatch (-want +got):\n%s", diff)
		}
		if got := len(c.FilteredOptions()); got != 6 {
			t.Fatalf("expected the window to be filled with 6 items, got %d", got)
		}
		if c.Status().Searching {
			t.Fatalf("searching flag left on")
		}
	})

	t.Run("search window", func(t *testing.T) {
		fetcher, calls := capped(3)
		c := newTestController(t, Params{PageSize: 10, AutoSelect: Bool(false)}, WithFetcher(fetcher))

		c.Commit(Open(true), SearchText("item"))
		c.Wait()

		var searched []fetchCall
		for _, call := range calls() {
			if call.Search == "item" {
				searched = append(searched, call)
			}
		}
		want := []fetchCall{{Search: "item", Offset: 0, Limit: 10}, {Search: "item", Offset: 3, Limit: 10}}
		if diff := cmp.Diff(want, searched); diff != "" {
			t.Fatalf("search calls mismatch (-want +got):\n%s", diff)
		}
		if got := len(c.FilteredOptions()); got != 6 {
			t.Fatalf("expected 6 search results, got %d", got)
		}
	})

	t.Run("empty page stops", func(t *testing.T) {
		fetcher, calls := capped(0)
		c := newTestController(t, Params{PageSize: 10, AutoSelect: Bool(false)}, WithFetcher(fetcher))

		c.Commit(Open(true))
		c.Wait()

		if got := len(calls()); got != 1 {
			t.Fatalf("empty page should not trigger another fetch, got %d calls", got)
		}
	})
}

func TestClearingSearchSettlesSearchingFlag(t *testing.T) {
	calls := make(chan scriptedCall)
	logs := &logRecorder{}
	c := newTestController(t, Params{AutoSelect: Bool(false)},
		WithFetcher(scriptedFetcher(calls)),
		WithLogger(logs),
	)
	pages := &pagedSource{total: 1000}

	c.Commit(Open(true))
	base := <-calls
	page, _ := pages.Fetch(context.Background(), "", base.offset, base.limit)
	base.reply <- page
	c.Wait()

	c.Commit(SearchText("be"))
	search := <-calls
	c.Commit(SearchText(""))
	if c.Status().Searching {
		t.Fatalf("searching flag left on after the search was cleared")
	}

	search.reply <- &Page{Total: PageTotal(1), Result: []Option{{ID: StringID("b"), Text: "Beta"}}}
	c.Wait()

	if c.Status().Searching {
		t.Fatalf("searching flag left on with no fetch in flight")
	}
	if got := len(c.FilteredOptions()); got != 100 {
		t.Fatalf("expected the held base window, got %d items", got)
	}
	stale := 0
	for _, event := range logs.ops("fetch") {
		if event.Stale {
			stale++
		}
	}
	if stale != 1 {
		t.Fatalf("expected the search page to be discarded, got %d stale", stale)
	}
}

func TestSearchKeepsStaticBands(t *testing.T) {
	source := &pagedSource{total: 2, text: "remote"}
	c := newTestController(t, Params{Multiple: true},
		WithOptions(Inputs(Option{ID: StringID("l"), Text: "remote list"})...),
		WithExternalOptions(Inputs(Option{ID: StringID("e"), Text: "remote external"})...),
		WithFetcher(source),
	)

	c.Commit(Open(true), SearchText("rem*"))
	c.Wait()

	if diff := cmp.Diff([]string{"l", "0", "1", "e"}, itemIDs(c.FilteredOptions())); diff != "" {
		t.Fatalf("filtered mismatch (-want +got):\n%s", diff)
	}
	if got := c.Totals().Filtered; got != 4 {
		t.Fatalf("expected filtered total 4, got %v", got)
	}
}

func TestFetchErrors(t *testing.T) {
	t.Run("missing fetcher", func(t *testing.T) {
		c := newTestController(t, Params{AutoSelect: Bool(false)}, WithFetcher(FetcherFunc(nil)))
		c.Commit(Open(true))
		c.Wait()
		status := c.Status()
		if !errors.Is(status.Err, ErrMissingFetcher) || status.ErrorMessage != DefaultTexts()[TextNoFetchMethod] {
			t.Fatalf("unexpected status %+v", status)
		}
	})

	t.Run("nil page", func(t *testing.T) {
		fetcher := FetcherFunc(func(context.Context, string, int, int) (*Page, error) { return nil, nil })
		c := newTestController(t, Params{AutoSelect: Bool(false)}, WithFetcher(fetcher))
		c.Commit(Open(true))
		c.Wait()
		if !errors.Is(c.Status().Err, ErrMalformedFetchResult) {
			t.Fatalf("expected ErrMalformedFetchResult, got %v", c.Status().Err)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		boom := errors.New("backend down")
		fetcher := FetcherFunc(func(context.Context, string, int, int) (*Page, error) { return nil, boom })
		c := newTestController(t, Params{AutoSelect: Bool(false)},
			WithOptions(Ints(1)...),
			WithFetcher(fetcher),
		)
		c.Commit(Open(true))
		c.Wait()
		status := c.Status()
		if !errors.Is(status.Err, ErrFetchRejected) || !errors.Is(status.Err, boom) {
			t.Fatalf("expected rejection wrapping the cause, got %v", status.Err)
		}
		if status.ErrorMessage != "backend down" {
			t.Fatalf("unexpected message %q", status.ErrorMessage)
		}
		if got := c.Totals().Dynamic; got != 0 {
			t.Fatalf("failed base page should settle the remote total at 0, got %v", got)
		}
		c.ResetErrorMessage()
		if c.Status().Err != nil {
			t.Fatalf("expected error to be cleared")
		}
	})
}

func TestGetItemsResolvesMissingIDs(t *testing.T) {
	var calls atomic.Int32
	var asked []OptionID
	resolver := ResolverFunc(func(_ context.Context, ids []OptionID) ([]Option, error) {
		calls.Add(1)
		asked = ids
		return []Option{{ID: StringID("r"), Text: "Remote"}, {ID: StringID("extra"), Text: "Extra"}}, nil
	})
	c := newTestController(t, Params{AutoSelect: Bool(false)},
		WithOptions(Inputs(Option{ID: StringID("l"), Text: "Local"})...),
		WithResolver(resolver),
		WithOptionFormatter(func(item OptionItem) OptionItem {
			item.Title = "t:" + item.Text
			return item
		}),
	)

	items := c.GetItems(context.Background(), []OptionID{StringID("l"), StringID("r"), StringID("ghost")})
	texts := []string{}
	for _, item := range items {
		texts = append(texts, item.Title)
	}
	if diff := cmp.Diff([]string{"t:Local", "t:Remote", "t:ghost"}, texts); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]OptionID{StringID("r"), StringID("ghost")}, asked, cmpIDs); diff != "" {
		t.Fatalf("resolver asked for (-want +got):\n%s", diff)
	}

	c.GetItems(context.Background(), []OptionID{StringID("r")})
	if got := calls.Load(); got != 1 {
		t.Fatalf("cached id was resolved again, calls=%d", got)
	}
}

func TestConcurrentResolutionsAreCoalesced(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	resolver := ResolverFunc(func(_ context.Context, ids []OptionID) ([]Option, error) {
		calls.Add(1)
		entered <- struct{}{}
		<-release
		return []Option{{ID: StringID("x"), Text: "Ex"}, {ID: StringID("y"), Text: "Why"}}, nil
	})
	logs := &logRecorder{}
	c := newTestController(t, Params{AutoSelect: Bool(false)}, WithResolver(resolver), WithLogger(logs))

	var wg sync.WaitGroup
	results := make([][]OptionItem, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = c.GetItems(context.Background(), []OptionID{StringID("x"), StringID("y")})
	}()
	<-entered
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1] = c.GetItems(context.Background(), []OptionID{StringID("y"), StringID("x")})
	}()
	// let the second caller join the flight
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one resolver call, got %d", got)
	}
	if results[0][0].Text != "Ex" || results[1][0].Text != "Why" {
		t.Fatalf("unexpected results %+v / %+v", results[0], results[1])
	}
	shared := slices.ContainsFunc(logs.ops("resolve"), func(event LogEvent) bool { return event.Shared })
	if !shared {
		t.Fatalf("expected a shared resolution to be logged")
	}
}

func TestStrictValueResolvesRemoteIDs(t *testing.T) {
	known := map[OptionID]Option{StringID("x1"): {ID: StringID("x1"), Text: "X One"}}
	resolver := ResolverFunc(func(_ context.Context, ids []OptionID) ([]Option, error) {
		var out []Option
		for _, id := range ids {
			if opt, ok := known[id]; ok {
				out = append(out, opt)
			}
		}
		return out, nil
	})
	c := newTestController(t, Params{Multiple: true, StrictValue: true},
		WithFetcher(&pagedSource{total: 1000}),
		WithResolver(resolver),
		WithValue(Multiple(StringID("x1"), StringID("ghost"))),
	)
	c.Wait()

	if diff := cmp.Diff([]string{"x1"}, valueIDs(c.Value())); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	selected := c.SelectedOptions()
	if len(selected) != 1 || selected[0].Text != "X One" {
		t.Fatalf("unexpected selected options %+v", selected)
	}
}

func TestLatestCommitWinsOverStrictRecheck(t *testing.T) {
	gate := make(chan struct{})
	resolver := ResolverFunc(func(ctx context.Context, ids []OptionID) ([]Option, error) {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		var out []Option
		for _, id := range ids {
			if id == StringID("user") {
				out = append(out, Option{ID: id, Text: "User pick"})
			}
		}
		return out, nil
	})
	c := newTestController(t, Params{Multiple: true, StrictValue: true},
		WithFetcher(&pagedSource{total: 1000}),
		WithResolver(resolver),
		WithValue(Multiple(StringID("ghost"))),
	)

	c.Commit(InternalValue(Multiple(StringID("user"))))
	close(gate)
	c.Wait()

	if diff := cmp.Diff([]string{"user"}, valueIDs(c.Value())); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	if selected := c.SelectedOptions(); len(selected) != 1 || selected[0].Text != "User pick" {
		t.Fatalf("unexpected selected options %+v", selected)
	}
}

func TestCloseDropsLateResults(t *testing.T) {
	calls := make(chan scriptedCall)
	c := New(Params{AutoSelect: Bool(false)},
		WithRegistry(NewRegistry()),
		WithFetcher(scriptedFetcher(calls)),
	)
	c.Commit(Open(true))
	<-calls
	c.Close()

	if c.IsOpen() || len(c.AllOptions()) != 0 {
		t.Fatalf("closed controller changed after close")
	}
}
