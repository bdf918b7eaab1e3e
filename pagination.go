package choices

import (
	"context"
	"errors"
	"time"
)

type pageRequest struct {
	id      uint64
	fetcher Fetcher
	search  string
	offset  int
	limit   int
	// rows is the filtered length at issue time; search results land there.
	rows int
}

// refreshWindow makes sure the filtered sequence covers the display window
// starting at offsetItem, fetching remote pages when it cannot.
func (c *Controller) refreshWindow() {
	if !c.open {
		return
	}
	if c.hasAllItems() {
		return
	}
	if c.hasFetchedAll() {
		c.filtered = c.filterOptions(c.all)
		c.totalFiltered = Total(len(c.filtered))
		return
	}

	endIndex := c.offsetItem + c.params.marginSize()
	if endIndex <= len(c.filtered) {
		return
	}
	if c.search == "" && endIndex <= len(c.all) {
		c.filtered = c.bandItems(c.all, nil)
		c.totalFiltered = c.totalAll.Plus(len(c.groups))
		if c.isPartial() && !c.totalDyn.Known() {
			c.fetchPage()
		}
		return
	}
	if len(c.filtered) == 0 && c.behavior.Operation == OperationSort {
		c.addStaticFiltered(false)
		c.searchStart = len(c.filtered)
		if endIndex <= len(c.filtered) {
			return
		}
	}
	c.fetchPage()
}

func (c *Controller) fetchPage() {
	if c.fetcher == nil {
		c.setError(ErrMissingFetcher, c.texts[TextNoFetchMethod], ErrMissingFetcher)
		return
	}
	endIndex := c.offsetItem + c.params.marginSize()
	req := pageRequest{
		fetcher: c.fetcher,
		search:  c.search,
		rows:    len(c.filtered),
	}
	var held int
	if req.search == "" {
		req.offset = len(c.dyn)
		held = c.dynStart + len(c.dyn)
	} else {
		tail := c.filtered[min(c.searchStart, len(c.filtered)):]
		req.offset = len(tail) - CountGroupHeaders(tail)
		held = len(c.filtered)
	}
	req.limit = pageLimit(endIndex-held, c.params.PageSize)

	c.requestID++
	req.id = c.requestID
	c.status.Searching = true
	c.spawn(func(ctx context.Context) {
		c.runFetch(ctx, req)
	})
}

func pageLimit(needed, pageSize int) int {
	if needed < 1 {
		needed = 1
	}
	pages := (needed + pageSize - 1) / pageSize
	return pages * pageSize
}

func (c *Controller) runFetch(ctx context.Context, req pageRequest) {
	start := time.Now()
	page, err := req.fetcher.Fetch(ctx, req.search, req.offset, req.limit)
	if err == nil && page == nil {
		err = ErrMalformedFetchResult
	}
	duration := time.Since(start)

	var stale bool
	c.update(func() {
		if c.closed || req.id != c.requestID || req.search != c.search {
			stale = true
			return
		}
		if err != nil {
			c.applyFetchError(req, err)
			return
		}
		c.applyPage(req, page)
	})

	c.log(LogEvent{
		Op:        "fetch",
		Search:    req.search,
		Offset:    req.offset,
		Limit:     req.limit,
		RequestID: req.id,
		Duration:  duration,
		Stale:     stale,
		Err:       err,
	})
}

func (c *Controller) applyFetchError(req pageRequest, err error) {
	c.status.Searching = false
	kind, message := c.errorMessageFor(err)
	c.setError(kind, message, err)
	if kind != ErrFetchRejected || req.search != "" {
		return
	}
	// a failed base page cannot be trusted: keep what was held before it
	if req.offset < len(c.dyn) {
		c.dyn = c.dyn[:req.offset]
	}
	c.totalDyn = Total(len(c.dyn))
	c.rebuild(true)
	c.runOptionWatchers()
}

func (c *Controller) applyPage(req pageRequest, page *Page) {
	c.status.Searching = false
	if errors.Is(c.status.Err, ErrFetchRejected) || errors.Is(c.status.Err, ErrMalformedFetchResult) || errors.Is(c.status.Err, ErrMissingFetcher) {
		c.clearError()
	}

	result := page.Result
	total := TotalUnknown
	switch {
	case page.Total != nil:
		total = Total(*page.Total)
	case req.search == "":
		total = c.totalDyn
	default:
		total = c.totalSearch
	}
	if !total.Known() {
		total = Total(len(result))
	}
	complete := total.CoveredBy(req.offset + len(result))

	if req.search == "" {
		c.dyn = spliceOptions(c.dyn, req.offset, req.limit, result)
		if complete {
			total = Total(len(c.dyn))
		}
		c.totalDyn = total
		c.rebuildSources(true)
		if c.open {
			c.filtered = c.bandItems(c.all, nil)
			if c.hasFetchedAll() {
				c.totalFiltered = Total(len(c.filtered))
			} else {
				c.totalFiltered = c.totalAll.Plus(len(c.groups))
			}
		}
		c.runOptionWatchers()
		c.continueWindow(result)
		return
	}

	c.totalSearch = total
	rows := min(req.rows, len(c.filtered))
	var preceding *OptionItem
	if rows > 0 {
		last := c.filtered[rows-1]
		preceding = &last
	}
	c.filtered = append(c.filtered[:rows:rows], c.bandItems(result, preceding)...)

	if complete {
		c.addStaticFiltered(true)
		c.totalFiltered = Total(len(c.filtered))
		return
	}
	tail := c.filtered[min(c.searchStart, len(c.filtered)):]
	headers := max(len(c.groups), CountGroupHeaders(tail))
	c.totalFiltered = Total(c.searchStart + int(total) + headers)
	c.continueWindow(result)
}

// continueWindow requests the next page when a collaborator returned fewer
// rows than the window needs. An empty page ends the chain.
func (c *Controller) continueWindow(result []Option) {
	if len(result) == 0 {
		return
	}
	c.refreshWindow()
}

// addStaticFiltered appends the filtered static sources that sit before the
// dynamic source, or after it when afterDynamic is set. Only the sort
// operation interleaves sources.
func (c *Controller) addStaticFiltered(afterDynamic bool) {
	if c.behavior.Operation != OperationSort {
		return
	}
	collecting := !afterDynamic
	for _, src := range c.behavior.Order {
		if src == SourceDynamic {
			if !afterDynamic {
				return
			}
			collecting = true
			continue
		}
		if !collecting {
			continue
		}
		options, _ := c.source(src)
		c.appendBand(MatchOptions(options, c.search, c.params.SearchMode))
	}
}

func (c *Controller) appendBand(options []Option) {
	var preceding *OptionItem
	if n := len(c.filtered); n > 0 {
		last := c.filtered[n-1]
		preceding = &last
	}
	c.filtered = append(c.filtered, c.bandItems(options, preceding)...)
}

func (c *Controller) filterOptions(options []Option) []OptionItem {
	return c.bandItems(MatchOptions(options, c.search, c.params.SearchMode), nil)
}

func (c *Controller) bandItems(options []Option, preceding *OptionItem) []OptionItem {
	return BuildGroupBand(c.itemsFor(options), preceding, c.groups)
}

func spliceOptions(dst []Option, offset, limit int, src []Option) []Option {
	offset = min(offset, len(dst))
	end := min(offset+limit, len(dst))
	out := make([]Option, 0, len(dst)-(end-offset)+len(src))
	out = append(out, dst[:offset]...)
	out = append(out, src...)
	return append(out, dst[end:]...)
}
