// Package choices implements a headless state controller for searchable,
// pageable select widgets.
//
// A Controller merges static and externally supplied options with pages
// fetched through a Fetcher, tracks single or multiple selection (including
// exclusion mode for select-all over large remote lists), filters by glob or
// fuzzy search, and groups results under header rows. Rendering is left to
// the caller: every observable is exposed through read accessors, and all
// writes go through Commit or the dedicated operations.
//
//	c := choices.New(
//		choices.WithParams(choices.Params{Multiple: true, Searchable: true}),
//		choices.WithFetcher(fetcher),
//	)
//	defer c.Close()
//	c.Commit(choices.Open(true), choices.SearchText("ber"))
//	c.Wait()
//	items := c.FilteredOptions()
package choices
