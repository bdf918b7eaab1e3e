package choices

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReactionTable(t *testing.T) {
	cases := map[Facet][]string{
		FacetSearch:     {"reset_filtered", "refilter"},
		FacetOpened:     {"refuse_when_disabled", "reset_offset", "reset_change", "refresh_window", "claim_exclusivity", "emit_opened"},
		FacetClosed:     {"release_exclusivity", "emit_closed"},
		FacetOffset:     {"refresh_window"},
		FacetValue:      {"assert_value", "reflag_filtered", "build_selected"},
		FacetExclusion:  {"assert_value", "reflag_filtered", "build_selected"},
		FacetDisabled:   {"force_close"},
		FacetEnabled:    {},
		FacetActiveItem: {},
	}
	for facet, want := range cases {
		if diff := cmp.Diff(want, Reactions(facet)); diff != "" {
			t.Fatalf("%s reactions mismatch (-want +got):\n%s", facet, diff)
		}
	}
}

func TestCommitReportsTouchedFacets(t *testing.T) {
	c := newTestController(t, Params{Multiple: true}, WithOptions(Ints(1, 2, 3)...))

	touched := c.Commit(Open(true), SearchText("2"), ActiveItem(0))
	if !touched.Has(FacetOpened | FacetSearch | FacetActiveItem) {
		t.Fatalf("unexpected facets %s", touched)
	}
	if touched.Has(FacetValue) {
		t.Fatalf("value was not touched: %s", touched)
	}
	if again := c.Commit(Open(true), SearchText("2")); again != 0 {
		t.Fatalf("assigning current values must be a no-op, got %s", again)
	}
	if c.ActiveItemIdx() != 0 {
		t.Fatalf("expected active item 0, got %d", c.ActiveItemIdx())
	}

	c.Commit(SearchText(""))
	if c.ActiveItemIdx() != -1 || c.OffsetItem() != 0 {
		t.Fatalf("search change must reset the window position")
	}
}

func TestFacetString(t *testing.T) {
	if got := Facet(0).String(); got != "none" {
		t.Fatalf("unexpected zero facet %q", got)
	}
	if got := (FacetOpened | FacetValue).String(); got != "opened|value" {
		t.Fatalf("unexpected facet string %q", got)
	}
	if FacetValue.Has(0) {
		t.Fatalf("Has(0) must be false")
	}
}

func TestOpenResetsChangeFlag(t *testing.T) {
	c := newTestController(t, Params{Multiple: true}, WithOptions(Ints(1, 2, 3)...))
	c.SelectItem(IntID(1), SelectOn, false)
	c.Commit(Open(true))
	if c.Status().HasChanged {
		t.Fatalf("opening must reset HasChanged")
	}
}
