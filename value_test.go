package choices

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestValueShapeFollowsMultiple(t *testing.T) {
	for _, multiple := range []bool{false, true} {
		c := newTestController(t, Params{Multiple: multiple, AutoSelect: Bool(false)},
			WithOptions(Ints(1, 2, 3)...),
		)
		check := func(step string) {
			t.Helper()
			if got := c.Value().IsMultiple(); got != multiple {
				t.Fatalf("multiple=%v after %s: value shape multiple=%v", multiple, step, got)
			}
		}

		check("new")
		c.Commit(InternalValue(Single(IntID(2))))
		check("commit single")
		c.Commit(InternalValue(Multiple(IntID(1), IntID(3))))
		check("commit multiple")
		c.SelectItem(IntID(2), SelectToggle, false)
		check("select")
		c.SelectItem(NullID(), SelectOn, false)
		check("select null")
	}
}

func TestCommitShapesValue(t *testing.T) {
	c := newTestController(t, Params{AutoSelect: Bool(false)}, WithOptions(Ints(1, 2, 3)...))

	c.Commit(InternalValue(Multiple(IntID(3), IntID(1))))
	if got := c.Value(); !got.Equal(Single(IntID(3))) {
		t.Fatalf("expected single 3, got %v", valueIDs(got))
	}
}

func TestMultipleDropsNullAndDuplicates(t *testing.T) {
	v := Multiple(IntID(1), NullID(), IntID(1), StringID("1"))
	if diff := cmp.Diff([]OptionID{IntID(1), StringID("1")}, v.IDs(), cmpIDs); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if Single(NullID()).Len() != 0 || !Single(NullID()).AsMultiple().IsMultiple() {
		t.Fatalf("null single must convert to an empty multiple")
	}
}

func TestOptionIDJSON(t *testing.T) {
	var ids []OptionID
	if err := json.Unmarshal([]byte(`[1, "1", null, 9007199254740993]`), &ids); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []OptionID{IntID(1), StringID("1"), NullID(), IntID(9007199254740993)}
	if diff := cmp.Diff(want, ids, cmpIDs); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `[1,"1",null,9007199254740993]` {
		t.Fatalf("unexpected json %s", raw)
	}
	if err := json.Unmarshal([]byte(`[1.5]`), &ids); err == nil {
		t.Fatalf("expected fractional id to be rejected")
	}
}

func TestOptionYAMLShorthand(t *testing.T) {
	var options []Option
	doc := "- 7\n- \"7\"\n- id: x\n  text: Ex\n"
	if err := yaml.Unmarshal([]byte(doc), &options); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(options))
	}
	if !options[0].ID.IsNumber() || options[0].Text != "7" {
		t.Fatalf("expected numeric scalar option, got %+v", options[0])
	}
	if options[1].ID != StringID("7") {
		t.Fatalf("expected quoted scalar to stay a string id, got %v", options[1].ID)
	}
	if options[2].ID != StringID("x") || options[2].Text != "Ex" {
		t.Fatalf("unexpected mapping option %+v", options[2])
	}
}

func TestParseID(t *testing.T) {
	cases := []struct {
		in   any
		want OptionID
		err  bool
	}{
		{in: nil, want: NullID()},
		{in: "a", want: StringID("a")},
		{in: 4, want: IntID(4)},
		{in: float64(5), want: IntID(5)},
		{in: json.Number("6"), want: IntID(6)},
		{in: 1.5, err: true},
		{in: true, err: true},
	}
	for _, tc := range cases {
		got, err := ParseID(tc.in)
		if tc.err {
			if err == nil {
				t.Fatalf("ParseID(%v): expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseID(%v) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}

func TestTotal(t *testing.T) {
	if TotalUnknown.Known() || TotalUnknown.Plus(3).Known() {
		t.Fatalf("unknown totals must stay unknown")
	}
	if got := Total(2).Add(3); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
	if Total(2).Add(TotalUnknown).Known() {
		t.Fatalf("unknown must win in Add")
	}
	if !TotalUnknown.Exceeds(1 << 30) {
		t.Fatalf("unknown exceeds everything")
	}
	if !Total(3).CoveredBy(3) || Total(3).CoveredBy(2) {
		t.Fatalf("CoveredBy mismatch")
	}
	if TotalUnknown.String() != "unknown" || Total(4).String() != "4" {
		t.Fatalf("unexpected string forms")
	}
}
