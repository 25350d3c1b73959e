package catalog_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/item-purchase-service/internal/catalog"
	"github.com/fairyhunter13/item-purchase-service/internal/model"
)

func fixtureItems() []model.Item {
	p := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return []model.Item{
		{ID: "A", Name: "Hammer", Description: "claw hammer", Type: "Tool", Family: "Hand", UnitPrice: p("10")},
		{ID: "B", Name: "Drill", Description: "cordless drill", Type: "Tool", Family: "Power", UnitPrice: p("50")},
		{ID: "C", Name: "Goggles", Description: "anti-fog", Type: "Safety", Family: "Protective", UnitPrice: p("7.25")},
		{ID: "D", Name: "Mystery Widget", UnitPrice: p("3")}, // no type/family
	}
}

func ids(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestLoadSkipsMalformedEntries(t *testing.T) {
	v := catalog.New()
	items := append(fixtureItems(),
		model.Item{ID: "", Name: "no id", UnitPrice: decimal.Zero},
		model.Item{ID: "X", Name: "", UnitPrice: decimal.Zero},
		model.Item{ID: "Y", Name: "negative", UnitPrice: decimal.RequireFromString("-1")},
	)
	v.Load(items)
	require.Equal(t, []string{"A", "B", "C", "D"}, ids(v.VisibleItems()))
}

func TestDistinctValuesFirstSeenOrder(t *testing.T) {
	v := catalog.New()
	v.Load(fixtureItems())
	require.Equal(t, []string{"Tool", "Safety"}, v.DistinctTypes())
	require.Equal(t, []string{"Hand", "Power", "Protective"}, v.DistinctFamilies())

	// reloading the same catalog keeps the order stable
	v.Load(fixtureItems())
	require.Equal(t, []string{"Tool", "Safety"}, v.DistinctTypes())
	require.Equal(t, []string{"Hand", "Power", "Protective"}, v.DistinctFamilies())
}

func TestFilterSemantics(t *testing.T) {
	tests := []struct {
		name   string
		filter catalog.FilterState
		want   []string
	}{
		{"no constraint", catalog.FilterState{}, []string{"A", "B", "C", "D"}},
		{"type only", catalog.FilterState{Types: []string{"Tool"}}, []string{"A", "B"}},
		{"family only", catalog.FilterState{Families: []string{"Protective"}}, []string{"C"}},
		{"type and family", catalog.FilterState{Types: []string{"Tool"}, Families: []string{"Power"}}, []string{"B"}},
		{"no match", catalog.FilterState{Types: []string{"Food"}}, nil},
		{"untagged item excluded by constraint", catalog.FilterState{Types: []string{"Tool", "Safety"}}, []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := catalog.New()
			v.Load(fixtureItems())
			v.SetFilter(tt.filter)
			if diff := cmp.Diff(tt.want, ids(v.VisibleItems()), cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("visible items mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	v := catalog.New()
	v.Load(fixtureItems())

	v.SetSearch("DRI")
	require.Equal(t, []string{"B"}, ids(v.VisibleItems()))

	// matches description as well as name
	v.SetSearch("anti-FOG")
	require.Equal(t, []string{"C"}, ids(v.VisibleItems()))

	v.SetSearch("")
	require.Equal(t, []string{"A", "B", "C", "D"}, ids(v.VisibleItems()))
}

func TestFilterAndSearchCompose(t *testing.T) {
	v := catalog.New()
	v.Load(fixtureItems())

	v.SetSearch("r")
	v.SetFilter(catalog.FilterState{Types: []string{"Tool"}})
	// search is re-applied, not dropped, when the filter changes
	require.Equal(t, []string{"A", "B"}, ids(v.VisibleItems()))

	v.SetSearch("drill")
	require.Equal(t, []string{"B"}, ids(v.VisibleItems()))

	// loading re-applies both
	v.Load(fixtureItems())
	require.Equal(t, []string{"B"}, ids(v.VisibleItems()))
}

func TestSetFilterAndSearchAreIdempotent(t *testing.T) {
	v := catalog.New()
	v.Load(fixtureItems())

	f := catalog.FilterState{Types: []string{"Tool"}, Families: []string{"Power"}}
	v.SetFilter(f)
	once := ids(v.VisibleItems())
	v.SetFilter(f)
	require.Equal(t, once, ids(v.VisibleItems()))

	v.SetSearch("drill")
	once = ids(v.VisibleItems())
	v.SetSearch("drill")
	require.Equal(t, once, ids(v.VisibleItems()))
}

func TestVisibleIsSubsetSatisfyingPredicates(t *testing.T) {
	v := catalog.New()
	v.Load(fixtureItems())
	v.SetFilter(catalog.FilterState{Types: []string{"Tool", "Safety"}})
	v.SetSearch("o")

	inCatalog := make(map[string]model.Item)
	for _, it := range fixtureItems() {
		inCatalog[it.ID] = it
	}
	for _, it := range v.VisibleItems() {
		_, ok := inCatalog[it.ID]
		require.True(t, ok, "visible item %s not in catalog", it.ID)
	}
}

func TestItemLookupIgnoresView(t *testing.T) {
	v := catalog.New()
	v.Load(fixtureItems())
	v.SetFilter(catalog.FilterState{Types: []string{"Safety"}})

	// A is filtered out of the view but still addressable for add-to-cart
	it, ok := v.Item("A")
	require.True(t, ok)
	require.Equal(t, "Hammer", it.Name)

	_, ok = v.Item("nope")
	require.False(t, ok)
}

func TestEmptyViewBeforeLoad(t *testing.T) {
	v := catalog.New()
	require.Empty(t, v.VisibleItems())
	require.Empty(t, v.DistinctTypes())

	// failed fetches never reach Load; last-known state is kept
	v.Load(fixtureItems())
	v.SetSearch("hammer")
	require.Equal(t, []string{"A"}, ids(v.VisibleItems()))
}
