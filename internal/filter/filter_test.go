package filter

import (
	"testing"

	"github.com/runwaylens/runwaylens-server/internal/domain"
)

func testRecords() []domain.GarmentRecord {
	return []domain.GarmentRecord{
		{ID: "1", ItemName: "Coat", ColorName: "red", Materials: "wool", Designer: "Chanel", Season: "Fall-Winter 2025"},
		{ID: "2", ItemName: "Skirt", ColorName: "Navy Blue", Materials: "cotton", Designer: "Chanel", Season: "Spring 2024"},
		{ID: "3", ItemName: "Dress", ColorName: "red", Materials: "silk", Designer: "Valentino", Season: "fall_winter_2025"},
		{ID: "4", ItemName: "Trench coat", ColorName: "beige", Materials: "cotton", Designer: "Saint Laurent", Season: "Fall-Winter 2025"},
	}
}

func ids(records []domain.GarmentRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply(t *testing.T) {
	records := testRecords()

	tests := []struct {
		name  string
		preds Predicates
		want  []string
	}{
		{"no predicates", Predicates{}, []string{"1", "2", "3", "4"}},
		{"empty predicate values", Predicates{domain.FieldColor: "  "}, []string{"1", "2", "3", "4"}},
		{"single field", Predicates{domain.FieldColor: "red"}, []string{"1", "3"}},
		{"case-insensitive", Predicates{domain.FieldColor: "RED"}, []string{"1", "3"}},
		{"substring", Predicates{domain.FieldItem: "coat"}, []string{"1", "4"}},
		{"AND composition", Predicates{domain.FieldColor: "red", domain.FieldMaterial: "silk"}, []string{"3"}},
		{"no matches", Predicates{domain.FieldColor: "chartreuse"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(records, tt.preds))
			if !equalIDs(got, tt.want) {
				t.Errorf("Apply() ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplySeasonNormalized(t *testing.T) {
	records := testRecords()

	// "fall winter 2025" must match both "Fall-Winter 2025" and
	// "fall_winter_2025" records once normalized.
	got := ids(Apply(records, Predicates{domain.FieldSeason: "Fall-Winter 2025"}))
	want := []string{"1", "3", "4"}
	if !equalIDs(got, want) {
		t.Errorf("season filter ids = %v, want %v", got, want)
	}

	got = ids(Apply(records, Predicates{domain.FieldSeason: "fall_winter"}))
	if !equalIDs(got, want) {
		t.Errorf("separator-variant season filter ids = %v, want %v", got, want)
	}
}

func TestApplyMonotonic(t *testing.T) {
	records := testRecords()

	p := Predicates{domain.FieldSeason: "fall winter 2025"}
	q := Predicates{domain.FieldSeason: "fall winter 2025", domain.FieldColor: "red"}

	loose := Apply(records, p)
	strict := Apply(records, q)

	if len(strict) > len(loose) {
		t.Fatalf("stricter predicates returned more records: %d > %d", len(strict), len(loose))
	}

	looseIDs := make(map[string]bool)
	for _, r := range loose {
		looseIDs[r.ID] = true
	}
	for _, r := range strict {
		if !looseIDs[r.ID] {
			t.Errorf("record %s in strict result but not in loose result", r.ID)
		}
	}
}

func TestAvailableValuesCascading(t *testing.T) {
	records := testRecords()

	// Unfiltered: all designers available.
	all := AvailableValues(records, domain.FieldDesigner)
	want := []string{"Chanel", "Valentino", "Saint Laurent"}
	if !equalIDs(all, want) {
		t.Errorf("unfiltered designers = %v, want %v", all, want)
	}

	// Filtering on color narrows the designer options.
	red := Apply(records, Predicates{domain.FieldColor: "red"})
	narrowed := AvailableValues(red, domain.FieldDesigner)
	want = []string{"Chanel", "Valentino"}
	if !equalIDs(narrowed, want) {
		t.Errorf("cascaded designers = %v, want %v", narrowed, want)
	}
}

func TestAvailableValuesDeduplicatesByKey(t *testing.T) {
	records := []domain.GarmentRecord{
		{Season: "Fall-Winter 2025"},
		{Season: "fall_winter_2025"},
		{Season: "Spring 2024"},
	}
	got := AvailableValues(records, domain.FieldSeason)
	want := []string{"Fall Winter 2025", "Spring 2024"}
	if !equalIDs(got, want) {
		t.Errorf("season values = %v, want %v", got, want)
	}
}

func TestClearingFiltersRestoresFullLists(t *testing.T) {
	records := testRecords()

	before := AvailableValues(Apply(records, Predicates{}), domain.FieldColor)
	filtered := Apply(records, Predicates{domain.FieldDesigner: "chanel"})
	_ = AvailableValues(filtered, domain.FieldColor)
	after := AvailableValues(Apply(records, Predicates{}), domain.FieldColor)

	if !equalIDs(before, after) {
		t.Errorf("clearing filters did not restore option lists: %v vs %v", before, after)
	}
	// Idempotent: clearing twice is the same as clearing once.
	again := AvailableValues(Apply(records, Predicates{}), domain.FieldColor)
	if !equalIDs(after, again) {
		t.Errorf("repeated clear diverged: %v vs %v", after, again)
	}
}
