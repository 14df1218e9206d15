package aggregate

import (
	"fmt"
	"testing"

	"github.com/runwaylens/runwaylens-server/internal/domain"
)

func TestAggregateRanking(t *testing.T) {
	records := []domain.GarmentRecord{
		{ItemName: "Coat", ColorName: "red", ColorHex: "#FF0000", Materials: "wool", Designer: "Chanel", Season: "Fall-Winter 2025", OriginalImageName: "a.jpg"},
		{ItemName: "Coat", ColorName: "red", ColorHex: "#FF0000", Materials: "wool", Designer: "Chanel", Season: "Fall-Winter 2025", OriginalImageName: "b.jpg"},
		{ItemName: "Skirt", ColorName: "blue", ColorHex: "#0000FF", Materials: "cotton", Designer: "Chanel", Season: "Fall-Winter 2025", OriginalImageName: "c.jpg"},
	}

	buckets := Aggregate(records, domain.FieldItem)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Name != "Coat" || buckets[0].Value != 2 {
		t.Errorf("bucket[0] = %+v, want {Coat 2}", buckets[0])
	}
	if buckets[1].Name != "Skirt" || buckets[1].Value != 1 {
		t.Errorf("bucket[1] = %+v, want {Skirt 1}", buckets[1])
	}
}

func TestAggregateTieOrderDeterministic(t *testing.T) {
	records := []domain.GarmentRecord{
		{ItemName: "Dress"},
		{ItemName: "Coat"},
		{ItemName: "Skirt"},
		{ItemName: "Coat"},
	}

	// Dress, Skirt tie at 1; Dress was encountered first and must stay ahead.
	for range 5 {
		buckets := Aggregate(records, domain.FieldItem)
		got := []string{buckets[0].Name, buckets[1].Name, buckets[2].Name}
		want := []string{"Coat", "Dress", "Skirt"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("bucket order = %v, want %v", got, want)
			}
		}
	}
}

func TestAggregateTruncatesToTopN(t *testing.T) {
	records := make([]domain.GarmentRecord, 0, 30)
	for i := range 15 {
		name := fmt.Sprintf("item-%02d", i)
		// item-00 appears most often, item-14 least.
		for range 15 - i {
			records = append(records, domain.GarmentRecord{ItemName: name})
		}
	}

	buckets := Aggregate(records, domain.FieldItem)
	if len(buckets) != TopN {
		t.Fatalf("expected %d buckets, got %d", TopN, len(buckets))
	}
	if buckets[0].Name != "Item-00" {
		t.Errorf("top bucket = %q, want Item-00", buckets[0].Name)
	}

	// Truncation drops records: sum of bucket values is strictly below the
	// record count.
	sum := 0
	for _, b := range buckets {
		sum += b.Value
	}
	if sum >= len(records) {
		t.Errorf("truncated sum %d not below record count %d", sum, len(records))
	}
}

func TestAggregateSumMatchesRecordsWithoutTruncation(t *testing.T) {
	records := []domain.GarmentRecord{
		{ColorName: "red"},
		{ColorName: "red"},
		{ColorName: "blue"},
		{ColorName: "green"},
	}
	buckets := Aggregate(records, domain.FieldColor)

	sum := 0
	for _, b := range buckets {
		sum += b.Value
	}
	if sum != len(records) {
		t.Errorf("bucket sum = %d, want %d (no truncation)", sum, len(records))
	}
}

func TestAggregateColorHex(t *testing.T) {
	records := []domain.GarmentRecord{
		{ColorName: "red", ColorHex: "#FF0000"},
		{ColorName: "red", ColorHex: "#EE0000"}, // later hex ignored
		{ColorName: "beige"},                    // no hex -> gray sentinel
	}

	buckets := Aggregate(records, domain.FieldColor)
	if buckets[0].Color != "#FF0000" {
		t.Errorf("red bucket color = %q, want #FF0000 (first encountered)", buckets[0].Color)
	}
	if buckets[1].Color != GrayHex {
		t.Errorf("beige bucket color = %q, want gray sentinel %q", buckets[1].Color, GrayHex)
	}
}

func TestAggregateNoHexOutsideColorField(t *testing.T) {
	records := []domain.GarmentRecord{{ItemName: "Coat", ColorHex: "#FF0000"}}
	buckets := Aggregate(records, domain.FieldItem)
	if buckets[0].Color != "" {
		t.Errorf("item bucket carries color %q, want none", buckets[0].Color)
	}
}

func TestAggregateEmpty(t *testing.T) {
	buckets := Aggregate(nil, domain.FieldColor)
	if buckets == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(buckets) != 0 {
		t.Fatalf("expected 0 buckets, got %d", len(buckets))
	}
}

func TestAggregateMissingFieldDegradesLocally(t *testing.T) {
	records := []domain.GarmentRecord{
		{ItemName: "Coat", Materials: "wool"},
		{ItemName: "Skirt"}, // no material: still contributes a bucket
	}
	buckets := Aggregate(records, domain.FieldMaterial)

	sum := 0
	for _, b := range buckets {
		sum += b.Value
	}
	if sum != len(records) {
		t.Errorf("records with missing fields were excluded: sum %d != %d", sum, len(records))
	}
}
