package offers

import (
	"testing"

	"streamshelf/models"
)

func TestNormalize_DropsIncompleteRecords(t *testing.T) {
	raw := []models.RawOffer{
		{PlatformID: 203, Type: "sub", WebURL: "https://netflix.com/title/1"},
		{PlatformID: 0, Type: "sub", WebURL: "https://nowhere.example"},     // no platform
		{PlatformID: 26, Type: "", WebURL: "https://hulu.com/watch/1"},      // no mode
		{PlatformID: 372, Type: "free", WebURL: ""},                         // no url
		{PlatformID: 372, Type: "free", WebURL: "   "},                      // blank url
	}

	got := Normalize(raw, "US")
	if len(got) != 1 {
		t.Fatalf("expected 1 offer, got %d: %+v", len(got), got)
	}
	if got[0].PlatformID != 203 || got[0].AccessMode != models.AccessSubscription {
		t.Fatalf("unexpected survivor: %+v", got[0])
	}
}

func TestNormalize_RegionFiltering(t *testing.T) {
	raw := []models.RawOffer{
		{PlatformID: 1, Type: "sub", Region: "US", WebURL: "https://a.example"},
		{PlatformID: 2, Type: "sub", Region: "GB", WebURL: "https://b.example"},
		{PlatformID: 3, Type: "sub", WebURL: "https://c.example"}, // no region = global, retained
	}

	got := Normalize(raw, "US")
	if len(got) != 2 {
		t.Fatalf("expected 2 offers, got %d: %+v", len(got), got)
	}
	for _, o := range got {
		if o.Region != "" && o.Region != "US" {
			t.Errorf("offer for platform %d escaped region filter: %q", o.PlatformID, o.Region)
		}
	}
}

func TestNormalize_UnknownModesDroppedNotCoerced(t *testing.T) {
	raw := []models.RawOffer{
		{PlatformID: 1, Type: "sub", WebURL: "https://a.example"},
		{PlatformID: 1, Type: "addon", WebURL: "https://a.example"},
		{PlatformID: 1, Type: "cinema", WebURL: "https://a.example"},
	}

	got := Normalize(raw, "US")
	if len(got) != 1 {
		t.Fatalf("expected only the known mode to survive, got %+v", got)
	}
}

func TestNormalize_BuyFoldsIntoPurchaseRentStaysDistinct(t *testing.T) {
	raw := []models.RawOffer{
		{PlatformID: 1, Type: "buy", WebURL: "https://a.example"},
		{PlatformID: 1, Type: "rent", WebURL: "https://a.example"},
		{PlatformID: 1, Type: "purchase", WebURL: "https://a.example"},
	}

	got := Normalize(raw, "US")
	if len(got) != 3 {
		t.Fatalf("expected 3 offers, got %d", len(got))
	}
	if got[0].AccessMode != models.AccessPurchase {
		t.Errorf("buy should map to purchase, got %q", got[0].AccessMode)
	}
	if got[1].AccessMode != models.AccessRent {
		t.Errorf("rent should stay distinct, got %q", got[1].AccessMode)
	}
	if got[2].AccessMode != models.AccessPurchase {
		t.Errorf("purchase should stay purchase, got %q", got[2].AccessMode)
	}
}

func TestNormalize_EveryOutputIsCanonical(t *testing.T) {
	raw := []models.RawOffer{
		{PlatformID: 1, Type: "SUB", Region: "US", WebURL: "https://a.example"},
		{PlatformID: 2, Type: " tve ", WebURL: "https://b.example"},
		{PlatformID: 3, Type: "garbage", WebURL: "https://c.example"},
		{PlatformID: 4, Type: "free", Region: "CA", WebURL: "https://d.example"},
	}

	for _, o := range Normalize(raw, "US") {
		if o.PlatformID == 0 {
			t.Error("offer with zero platform id in output")
		}
		if !o.AccessMode.Known() {
			t.Errorf("unknown access mode %q in output", o.AccessMode)
		}
		if o.WebURL == "" {
			t.Error("offer with empty web url in output")
		}
		if o.Region != "" && o.Region != "US" {
			t.Errorf("offer with foreign region %q in output", o.Region)
		}
	}
}

func TestNormalize_EmptyAndNilInput(t *testing.T) {
	if got := Normalize(nil, "US"); len(got) != 0 {
		t.Fatalf("expected empty output for nil input, got %+v", got)
	}
	if got := Normalize([]models.RawOffer{}, "US"); len(got) != 0 {
		t.Fatalf("expected empty output for empty input, got %+v", got)
	}
}
