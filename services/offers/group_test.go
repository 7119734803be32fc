package offers

import (
	"reflect"
	"testing"

	"streamshelf/models"
)

func TestGroup_ModePriorityWithinPlatform(t *testing.T) {
	in := []models.Offer{
		offer(203, models.AccessPurchase, "https://buy.example"),
		offer(203, models.AccessSubscription, "https://sub.example"),
		offer(203, models.AccessFree, "https://free.example"),
	}

	grouped := Group(in)
	list := grouped[203]
	if len(list) != 3 {
		t.Fatalf("expected 3 offers for platform 203, got %d", len(list))
	}

	want := []models.AccessMode{models.AccessSubscription, models.AccessFree, models.AccessPurchase}
	for i, mode := range want {
		if list[i].AccessMode != mode {
			t.Errorf("position %d: expected %q, got %q", i, mode, list[i].AccessMode)
		}
	}
}

func TestGroup_FullModeOrder(t *testing.T) {
	in := []models.Offer{
		offer(1, models.AccessTVApp, "https://a.example"),
		offer(1, models.AccessRent, "https://b.example"),
		offer(1, models.AccessPurchase, "https://c.example"),
		offer(1, models.AccessFree, "https://d.example"),
		offer(1, models.AccessSubscription, "https://e.example"),
	}

	list := Group(in)[1]
	want := []models.AccessMode{
		models.AccessSubscription,
		models.AccessFree,
		models.AccessPurchase,
		models.AccessRent,
		models.AccessTVApp,
	}
	for i, mode := range want {
		if list[i].AccessMode != mode {
			t.Errorf("position %d: expected %q, got %q", i, mode, list[i].AccessMode)
		}
	}
}

func TestGroup_StableForEqualModes(t *testing.T) {
	in := []models.Offer{
		offer(1, models.AccessRent, "https://hd.example"),
		offer(1, models.AccessRent, "https://sd.example"),
		offer(1, models.AccessSubscription, "https://sub.example"),
	}

	list := Group(in)[1]
	if list[1].WebURL != "https://hd.example" || list[2].WebURL != "https://sd.example" {
		t.Fatalf("equal-mode offers lost input order: %+v", list)
	}
}

func TestGroup_SplitsByPlatform(t *testing.T) {
	in := []models.Offer{
		offer(1, models.AccessSubscription, "https://a.example"),
		offer(2, models.AccessFree, "https://b.example"),
		offer(1, models.AccessFree, "https://c.example"),
	}

	grouped := Group(in)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(grouped))
	}
	if len(grouped[1]) != 2 || len(grouped[2]) != 1 {
		t.Fatalf("unexpected bucket sizes: %+v", grouped)
	}
}

func TestPlatformOrder_FirstSeen(t *testing.T) {
	in := []models.Offer{
		offer(26, models.AccessFree, "https://a.example"),
		offer(203, models.AccessSubscription, "https://b.example"),
		offer(26, models.AccessSubscription, "https://c.example"),
		offer(372, models.AccessTVApp, "https://d.example"),
	}

	if got, want := PlatformOrder(in), []int{26, 203, 372}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
