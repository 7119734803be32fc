package offers

import (
	"sort"

	"streamshelf/models"
)

// Group buckets offers by platform and orders each bucket by the fixed
// access-mode priority (subscription, free, purchase, rent, TV app). The
// sort is stable, so offers sharing a mode keep their input order. Platform
// display order is the caller's concern; see PlatformOrder.
func Group(in []models.Offer) models.GroupedOffers {
	grouped := make(models.GroupedOffers)
	for _, o := range in {
		grouped[o.PlatformID] = append(grouped[o.PlatformID], o)
	}
	for id, list := range grouped {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].AccessMode.Priority() < list[j].AccessMode.Priority()
		})
		grouped[id] = list
	}
	return grouped
}

// PlatformOrder returns platform ids in first-seen input order, giving the
// presentation layer a stable default ordering for grouped offers.
func PlatformOrder(in []models.Offer) []int {
	seen := make(map[int]bool, len(in))
	order := make([]int, 0, len(in))
	for _, o := range in {
		if !seen[o.PlatformID] {
			seen[o.PlatformID] = true
			order = append(order, o.PlatformID)
		}
	}
	return order
}
