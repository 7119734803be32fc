package offers

import "streamshelf/models"

// includedModes are the modes covered by the baseline "Included" label.
var includedModes = []models.AccessMode{
	models.AccessSubscription,
	models.AccessFree,
	models.AccessTVApp,
}

// paidModes are the modes the "All" label adds on top of the baseline.
var paidModes = []models.AccessMode{
	models.AccessPurchase,
	models.AccessRent,
}

// ResolveAccessModes expands user-facing access labels into the underlying
// mode set. "Included" is always part of the result regardless of the input:
// a user can add pay-per-item offers with "All" but can never hide the
// subscription/free/TV-app baseline.
func ResolveAccessModes(labels []models.AccessLabel) map[models.AccessMode]bool {
	modes := make(map[models.AccessMode]bool, len(includedModes)+len(paidModes))
	for _, m := range includedModes {
		modes[m] = true
	}
	for _, l := range labels {
		if l == models.LabelAll {
			for _, m := range paidModes {
				modes[m] = true
			}
		}
	}
	return modes
}

// FilterAndDedup keeps offers whose platform is in the selection and whose
// access mode is in the resolved label set, then drops duplicates sharing a
// (platform, access mode) pair.
//
// First-seen wins: provider output order is treated as priority order, so no
// re-sorting happens before dedup and survivors keep their relative input
// order. The function is idempotent.
func FilterAndDedup(in []models.Offer, sel models.Selection) []models.Offer {
	modes := ResolveAccessModes(sel.AccessLabels)

	platforms := make(map[int]bool, len(sel.PlatformIDs))
	for _, id := range sel.PlatformIDs {
		platforms[id] = true
	}

	type dedupKey struct {
		platform int
		mode     models.AccessMode
	}
	seen := make(map[dedupKey]bool)

	out := make([]models.Offer, 0, len(in))
	for _, o := range in {
		if !platforms[o.PlatformID] || !modes[o.AccessMode] {
			continue
		}
		key := dedupKey{o.PlatformID, o.AccessMode}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, o)
	}
	return out
}
