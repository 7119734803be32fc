// Package offers implements the result pipeline that turns raw provider
// availability records into the filtered, deduplicated, grouped offer sets
// shown to the user. All functions here are pure; provider I/O stays in the
// providers package and orchestration in the search service.
package offers

import (
	"strings"

	"streamshelf/models"
)

// providerModes maps the availability provider's type strings onto internal
// access modes. The provider's legacy "buy" label is folded into purchase;
// rent stays a distinct mode because price and availability differ.
var providerModes = map[string]models.AccessMode{
	"sub":      models.AccessSubscription,
	"free":     models.AccessFree,
	"purchase": models.AccessPurchase,
	"buy":      models.AccessPurchase,
	"rent":     models.AccessRent,
	"tve":      models.AccessTVApp,
}

// Normalize validates raw provider offers into canonical ones.
//
// Records missing a platform id, access mode, or web URL are dropped, as are
// records tagged with a region other than the operating region (no region
// means global, which is retained). Unknown access modes are dropped rather
// than coerced so upstream schema drift never mis-categorizes an offer.
// Never fails; malformed input degrades to a partial or empty result.
func Normalize(raw []models.RawOffer, region string) []models.Offer {
	out := make([]models.Offer, 0, len(raw))
	for _, r := range raw {
		if r.PlatformID == 0 || strings.TrimSpace(r.WebURL) == "" {
			continue
		}
		mode, ok := providerModes[strings.ToLower(strings.TrimSpace(r.Type))]
		if !ok {
			continue
		}
		if r.Region != "" && r.Region != region {
			continue
		}
		out = append(out, models.Offer{
			PlatformID:   r.PlatformID,
			PlatformName: r.PlatformName,
			AccessMode:   mode,
			Region:       r.Region,
			WebURL:       r.WebURL,
			Price:        r.Price,
			Episodes:     r.Episodes,
			Seasons:      r.Seasons,
		})
	}
	return out
}
