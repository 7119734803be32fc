package models

// AccessMode is the commercial relationship between a viewer and an offer.
// Values mirror the short labels the availability provider uses on the wire.
type AccessMode string

const (
	AccessSubscription AccessMode = "sub"      // included with a subscription
	AccessFree         AccessMode = "free"     // free, usually ad-supported
	AccessPurchase     AccessMode = "purchase" // pay-per-item buy
	AccessRent         AccessMode = "rent"     // pay-per-item rental
	AccessTVApp        AccessMode = "tve"      // TV-provider app login
)

// AccessLabel is a user-facing toggle that expands to one or more access modes.
type AccessLabel string

const (
	// LabelIncluded covers everything a user can watch without paying per
	// title. It is the baseline and can never be deselected.
	LabelIncluded AccessLabel = "Included"
	// LabelAll additionally surfaces pay-per-item offers.
	LabelAll AccessLabel = "All"
)

// modePriority is the canonical within-platform display order.
var modePriority = map[AccessMode]int{
	AccessSubscription: 0,
	AccessFree:         1,
	AccessPurchase:     2,
	AccessRent:         3,
	AccessTVApp:        4,
}

// Priority returns the display rank of the mode. Unknown modes sort last.
func (m AccessMode) Priority() int {
	if p, ok := modePriority[m]; ok {
		return p
	}
	return len(modePriority)
}

// Known reports whether the mode is one of the enumerated access modes.
func (m AccessMode) Known() bool {
	_, ok := modePriority[m]
	return ok
}

// RawOffer is an availability record exactly as the provider returned it.
// Consumed once by the normalizer; nothing downstream sees it.
type RawOffer struct {
	PlatformID   int      `json:"source_id"`
	PlatformName string   `json:"name"`
	Type         string   `json:"type"`
	Region       string   `json:"region,omitempty"`
	WebURL       string   `json:"web_url"`
	Price        *float64 `json:"price,omitempty"`
	Episodes     int      `json:"episodes,omitempty"`
	Seasons      int      `json:"seasons,omitempty"`
}

// Offer is a validated, region-filtered streaming offer. Required fields are
// guaranteed present and AccessMode is guaranteed to be a known mode.
type Offer struct {
	PlatformID   int        `json:"platformId"`
	PlatformName string     `json:"platformName,omitempty"`
	AccessMode   AccessMode `json:"accessMode"`
	Region       string     `json:"region,omitempty"`
	WebURL       string     `json:"webUrl"`
	Price        *float64   `json:"price,omitempty"`
	Episodes     int        `json:"episodes,omitempty"`
	Seasons      int        `json:"seasons,omitempty"`
}

// Selection is the user's committed platform and access-label choices.
type Selection struct {
	PlatformIDs  []int         `json:"platformIds"`
	AccessLabels []AccessLabel `json:"accessLabels"`
}

// HasPlatform reports whether the platform id is part of the selection.
func (s Selection) HasPlatform(id int) bool {
	for _, p := range s.PlatformIDs {
		if p == id {
			return true
		}
	}
	return false
}

// GroupedOffers maps a platform id to its ordered, deduplicated offers.
type GroupedOffers map[int][]Offer
