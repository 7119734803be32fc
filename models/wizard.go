package models

import "time"

// WizardStep identifies one step of the selection flow.
type WizardStep int

const (
	StepAccess WizardStep = iota + 1
	StepPlatforms
	StepSearch
)

// String returns the step name used in API payloads.
func (s WizardStep) String() string {
	switch s {
	case StepAccess:
		return "access"
	case StepPlatforms:
		return "platforms"
	case StepSearch:
		return "search"
	default:
		return "unknown"
	}
}

// ParseWizardStep maps an API step name back to a WizardStep.
func ParseWizardStep(name string) (WizardStep, bool) {
	switch name {
	case "access":
		return StepAccess, true
	case "platforms":
		return StepPlatforms, true
	case "search":
		return StepSearch, true
	default:
		return 0, false
	}
}

// WizardSnapshot is a read-only view of a wizard session, safe to encode.
type WizardSnapshot struct {
	Token       string         `json:"token"`
	Step        WizardStep     `json:"-"`
	StepName    string         `json:"step"`
	Selection   Selection      `json:"selection"`
	Query       string         `json:"query,omitempty"`
	Metadata    *TitleMetadata `json:"metadata,omitempty"`
	Candidates  []Candidate    `json:"candidates,omitempty"`
	Suggestions []Candidate    `json:"suggestions,omitempty"`
	ExpandedID  int            `json:"expandedId,omitempty"`
	Offers      GroupedOffers  `json:"offers,omitempty"`
	// PlatformOrder is the display order for Offers keys (selection order).
	PlatformOrder []int `json:"platformOrder,omitempty"`
	// SelectionError and QueryError render inline next to their controls;
	// ResultError renders in the results area.
	SelectionError string `json:"selectionError,omitempty"`
	QueryError     string `json:"queryError,omitempty"`
	ResultError    string `json:"resultError,omitempty"`
	// NoMatches is set when filters legitimately produced zero offers.
	// It is a user-actionable outcome, not an error.
	NoMatches bool      `json:"noMatches,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
