package view

import "bundle-manager/models"

// Badge tones
const (
	ToneInfo      = "info"
	ToneSuccess   = "success"
	ToneWarning   = "warning"
	ToneAttention = "attention"
	ToneCritical  = "critical"
	ToneNeutral   = ""
)

// Badge is a short colored label
type Badge struct {
	Label string
	Tone  string
}

// TypeBadge returns the list badge of a bundle type. Unknown types show their raw value.
func TypeBadge(t models.BundleType) Badge {
	switch t {
	case models.BundleTypeSimple:
		return Badge{Label: "Simple", Tone: ToneInfo}
	case models.BundleTypeInfiniteOptions:
		return Badge{Label: "Infinite Options", Tone: ToneSuccess}
	default:
		return Badge{Label: string(t), Tone: ToneNeutral}
	}
}

// StatusBadge returns the list badge of a bundle status. Unknown statuses show their raw value.
func StatusBadge(s models.BundleStatus) Badge {
	switch s {
	case models.BundleStatusActive:
		return Badge{Label: "Active", Tone: ToneSuccess}
	case models.BundleStatusInactive:
		return Badge{Label: "Inactive", Tone: ToneWarning}
	case models.BundleStatusDraft:
		return Badge{Label: "Draft", Tone: ToneAttention}
	default:
		return Badge{Label: string(s), Tone: ToneNeutral}
	}
}

// DetailStatusBadge is the badge next to the detail page title: anything but ACTIVE reads as Draft
func DetailStatusBadge(s models.BundleStatus) Badge {
	if s == models.BundleStatusActive {
		return Badge{Label: "Active", Tone: ToneSuccess}
	}
	return Badge{Label: "Draft", Tone: ToneInfo}
}
