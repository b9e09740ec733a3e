package view

import "bundle-manager/models"

// Tab ids
const (
	TabAll      = "all"
	TabSimple   = "simple"
	TabInfinite = "infinite"
)

// Tab is one filter tab of the bundle list
type Tab struct {
	ID    string
	Label string
}

// Tabs are the bundle list tabs in display order
var Tabs = []Tab{
	{ID: TabAll, Label: "All"},
	{ID: TabSimple, Label: "Simple Bundles"},
	{ID: TabInfinite, Label: "Infinite Options Bundles"},
}

// TabIndex returns the position of a tab id; unknown ids select the first tab
func TabIndex(id string) int {
	for i, tab := range Tabs {
		if tab.ID == id {
			return i
		}
	}
	return 0
}

// FilterByTab returns the bundles shown under a tab, in list order
func FilterByTab(bundles []models.BundleSummary, tabID string) []models.BundleSummary {
	var want models.BundleType
	switch tabID {
	case TabSimple:
		want = models.BundleTypeSimple
	case TabInfinite:
		want = models.BundleTypeInfiniteOptions
	default:
		return bundles
	}

	filtered := make([]models.BundleSummary, 0, len(bundles))
	for _, b := range bundles {
		if b.Type == want {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
