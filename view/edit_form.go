package view

import (
	"net/url"

	"bundle-manager/models"
)

// Build options of the bundle assembly section
const (
	BuildOptionQuick  = "quick"
	BuildOptionManual = "manual"
)

// Option is a radio button choice
type Option struct {
	Value    string
	Label    string
	HelpText string
}

// BuildOptions are the bundle assembly choices
var BuildOptions = []Option{
	{Value: BuildOptionQuick, Label: "Quickly build using existing product variants", HelpText: "Most popular"},
	{Value: BuildOptionManual, Label: "Manually build by creating new product options for high customization"},
}

// StatusOptions are the statuses offered by the edit form, one per bundle status
var StatusOptions = []Option{
	{Value: string(models.BundleStatusActive), Label: "Active"},
	{Value: string(models.BundleStatusInactive), Label: "Inactive"},
	{Value: string(models.BundleStatusDraft), Label: "Draft"},
}

// EditForm holds the editable fields of the detail page and the values they were loaded with
type EditForm struct {
	Title       string
	Price       string
	BuildOption string
	Status      string

	loadedTitle  string
	loadedPrice  string
	loadedStatus string
}

// NewEditForm initializes the form from a loaded bundle
func NewEditForm(detail *models.BundleDetail) EditForm {
	return EditForm{
		Title:        detail.Title,
		Price:        detail.Price,
		BuildOption:  BuildOptionQuick,
		Status:       string(detail.Status),
		loadedTitle:  detail.Title,
		loadedPrice:  detail.Price,
		loadedStatus: string(detail.Status),
	}
}

// Apply overwrites the fields present in submitted form values
func (f EditForm) Apply(values url.Values) EditForm {
	if _, ok := values["title"]; ok {
		f.Title = values.Get("title")
	}
	if _, ok := values["price"]; ok {
		f.Price = values.Get("price")
	}
	if v := values.Get("buildOption"); v != "" {
		f.BuildOption = v
	}
	if v := values.Get("status"); v != "" {
		f.Status = v
	}
	return f
}

// HasChanges reports whether title, price or status differ from the loaded values.
// The build option is not persisted and never counts as a change.
func (f EditForm) HasChanges() bool {
	return f.Title != f.loadedTitle ||
		f.Price != f.loadedPrice ||
		f.Status != f.loadedStatus
}

// Request converts the form to an update request
func (f EditForm) Request() models.UpdateBundleRequest {
	return models.UpdateBundleRequest{
		Title:       f.Title,
		Price:       f.Price,
		BuildOption: f.BuildOption,
		Status:      f.Status,
	}
}
