package view

import (
	"strings"

	"bundle-manager/models"
)

// TypeOption is one choice of the "Choose bundle type" dialog
type TypeOption struct {
	Type        models.BundleType
	Heading     string
	Description string
	ButtonLabel string
	Primary     bool
}

// TypeOptions lists the bundle types a merchant can create
var TypeOptions = []TypeOption{
	{
		Type:        models.BundleTypeSimple,
		Heading:     "Simple Bundle",
		Description: "Create a bundle with a fixed set of products. Customers cannot customize the products in this bundle.",
		ButtonLabel: "Create Simple Bundle",
		Primary:     true,
	},
	{
		Type:        models.BundleTypeInfiniteOptions,
		Heading:     "Infinite Options Bundle",
		Description: "Create a customizable bundle that allows customers to mix and match products from predefined collections.",
		ButtonLabel: "Create Infinite Options Bundle",
	},
}

// CreateDialog is the title prompt shown after a bundle type was picked
type CreateDialog struct {
	Type         models.BundleType
	IsNewProduct bool
	Title        string
}

// NewCreateDialog returns the dialog for a type. New products are the default.
func NewCreateDialog(t models.BundleType) CreateDialog {
	return CreateDialog{Type: t, IsNewProduct: true}
}

// Heading is the dialog title
func (d CreateDialog) Heading() string {
	if d.Type == models.BundleTypeSimple {
		return "Create simple bundle"
	}
	return "Create infinite options bundle"
}

func (d CreateDialog) HelpText() string {
	if d.IsNewProduct {
		return "A new product will be created and used as your bundle."
	}
	return "An existing product will be used as your bundle."
}

// CanSubmit reports whether the Create action is enabled
func (d CreateDialog) CanSubmit() bool {
	return strings.TrimSpace(d.Title) != ""
}
