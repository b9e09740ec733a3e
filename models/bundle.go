package models

import "time"

// BundleType is the kind of bundle: a fixed set of products or a
// customer-configurable set
type BundleType string

const (
	BundleTypeSimple          BundleType = "SIMPLE"
	BundleTypeInfiniteOptions BundleType = "INFINITE_OPTIONS"
)

// Valid reports whether t is one of the known bundle types
func (t BundleType) Valid() bool {
	return t == BundleTypeSimple || t == BundleTypeInfiniteOptions
}

// BundleStatus is the publication status of a bundle
type BundleStatus string

const (
	BundleStatusActive   BundleStatus = "ACTIVE"
	BundleStatusInactive BundleStatus = "INACTIVE"
	BundleStatusDraft    BundleStatus = "DRAFT"
)

// Valid reports whether s is one of the known bundle statuses
func (s BundleStatus) Valid() bool {
	switch s {
	case BundleStatusActive, BundleStatusInactive, BundleStatusDraft:
		return true
	}
	return false
}

// Bundle represents a row of the "Bundle" table
type Bundle struct {
	ID        string       `json:"id"`
	Shop      string       `json:"shop"`
	Title     string       `json:"title"`
	Type      BundleType   `json:"type"`
	ProductID string       `json:"productId"`
	Status    BundleStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// BundleItem represents a row of the "BundleItem" table
type BundleItem struct {
	ID        string `json:"id"`
	BundleID  string `json:"bundleId"`
	ProductID string `json:"productId"`
}

// BundleSummary is a bundle as shown in the bundle list
type BundleSummary struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Type         BundleType   `json:"type"`
	Status       BundleStatus `json:"status"`
	ProductID    string       `json:"productId"`
	ProductCount int          `json:"productCount"`
	// Price is nil until it is fetched from the platform
	Price *string `json:"price"`
}

// BundleItemView is a bundle item resolved against the platform catalog
type BundleItemView struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Price     string `json:"price,omitempty"`
	Variant   string `json:"variant,omitempty"`
}

// BundleDetail is the data of the bundle detail page
type BundleDetail struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Type           BundleType       `json:"type"`
	Status         BundleStatus     `json:"status"`
	ProductID      string           `json:"productId"`
	VariantID      string           `json:"variantId,omitempty"`
	Price          string           `json:"price"`
	SuggestedPrice string           `json:"suggestedPrice,omitempty"`
	Items          []BundleItemView `json:"items"`
}

// BundleUpdate holds the fields overwritten by an update
type BundleUpdate struct {
	Title  string
	Status BundleStatus
}

// CreateBundleRequest represents the create_bundle form submission
type CreateBundleRequest struct {
	Title        string `form:"title" validate:"required,max=255"`
	Type         string `form:"type" validate:"required"`
	IsNewProduct bool   `form:"isNewProduct"`
}

// UpdateBundleRequest represents the update_bundle form submission.
// Empty Title and Status keep the stored values; an empty Price leaves the variant untouched.
type UpdateBundleRequest struct {
	Title       string `form:"title" validate:"max=255"`
	Price       string `form:"price"`
	BuildOption string `form:"buildOption" validate:"omitempty,oneof=quick manual"`
	Status      string `form:"status"`
}

// CreateBundleResponse is the JSON response of the create_bundle action
type CreateBundleResponse struct {
	Success bool    `json:"success,omitempty"`
	Bundle  *Bundle `json:"bundle,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// UpdateBundleResponse is the JSON response of the update_bundle action
type UpdateBundleResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
