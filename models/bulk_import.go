package models

// BulkImportRow is one parsed line of a bundle import file
type BulkImportRow struct {
	Line  int
	Title string
	Type  string
	// Status is applied after creation when it is not ACTIVE
	Status string
}

// BulkImportRowResult is the outcome of importing one row
type BulkImportRowResult struct {
	Line     int    `json:"line"`
	Title    string `json:"title"`
	BundleID string `json:"bundleId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BulkImportResult summarizes a bulk import
type BulkImportResult struct {
	FileID        string                `json:"fileId"`
	TotalRows     int                   `json:"totalRows"`
	InsertedCount int                   `json:"insertedCount"`
	ErrorsCount   int                   `json:"errorsCount"`
	Message       string                `json:"message"`
	RowResults    []BulkImportRowResult `json:"rowResults,omitempty"`
}
