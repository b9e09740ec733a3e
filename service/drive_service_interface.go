package service

import "context"

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	// DownloadCSV returns the file name and its content as CSV.
	// Google Sheets documents are exported to CSV.
	DownloadCSV(ctx context.Context, fileID string) (string, []byte, error)
}
