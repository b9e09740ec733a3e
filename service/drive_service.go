package service

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	mimeGoogleSheet = "application/vnd.google-apps.spreadsheet"
	mimeCSV         = "text/csv"

	maxImportFileSize = 5 << 20
)

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

var _ DriveServiceInterface = (*DriveService)(nil)

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string) (*DriveService, error) {
	driveService, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create drive service")
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// DownloadCSV downloads a CSV file, or exports a spreadsheet as CSV
func (ds *DriveService) DownloadCSV(ctx context.Context, fileID string) (string, []byte, error) {
	file, err := ds.client.Files.Get(fileID).Fields("id, name, mimeType, size").Context(ctx).Do()
	if err != nil {
		return "", nil, errors.Wrapf(err, "failed to get file %s", fileID)
	}
	if file.Size > maxImportFileSize {
		return "", nil, errors.Errorf("file %s is too large (%d bytes)", file.Name, file.Size)
	}

	var body io.ReadCloser
	switch {
	case file.MimeType == mimeGoogleSheet:
		log.Infof("📄 Exporting spreadsheet %s (%s) as CSV", file.Name, fileID)
		resp, err := ds.client.Files.Export(fileID, mimeCSV).Context(ctx).Download()
		if err != nil {
			return "", nil, errors.Wrapf(err, "failed to export file %s", fileID)
		}
		body = resp.Body
	case strings.HasPrefix(file.MimeType, "text/") || strings.HasSuffix(strings.ToLower(file.Name), ".csv"):
		resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
		if err != nil {
			return "", nil, errors.Wrapf(err, "failed to download file %s", fileID)
		}
		body = resp.Body
	default:
		return "", nil, errors.Errorf("file %s has unsupported type %s", file.Name, file.MimeType)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxImportFileSize+1))
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to read file data")
	}
	if len(data) > maxImportFileSize {
		return "", nil, errors.Errorf("file %s is too large", file.Name)
	}

	log.Infof("✓ Downloaded %s (%d bytes)", file.Name, len(data))
	return file.Name, data, nil
}
