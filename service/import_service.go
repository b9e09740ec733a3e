package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"bundle-manager/models"
)

const maxImportRows = 500

// ImportService creates bundles from a CSV file stored in Google Drive
type ImportService struct {
	drive   DriveServiceInterface
	bundles BundleServiceInterface
}

// NewImportService creates a new ImportService. drive may be nil, which disables imports.
func NewImportService(drive DriveServiceInterface, bundles BundleServiceInterface) *ImportService {
	return &ImportService{
		drive:   drive,
		bundles: bundles,
	}
}

// Enabled reports whether Drive credentials are configured
func (s *ImportService) Enabled() bool {
	return s.drive != nil
}

// ImportBundles downloads the file and creates one bundle per row.
// Row failures are reported in the result and do not stop the import.
func (s *ImportService) ImportBundles(ctx context.Context, shop string, fileID string) (*models.BulkImportResult, error) {
	if !s.Enabled() {
		return nil, ErrImportDisabled
	}
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return nil, errors.New("fileId is required")
	}

	log.Infof("📥 ImportBundles: shop=%s, fileId=%s", shop, fileID)
	name, data, err := s.drive.DownloadCSV(ctx, fileID)
	if err != nil {
		log.Errorf("❌ ImportBundles: %v", err)
		return nil, err
	}

	rows, err := ParseImportCSV(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid import file %s", name)
	}

	result := &models.BulkImportResult{
		FileID:     fileID,
		TotalRows:  len(rows),
		RowResults: make([]models.BulkImportRowResult, 0, len(rows)),
	}

	for _, row := range rows {
		rowResult := models.BulkImportRowResult{Line: row.Line, Title: row.Title}

		bundle, err := s.bundles.CreateBundle(ctx, shop, models.CreateBundleRequest{
			Title:        row.Title,
			Type:         row.Type,
			IsNewProduct: true,
		})
		if err != nil {
			rowResult.Error = err.Error()
			result.ErrorsCount++
			result.RowResults = append(result.RowResults, rowResult)
			continue
		}
		rowResult.BundleID = bundle.ID

		if row.Status != "" && models.BundleStatus(row.Status) != bundle.Status {
			err := s.bundles.UpdateBundle(ctx, shop, bundle.ID, models.UpdateBundleRequest{
				Title:  bundle.Title,
				Status: row.Status,
			})
			if err != nil {
				rowResult.Error = fmt.Sprintf("created, but status not applied: %v", err)
				result.ErrorsCount++
			}
		}

		result.InsertedCount++
		result.RowResults = append(result.RowResults, rowResult)
	}

	result.Message = fmt.Sprintf("Imported %d of %d bundles from %s", result.InsertedCount, result.TotalRows, name)
	log.Infof("🎉 ImportBundles: %s (errors=%d)", result.Message, result.ErrorsCount)
	return result, nil
}

var importTypeAliases = map[string]models.BundleType{
	"simple":           models.BundleTypeSimple,
	"infinite":         models.BundleTypeInfiniteOptions,
	"infinite options": models.BundleTypeInfiniteOptions,
	"infinite_options": models.BundleTypeInfiniteOptions,
}

// ParseImportCSV parses a file with a header row containing "title" and
// "type" columns and an optional "status" column
func ParseImportCSV(data []byte) ([]models.BulkImportRow, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("file is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}

	columns := map[string]int{}
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	titleCol, ok := columns["title"]
	if !ok {
		return nil, errors.New(`missing "title" column`)
	}
	typeCol, ok := columns["type"]
	if !ok {
		return nil, errors.New(`missing "type" column`)
	}
	statusCol, hasStatus := columns["status"]

	var rows []models.BulkImportRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}

		field := func(col int) string {
			if col < len(record) {
				return strings.TrimSpace(record[col])
			}
			return ""
		}

		row := models.BulkImportRow{
			Line:  line,
			Title: field(titleCol),
			Type:  normalizeImportType(field(typeCol)),
		}
		if hasStatus {
			row.Status = strings.ToUpper(field(statusCol))
		}
		if row.Title == "" && row.Type == "" {
			continue
		}

		rows = append(rows, row)
		if len(rows) > maxImportRows {
			return nil, errors.Errorf("too many rows, the limit is %d", maxImportRows)
		}
	}
	return rows, nil
}

func normalizeImportType(value string) string {
	if t, ok := importTypeAliases[strings.ToLower(value)]; ok {
		return string(t)
	}
	return strings.ToUpper(value)
}
