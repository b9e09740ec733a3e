package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundle-manager/models"
)

type fakeDrive struct {
	name string
	data []byte
	err  error
}

func (d *fakeDrive) DownloadCSV(_ context.Context, _ string) (string, []byte, error) {
	return d.name, d.data, d.err
}

func TestParseImportCSV(t *testing.T) {
	data := []byte("\xef\xbb\xbfTitle, Type ,Status\n" +
		"Summer kit,simple,draft\n" +
		"\"Build, a box\",Infinite Options,\n" +
		",,\n" +
		"Odd one,bogus\n")

	rows, err := ParseImportCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.BulkImportRow{Line: 2, Title: "Summer kit", Type: "SIMPLE", Status: "DRAFT"}, rows[0])
	assert.Equal(t, "Build, a box", rows[1].Title)
	assert.Equal(t, "INFINITE_OPTIONS", rows[1].Type)
	assert.Equal(t, "", rows[1].Status)
	assert.Equal(t, 5, rows[2].Line)
	assert.Equal(t, "BOGUS", rows[2].Type)
}

func TestParseImportCSVRequiresColumns(t *testing.T) {
	_, err := ParseImportCSV([]byte("name,type\nx,simple\n"))
	assert.Error(t, err)

	_, err = ParseImportCSV(nil)
	assert.Error(t, err)
}

func TestImportBundles(t *testing.T) {
	f := newFixture(t)
	ids := []string{"b1", "b2"}
	f.service.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	drive := &fakeDrive{name: "bundles.csv", data: []byte("title,type,status\nSummer kit,SIMPLE,DRAFT\nBroken,BOGUS,\nBox,INFINITE_OPTIONS,\n")}
	importer := NewImportService(drive, f.service)

	result, err := importer.ImportBundles(context.Background(), testShop, "file-1")
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.InsertedCount)
	assert.Equal(t, 1, result.ErrorsCount)
	assert.Equal(t, "Invalid bundle type provided", result.RowResults[1].Error)
	assert.Equal(t, models.BundleStatusDraft, f.bundles.bundles["b1"].Status)
	assert.Equal(t, models.BundleStatusActive, f.bundles.bundles["b2"].Status)
}

func TestImportBundlesDisabled(t *testing.T) {
	f := newFixture(t)
	importer := NewImportService(nil, f.service)

	_, err := importer.ImportBundles(context.Background(), testShop, "file-1")
	assert.ErrorIs(t, err, ErrImportDisabled)
}

func TestImportBundlesDownloadError(t *testing.T) {
	f := newFixture(t)
	importer := NewImportService(&fakeDrive{err: errors.New("forbidden")}, f.service)

	_, err := importer.ImportBundles(context.Background(), testShop, "file-1")
	assert.EqualError(t, err, "forbidden")
}
