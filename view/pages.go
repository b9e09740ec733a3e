package view

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/pkg/errors"

	"bundle-manager/models"
	"bundle-manager/utils"
)

// Page template names
const (
	PageDashboard    = "dashboard.html"
	PageBundles      = "bundles.html"
	PageBundleDetail = "bundle_detail.html"
	PageExport       = "export.html"
)

const productAdminURL = "https://admin.shopify.com/products/"

//go:embed templates/*.html
var templateFS embed.FS

var (
	apiKey string
	pages  = parsePages()
)

// SetAPIKey sets the app key the embedded pages identify themselves with
func SetAPIKey(key string) {
	apiKey = key
}

func parsePages() map[string]*template.Template {
	funcs := template.FuncMap{
		"apiKey": func() string { return apiKey },
	}
	parsed := map[string]*template.Template{}
	for _, name := range []string{PageDashboard, PageBundles, PageBundleDetail} {
		parsed[name] = template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	// The export document is printed on its own, without the admin chrome
	parsed[PageExport] = template.Must(template.New(PageExport).ParseFS(templateFS, "templates/"+PageExport))
	return parsed
}

// Render executes a page template. Output is buffered so a failing template writes nothing.
func Render(w io.Writer, page string, data interface{}) error {
	tmpl, ok := pages[page]
	if !ok {
		return errors.Errorf("unknown page %s", page)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return errors.Wrapf(err, "failed to execute template %s", page)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Banner is a dismissable message at the top of a page
type Banner struct {
	Tone    string
	Title   string
	Message string
}

// BundleRow is one row of the bundle table
type BundleRow struct {
	models.BundleSummary
	TypeBadge   Badge
	StatusBadge Badge
	PriceLabel  string
}

func newBundleRows(bundles []models.BundleSummary) []BundleRow {
	rows := make([]BundleRow, 0, len(bundles))
	for _, b := range bundles {
		price := "-"
		if b.Price != nil && *b.Price != "" {
			price = utils.FormatPrice(*b.Price)
		}
		rows = append(rows, BundleRow{
			BundleSummary: b,
			TypeBadge:     TypeBadge(b.Type),
			StatusBadge:   StatusBadge(b.Status),
			PriceLabel:    price,
		})
	}
	return rows
}

// TabView is a tab with the rows it shows
type TabView struct {
	Tab
	Selected bool
	Rows     []BundleRow
}

// ListPage is the data of the bundle list page
type ListPage struct {
	Tabs          []TabView
	Total         int
	Banner        *Banner
	LoadError     bool
	TypeOptions   []TypeOption
	Dialogs       []CreateDialog
	ImportEnabled bool
}

// NewListPage builds every tab from one loaded list, so switching tabs needs no reload
func NewListPage(bundles []models.BundleSummary, selectedTab string) *ListPage {
	selected := TabIndex(selectedTab)
	page := &ListPage{
		Total:       len(bundles),
		TypeOptions: TypeOptions,
	}
	for i, tab := range Tabs {
		page.Tabs = append(page.Tabs, TabView{
			Tab:      tab,
			Selected: i == selected,
			Rows:     newBundleRows(FilterByTab(bundles, tab.ID)),
		})
	}
	for _, opt := range TypeOptions {
		page.Dialogs = append(page.Dialogs, NewCreateDialog(opt.Type))
	}
	return page
}

// NewListErrorPage is the list page shown when bundles could not be loaded
func NewListErrorPage() *ListPage {
	page := NewListPage(nil, TabAll)
	page.LoadError = true
	page.Banner = &Banner{
		Tone:    ToneCritical,
		Title:   "Bundles could not be loaded",
		Message: "Please reload the page. If the problem persists, contact support.",
	}
	return page
}

// CreatedBanner is shown after a successful create_bundle action
func CreatedBanner() *Banner {
	return &Banner{Tone: ToneSuccess, Title: "Bundle created successfully"}
}

// CreateErrorBanner is shown after a failed create_bundle action
func CreateErrorBanner(message string) *Banner {
	return &Banner{Tone: ToneCritical, Title: "There was an error creating the bundle", Message: message}
}

// DetailPage is the data of the bundle detail page
type DetailPage struct {
	Bundle        *models.BundleDetail
	EditMode      bool
	Form          EditForm
	Heading       string
	StatusBadge   Badge
	AdminURL      string
	HeroImage     string
	BuildOptions  []Option
	StatusOptions []Option
	Banner        *Banner
}

// NewDetailPage builds the detail page; editMode is the mode=edit query flag
func NewDetailPage(detail *models.BundleDetail, editMode bool) *DetailPage {
	page := &DetailPage{
		Bundle:        detail,
		EditMode:      editMode,
		Form:          NewEditForm(detail),
		Heading:       detail.Title,
		StatusBadge:   DetailStatusBadge(detail.Status),
		AdminURL:      productAdminURL + detail.ProductID,
		HeroImage:     PlaceholderImage,
		BuildOptions:  BuildOptions,
		StatusOptions: StatusOptions,
	}
	if editMode {
		page.Heading = "Editing: " + detail.Title
	}
	if len(detail.Items) > 0 && detail.Items[0].ImageURL != "" {
		page.HeroImage = detail.Items[0].ImageURL
	}
	return page
}

// CanSave reports whether the Save action is enabled
func (p *DetailPage) CanSave() bool {
	return p.EditMode && p.Form.HasChanges()
}

// PlaceholderImage is shown when a bundle has no product image
const PlaceholderImage = "https://cdn.shopify.com/s/files/1/0757/9955/files/empty-state.svg"

// DashboardPage is the data of the app home page
type DashboardPage struct {
	Shop   string
	Banner *Banner
}

// ExportPage is the printable bundle list
type ExportPage struct {
	Shop        string
	GeneratedAt string
	Rows        []BundleRow
}

// NewExportPage builds the printable list of all bundles
func NewExportPage(shop string, bundles []models.BundleSummary, now time.Time) *ExportPage {
	return &ExportPage{
		Shop:        shop,
		GeneratedAt: now.Format("2006-01-02 15:04 MST"),
		Rows:        newBundleRows(bundles),
	}
}
