package report

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"agrisite/internal/database"
	"agrisite/internal/models"
	"agrisite/internal/utils"

	"codeberg.org/go-pdf/fpdf"
)

// Report document types served by the download endpoint.
const (
	ReportSummary       = "summary"
	ReportLand          = "land_analysis"
	ReportCrop          = "crop_analysis"
	ReportIrrigation    = "irrigation_analysis"
	ReportComprehensive = "comprehensive"
)

// Recommendations appended to every comprehensive report.
var Recommendations = []string{
	"Consider expanding high-revenue crop cultivation",
	"Optimize irrigation systems for better water efficiency",
	"Implement soil health improvement programs",
	"Explore diversification of crop patterns",
	"Invest in modern agricultural technologies",
}

// Available reports whether PDF generation can be used. DISABLE_PDF=true
// forces the tabular fallback path; callers must degrade, not fail.
func Available() bool {
	return os.Getenv("DISABLE_PDF") != "true"
}

// ReportFilename embeds the report type and the current date.
func ReportFilename(reportType string) string {
	return fmt.Sprintf("agriculture_report_%s_%s.pdf", reportType, time.Now().Format("20060102"))
}

// SectionTitles lists the section headings a report type produces, in
// order. An unknown type produces the single invalid-type notice.
func SectionTitles(reportType string) []string {
	switch reportType {
	case ReportSummary:
		return []string{"Executive Summary"}
	case ReportLand:
		return []string{"Land Holding Analysis"}
	case ReportCrop:
		return []string{"Crop Productivity Analysis"}
	case ReportIrrigation:
		return []string{"Irrigation System Analysis"}
	case ReportComprehensive:
		return []string{
			"Executive Summary",
			"Land Holding Analysis",
			"Crop Productivity Analysis",
			"Irrigation System Analysis",
			"Recommendations",
		}
	default:
		return []string{"Invalid report type selected."}
	}
}

type docBuilder struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocBuilder(title string) *docBuilder {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	b := &docBuilder{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(46, 125, 50)
	pdf.CellFormat(0, 12, b.tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "Generated on: "+time.Now().Format("January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(6)
	return b
}

func (b *docBuilder) heading(text string) {
	b.pdf.Ln(4)
	b.pdf.SetFont("Helvetica", "B", 14)
	b.pdf.SetTextColor(27, 94, 32)
	b.pdf.CellFormat(0, 10, b.tr(text), "", 1, "L", false, 0, "")
	b.pdf.SetTextColor(0, 0, 0)
}

func (b *docBuilder) line(text string) {
	b.pdf.SetFont("Helvetica", "", 10)
	b.pdf.CellFormat(0, 7, b.tr(text), "", 1, "L", false, 0, "")
}

func (b *docBuilder) table(header []string, rows [][]string) {
	if len(header) == 0 {
		return
	}
	colWidth := 190.0 / float64(len(header))

	b.pdf.SetFont("Helvetica", "B", 9)
	b.pdf.SetFillColor(76, 175, 80)
	b.pdf.SetTextColor(255, 255, 255)
	for _, h := range header {
		b.pdf.CellFormat(colWidth, 8, b.tr(h), "1", 0, "C", true, 0, "")
	}
	b.pdf.Ln(-1)

	b.pdf.SetFont("Helvetica", "", 9)
	b.pdf.SetFillColor(241, 248, 233)
	b.pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		for _, cell := range row {
			b.pdf.CellFormat(colWidth, 7, b.tr(cell), "1", 0, "C", true, 0, "")
		}
		b.pdf.Ln(-1)
	}
}

func (b *docBuilder) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildAnalysisReport assembles a titled, sectioned PDF for the requested
// report type. An unknown type still yields a valid document carrying a
// single notice line, matching the soft-fail contract of the report page.
func BuildAnalysisReport(reportType string) ([]byte, error) {
	b := newDocBuilder("Agricultural Analysis Report - " + titleCase(reportType))

	var err error
	switch reportType {
	case ReportSummary:
		err = b.summarySection()
	case ReportLand:
		err = b.landSection()
	case ReportCrop:
		err = b.cropSection()
	case ReportIrrigation:
		err = b.irrigationSection()
	case ReportComprehensive:
		for _, fn := range []func() error{b.summarySection, b.landSection, b.cropSection, b.irrigationSection} {
			if err = fn(); err != nil {
				break
			}
		}
		if err == nil {
			b.heading("Recommendations")
			for _, rec := range Recommendations {
				b.line("- " + rec)
			}
		}
	default:
		b.line("Invalid report type selected.")
	}
	if err != nil {
		return nil, err
	}
	return b.output()
}

func (b *docBuilder) summarySection() error {
	overview, err := database.GlobalOverview()
	if err != nil {
		return err
	}
	revenue, err := database.TotalRevenue(database.StatsFilter{})
	if err != nil {
		return err
	}

	b.heading("Executive Summary")
	b.table(
		[]string{"Metric", "Value"},
		[][]string{
			{"Total Land Holders", utils.Thousands(float64(overview.TotalLandHolders), 0)},
			{"Total Land Parcels", utils.Thousands(float64(overview.TotalParcels), 0)},
			{"Total Cultivated Area", utils.Area(overview.TotalCultivatedArea) + " hectares"},
			{"Total Revenue Generated", utils.Currency(revenue)},
		},
	)
	return nil
}

func (b *docBuilder) landSection() error {
	rows, err := database.OwnershipDistribution(database.StatsFilter{})
	if err != nil {
		return err
	}

	b.heading("Land Holding Analysis")
	if len(rows) == 0 {
		b.line("No land holding data available.")
		return nil
	}

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.OwnershipType,
			utils.Thousands(float64(r.HolderCount), 0),
			utils.Thousands(float64(r.ParcelCount), 0),
			utils.Area(r.TotalArea),
		})
	}
	b.table([]string{"Ownership Type", "Holders", "Parcels", "Total Land Area (ha)"}, data)
	return nil
}

func (b *docBuilder) cropSection() error {
	rows, err := database.CropProductivity(database.StatsFilter{})
	if err != nil {
		return err
	}
	if len(rows) > 10 {
		rows = rows[:10]
	}

	b.heading("Crop Productivity Analysis")
	if len(rows) == 0 {
		b.line("No crop data available.")
		return nil
	}

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.CropName,
			utils.Area(r.TotalArea),
			utils.Area(r.TotalYield),
			utils.Currency(r.TotalRevenue),
		})
	}
	b.table([]string{"Crop Name", "Area (ha)", "Total Yield (t)", "Revenue"}, data)
	return nil
}

func (b *docBuilder) irrigationSection() error {
	rows, err := database.IrrigationDistribution(database.StatsFilter{})
	if err != nil {
		return err
	}

	b.heading("Irrigation System Analysis")
	if len(rows) == 0 {
		b.line("No irrigation data available.")
		return nil
	}

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.SystemType,
			utils.Thousands(float64(r.Count), 0),
			utils.Percent(r.AvgEfficiency),
			utils.Thousands(r.AvgWaterUsage, 0) + " m3",
		})
	}
	b.table([]string{"System Type", "Count", "Avg Efficiency", "Avg Water Usage"}, data)
	return nil
}

// BuildParcelReport renders the one-parcel detail document.
func BuildParcelReport(parcel models.LandParcel, holderName, regionName string) ([]byte, error) {
	b := newDocBuilder("Land Parcel Report - " + parcel.ParcelID)
	b.table(
		[]string{"Field", "Value"},
		parcelRows(parcel, holderName, regionName),
	)
	return b.output()
}

// ParcelFallbackTable is the CSV/Excel stand-in for the parcel document
// when PDF generation is unavailable.
func ParcelFallbackTable(parcel models.LandParcel, holderName, regionName string) Table {
	return Table{
		Name:   "parcel_" + parcel.ParcelID + "_report",
		Header: []string{"Field", "Value"},
		Rows:   parcelRows(parcel, holderName, regionName),
	}
}

func parcelRows(parcel models.LandParcel, holderName, regionName string) [][]string {
	if regionName == "" {
		regionName = "N/A"
	}
	return [][]string{
		{"Parcel ID", parcel.ParcelID},
		{"Total Area", utils.Area(parcel.TotalArea) + " hectares"},
		{"Cultivated Area", utils.Area(parcel.CultivatedArea) + " hectares"},
		{"Cultivation Percentage", utils.Percent(parcel.CultivationPercentage())},
		{"Soil Type", parcel.SoilType},
		{"Land Holder", holderName},
		{"Region", regionName},
	}
}

func titleCase(s string) string {
	out := []rune(s)
	up := true
	for i, c := range out {
		switch {
		case c == '_':
			out[i] = ' '
			up = true
		case up && c >= 'a' && c <= 'z':
			out[i] = c - 32
			up = false
		default:
			up = false
		}
	}
	return string(out)
}
