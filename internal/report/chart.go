package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"

	"agrisite/internal/database"

	chart "github.com/wcharczuk/go-chart/v2"
)

// ChartPoint is one labeled value in a chart input series.
type ChartPoint struct {
	Label string
	Value float64
}

// PieChart renders a distribution as a pie and returns it as a base64 PNG.
// Empty input (or input with no positive slice) returns "" so callers can
// omit the chart instead of failing the page.
func PieChart(title string, points []ChartPoint) (string, error) {
	values := make([]chart.Value, 0, len(points))
	for _, p := range points {
		if p.Value > 0 {
			values = append(values, chart.Value{Label: p.Label, Value: p.Value})
		}
	}
	if len(values) == 0 {
		return "", nil
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  512,
		Height: 512,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render pie chart: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// BarChart renders a categorical comparison as bars.
func BarChart(title string, points []ChartPoint) (string, error) {
	if len(points) == 0 {
		return "", nil
	}

	bars := make([]chart.Value, 0, len(points))
	for _, p := range points {
		bars = append(bars, chart.Value{Label: p.Label, Value: p.Value})
	}

	bc := chart.BarChart{
		Title:    title,
		Width:    800,
		Height:   400,
		BarWidth: 50,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render bar chart: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// LineChart renders a time series. X values are the numeric labels
// (years) in input order.
func LineChart(title string, xs []float64, ys []float64) (string, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return "", nil
	}
	// A single point cannot span an axis range; go-chart rejects it.
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}

	lc := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := lc.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render line chart: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DashboardCharts builds the five standard analysis charts. A chart whose
// underlying data is empty (or whose render fails) is left out of the map;
// the dashboard tolerates missing entries.
func DashboardCharts(f database.StatsFilter) map[string]string {
	charts := map[string]string{}

	add := func(key, img string, err error) {
		if err != nil {
			log.Printf("chart %s skipped: %v", key, err)
			return
		}
		if img != "" {
			charts[key] = img
		}
	}

	if rows, err := database.SoilDistribution(f); err == nil {
		points := make([]ChartPoint, 0, len(rows))
		for _, r := range rows {
			points = append(points, ChartPoint{Label: r.SoilType, Value: r.TotalArea})
		}
		img, err := PieChart("Land Distribution by Soil Type", points)
		add("soil_distribution", img, err)
	}

	if rows, err := database.IrrigationDistribution(f); err == nil {
		points := make([]ChartPoint, 0, len(rows))
		for _, r := range rows {
			points = append(points, ChartPoint{Label: r.SystemType, Value: float64(r.Count)})
		}
		img, err := BarChart("Irrigation System Distribution", points)
		add("irrigation_distribution", img, err)
	}

	if rows, err := database.CropProductivity(f); err == nil {
		points := make([]ChartPoint, 0, len(rows))
		for _, r := range rows {
			if r.TotalArea > 0 {
				points = append(points, ChartPoint{Label: r.CropName, Value: r.Productivity})
			}
		}
		img, err := BarChart("Crop Productivity (Yield per Hectare)", points)
		add("crop_productivity", img, err)
	}

	if rows, err := database.ProductionTrend(f); err == nil {
		xs := make([]float64, 0, len(rows))
		ys := make([]float64, 0, len(rows))
		for _, r := range rows {
			xs = append(xs, float64(r.Year))
			ys = append(ys, r.TotalYield)
		}
		img, err := LineChart("Year-wise Production Trend", xs, ys)
		add("production_trend", img, err)
	}

	if rows, err := database.OwnershipDistribution(f); err == nil {
		points := make([]ChartPoint, 0, len(rows))
		for _, r := range rows {
			points = append(points, ChartPoint{Label: r.OwnershipType, Value: r.TotalArea})
		}
		img, err := PieChart("Land Distribution by Ownership Type", points)
		add("ownership_distribution", img, err)
	}

	return charts
}
