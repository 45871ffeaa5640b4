package charts

import (
	"fmt"
	"io"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"sakila-dashboard/internal/geo"
	"sakila-dashboard/internal/models"
)

// RenderReport writes a standalone HTML page with the top geographies for
// metric as an ECharts bar chart. It is the printable counterpart of BuildBar.
func RenderReport(w io.Writer, view geo.View, metric models.Metric, rng models.DateRange, rows []models.AggregatedRow) error {
	top, err := TopN(rows, metric, BarLimit)
	if err != nil {
		return err
	}

	labels, values, err := columns(metric, top)
	if err != nil {
		return err
	}

	data := make([]opts.BarData, len(values))
	for i, v := range values {
		if v.IsMissing() {
			data[i] = opts.BarData{Name: labels[i], Value: nil}
			continue
		}
		data[i] = opts.BarData{Name: labels[i], Value: float64(v)}
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Sakila Payments and Rentals",
			Width:     "960px",
			Height:    "540px",
		}),
		echarts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s by %s", metric.Label(), view.KeyColumn),
			Subtitle: fmt.Sprintf("Top %d, rentals %s", BarLimit, rng.String()),
			Left:     "center",
		}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		echarts.WithXAxisOpts(opts.XAxis{Name: view.KeyColumn}),
		echarts.WithYAxisOpts(opts.YAxis{Name: metric.Label()}),
	)
	bar.SetXAxis(labels).AddSeries(metric.Label(), data)

	page := components.NewPage()
	page.PageTitle = "Sakila Payments and Rentals"
	page.AddCharts(bar)
	return page.Render(w)
}
