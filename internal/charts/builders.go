package charts

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"sakila-dashboard/internal/geo"
	"sakila-dashboard/internal/models"
)

// BarLimit is how many geographies the bar chart shows.
const BarLimit = 10

// BuildMap returns a choropleth of metric keyed by each row's geography key.
func BuildMap(view geo.View, metric models.Metric, rows []models.AggregatedRow) (Figure, error) {
	if err := metric.Validate(); err != nil {
		return Figure{}, err
	}

	locations, values, err := columns(metric, rows)
	if err != nil {
		return Figure{}, err
	}

	trace := Trace{
		Type:         "choropleth",
		Locations:    locations,
		Z:            values,
		LocationMode: view.LocationMode,
		ColorScale:   "Plasma",
		ColorBar:     &ColorBar{Title: Title{Text: string(metric)}},

		HoverTemplate: "%{location}<br>" + metric.Label() + ": %{z}<extra></extra>",
	}

	layout := Layout{
		Title: Title{
			Text: fmt.Sprintf("%s by %s", metric.Label(), view.KeyColumn),
			X:    0.5,
			Font: &Font{Size: 20, Weight: "bold"},
		},
		Geo: &Geo{Scope: view.Scope},
	}
	if view.Name == geo.World.Name {
		layout.Geo.Projection = &Projection{Type: "natural earth"}
		layout.Margin = &Margin{L: 50, R: 50, T: 50, B: 50}
	}

	return Figure{Data: []Trace{trace}, Layout: layout}, nil
}

// BuildBar returns a bar chart of the BarLimit geographies with the highest
// metric value.
func BuildBar(view geo.View, metric models.Metric, rows []models.AggregatedRow) (Figure, error) {
	top, err := TopN(rows, metric, BarLimit)
	if err != nil {
		return Figure{}, err
	}

	labels, values, err := columns(metric, top)
	if err != nil {
		return Figure{}, err
	}

	trace := Trace{
		Type:          "bar",
		X:             labels,
		Y:             values,
		HoverTemplate: "%{x}<br>" + metric.Label() + ": %{y}<extra></extra>",
	}

	layout := Layout{
		XAxis: &Axis{Title: Title{Text: view.KeyColumn}},
		YAxis: &Axis{Title: Title{Text: string(metric)}},
	}

	return Figure{Data: []Trace{trace}, Layout: layout}, nil
}

// TopN sorts a copy of rows by metric, highest first, and keeps the first n.
// Ties keep their input order and missing values sort last.
func TopN(rows []models.AggregatedRow, metric models.Metric, n int) ([]models.AggregatedRow, error) {
	if err := metric.Validate(); err != nil {
		return nil, err
	}

	type ranked struct {
		row   models.AggregatedRow
		value float64
	}

	items := make([]ranked, len(rows))
	for i, row := range rows {
		v, err := metric.Of(row)
		if err != nil {
			return nil, err
		}
		items[i] = ranked{row: row, value: v}
	}

	slices.SortStableFunc(items, func(a, b ranked) int {
		aNaN, bNaN := math.IsNaN(a.value), math.IsNaN(b.value)
		switch {
		case aNaN && bNaN:
			return 0
		case aNaN:
			return 1
		case bNaN:
			return -1
		}
		return cmp.Compare(b.value, a.value)
	})

	if n >= 0 && len(items) > n {
		items = items[:n]
	}

	out := make([]models.AggregatedRow, len(items))
	for i, it := range items {
		out[i] = it.row
	}
	return out, nil
}

func columns(metric models.Metric, rows []models.AggregatedRow) ([]string, []models.Value, error) {
	keys := make([]string, len(rows))
	values := make([]models.Value, len(rows))
	for i, row := range rows {
		v, err := metric.Of(row)
		if err != nil {
			return nil, nil, err
		}
		keys[i] = row.GeoKey
		values[i] = models.Value(v)
	}
	return keys, values, nil
}
