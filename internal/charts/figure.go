// Package charts builds Plotly figure documents from aggregated rows.
package charts

import "sakila-dashboard/internal/models"

// Figure is a Plotly figure: a list of traces plus a layout. It is rendered
// in the browser with Plotly.react.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`

	// choropleth
	Locations    []string       `json:"locations,omitempty"`
	Z            []models.Value `json:"z,omitempty"`
	LocationMode string         `json:"locationmode,omitempty"`
	ColorBar     *ColorBar      `json:"colorbar,omitempty"`
	ColorScale   string         `json:"colorscale,omitempty"`

	// bar
	X []string       `json:"x,omitempty"`
	Y []models.Value `json:"y,omitempty"`

	HoverTemplate string `json:"hovertemplate,omitempty"`
}

type ColorBar struct {
	Title Title `json:"title"`
}

type Layout struct {
	Title  Title   `json:"title"`
	Geo    *Geo    `json:"geo,omitempty"`
	Margin *Margin `json:"margin,omitempty"`
	XAxis  *Axis   `json:"xaxis,omitempty"`
	YAxis  *Axis   `json:"yaxis,omitempty"`
}

type Title struct {
	Text string  `json:"text"`
	X    float64 `json:"x,omitempty"`
	Font *Font   `json:"font,omitempty"`
}

type Font struct {
	Size   int    `json:"size,omitempty"`
	Weight string `json:"weight,omitempty"`
}

type Geo struct {
	Scope      string      `json:"scope"`
	Projection *Projection `json:"projection,omitempty"`
}

type Projection struct {
	Type string `json:"type"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Axis struct {
	Title Title `json:"title"`
}
