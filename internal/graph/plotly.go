package graph

// PlotlyDoc is a figure in the shape plotly.js expects for Plotly.newPlot.
type PlotlyDoc struct {
	Data   []map[string]any `json:"data"`
	Layout map[string]any   `json:"layout"`
}

// Plotly converts the figure into scatter traces plus a layout object.
func (f *Figure) Plotly() *PlotlyDoc {
	doc := &PlotlyDoc{Data: make([]map[string]any, 0, len(f.Layers))}

	for _, l := range f.Layers {
		switch l := l.(type) {
		case *EdgeLayer:
			doc.Data = append(doc.Data, map[string]any{
				"type":      "scatter",
				"x":         l.X,
				"y":         l.Y,
				"mode":      "lines",
				"hoverinfo": "text",
				"text":      l.Text,
				"opacity":   l.Opacity,
				"line":      map[string]any{"width": l.Width, "color": l.Color},
			})
		case *NodeLayer:
			doc.Data = append(doc.Data, map[string]any{
				"type":      "scatter",
				"x":         l.X,
				"y":         l.Y,
				"mode":      "markers",
				"hoverinfo": "text",
				"text":      l.Text,
				"marker": map[string]any{
					"showscale":    true,
					"colorscale":   l.ColorScale,
					"reversescale": false,
					"color":        l.Degree,
					"opacity":      l.Opacity,
					"size":         l.Size,
					"line":         map[string]any{"color": "white", "width": l.LineWidth},
					"colorbar": map[string]any{
						"thickness": 15,
						"xanchor":   "left",
						"title":     map[string]any{"text": l.ColorbarTitle, "side": "right"},
					},
				},
			})
		case *EdgeLabelLayer:
			doc.Data = append(doc.Data, map[string]any{
				"type":      "scatter",
				"x":         l.X,
				"y":         l.Y,
				"mode":      "markers",
				"hoverinfo": "text",
				"text":      l.Text,
				"marker":    map[string]any{"opacity": 0},
			})
		}
	}

	axis := map[string]any{"showgrid": f.ShowAxes, "zeroline": f.ShowAxes, "showticklabels": f.ShowAxes}
	annotations := make([]map[string]any, 0, len(f.Annotations))
	for _, a := range f.Annotations {
		annotations = append(annotations, map[string]any{
			"text":      a.Text,
			"showarrow": false,
			"xref":      "paper",
			"yref":      "paper",
			"x":         a.X,
			"y":         a.Y,
		})
	}
	doc.Layout = map[string]any{
		"title":       map[string]any{"text": f.Title, "font": map[string]any{"size": 20}},
		"showlegend":  f.ShowLegend,
		"hovermode":   f.HoverMode,
		"margin":      map[string]any{"b": 20, "l": 5, "r": 5, "t": 40},
		"annotations": annotations,
		"xaxis":       axis,
		"yaxis":       axis,
	}
	return doc
}
