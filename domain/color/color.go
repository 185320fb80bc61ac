// Package color provides the shared color defaults used across layout schemas.
package color

// Default palette entries.
const (
	DefaultLine = "#444"    // Axis lines, ticks and text
	LightLine   = "#eee"    // Grid lines
	Background  = "#fff"    // Plot and subplot background
	BorderLine  = "#BEC8D9" // Borders of legends and similar boxes
)

// Defaults is the trace color cycle.
var Defaults = []string{
	"#1f77b4", // muted blue
	"#ff7f0e", // safety orange
	"#2ca02c", // cooked asparagus green
	"#d62728", // brick red
	"#9467bd", // muted purple
	"#8c564b", // chestnut brown
	"#e377c2", // raspberry yogurt pink
	"#7f7f7f", // middle gray
	"#bcbd22", // curry yellow-green
	"#17becf", // blue-teal
}
