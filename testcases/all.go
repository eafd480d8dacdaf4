package testcases

// All contains all scenarios, grouped by category.
// The category name is used as a prefix in exported file names.
var All = map[string][]Scenario{
	"order":     orderCases,
	"scale":     scaleCases,
	"nodata":    nodataCases,
	"transform": transformCases,
	"bands":     bandCases,
}
