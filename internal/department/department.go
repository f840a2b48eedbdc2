// Package department defines the municipal departments an issue report can
// be routed to.
package department

import "strings"

// Department identifies the unit a report is routed to. The zero value means
// the department has not been decided yet.
type Department string

const (
	None    Department = ""
	Traffic Department = "traffic"
	Waste   Department = "waste"
	Energy  Department = "energy"
)

// All lists the routable departments in classification priority order.
var All = []Department{Traffic, Waste, Energy}

type info struct {
	label      string
	reportName string
	noun       string
}

var catalog = map[Department]info{
	Traffic: {label: "Traffic", reportName: "traffic", noun: "traffic"},
	Waste:   {label: "Waste Management", reportName: "waste", noun: "waste"},
	Energy:  {label: "Green Energy & Spaces", reportName: "green_energy", noun: "green energy"},
}

// Valid reports whether d is one of the routable departments.
func (d Department) Valid() bool {
	_, ok := catalog[d]
	return ok
}

// Label returns the display-cased name used by the classify API.
func (d Department) Label() string {
	if i, ok := catalog[d]; ok {
		return i.label
	}
	return "Unknown"
}

// ReportName is the department name written on submitted reports.
func (d Department) ReportName() string {
	return catalog[d].reportName
}

// Noun is the department name as it reads inside a sentence.
func (d Department) Noun() string {
	return catalog[d].noun
}

// Labels returns the display labels of all departments.
func Labels() []string {
	out := make([]string, 0, len(All))
	for _, d := range All {
		out = append(out, d.Label())
	}
	return out
}

// Parse maps a code, a legacy "<code>_dept" value or a report name back to a
// Department. Unknown input yields None.
func Parse(s string) Department {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "_dept")
	for _, d := range All {
		if s == string(d) || s == d.ReportName() {
			return d
		}
	}
	return None
}
