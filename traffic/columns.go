package traffic

import "strings"

// column identifies a canonical field resolved from a CSV header.
type column int

const (
	colID column = iota
	colTimestamp
	colEntity
	colTypeOrDir
	colInterArrival
	colService
	colSessionID
	colPeriodType
	colDayOfWeek
)

// headerAliases maps normalized header names to canonical columns. The
// annotation tool, the detection wrapper, and hand-edited spreadsheets all
// name columns slightly differently, so resolution goes through this table
// instead of trusting positions.
var headerAliases = map[string]column{
	"id":                colID,
	"time (s)":          colTimestamp,
	"timestamp":         colTimestamp,
	"time":              colTimestamp,
	"entity":            colEntity,
	"type/dir":          colTypeOrDir,
	"inter-arrival (s)": colInterArrival,
	"service time (s)":  colService,
	"session_id":        colSessionID,
	"period_type":       colPeriodType,
	"day_of_week":       colDayOfWeek,
}

// normalizeHeader lowercases, trims, and collapses internal whitespace so
// "Time  (s) " and "time (s)" resolve identically.
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// resolveColumns maps each recognized header to its index. Unrecognized
// headers are ignored; missing required columns are the caller's problem.
func resolveColumns(header []string) map[column]int {
	cols := make(map[column]int)
	for i, h := range header {
		c, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := cols[c]; !seen {
			cols[c] = i
		}
	}
	return cols
}
