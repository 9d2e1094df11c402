package traffic

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
)

// LoadAndNormalize reads every source CSV, tags rows with their entity type,
// merges everything into one chronologically sorted table, recomputes
// inter-arrival times per entity type, and reassigns sequential IDs.
//
// Source files carry their own inter-arrival columns, but those are only
// valid before merging, so they are never trusted: the invariant
// interArrival[k] == timestamp[k] - timestamp[k-1] (per entity type, 0 for
// the first event) is rebuilt from scratch here.
//
// Rows with a non-numeric timestamp are dropped with a warning. The data is
// hand-annotated and the occasional typo is expected; only a file where
// nothing parses is fatal.
func LoadAndNormalize(sources []Source) ([]ArrivalEvent, *IngestSummary, error) {
	summary := &IngestSummary{}
	var events []ArrivalEvent

	for _, src := range sources {
		fileEvents, fs, err := loadFile(src)
		if err != nil {
			return nil, nil, err
		}
		summary.Files = append(summary.Files, fs)
		events = append(events, fileEvents...)
	}

	if len(events) == 0 {
		files := make([]string, len(sources))
		for i, src := range sources {
			files[i] = src.Path
		}
		return nil, nil, &EmptyInputError{Files: files}
	}

	Normalize(events)
	summary.TotalEvents = len(events)
	return events, summary, nil
}

// Normalize sorts events chronologically (stable, so ties keep source file
// and row order), recomputes inter-arrival times per entity type, and
// reassigns IDs 1..N. It is idempotent: normalizing an already-normalized
// table is a no-op apart from the pass itself.
func Normalize(events []ArrivalEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
	recomputeInterArrivals(events)
	for i := range events {
		events[i].ID = i + 1
	}
}

func recomputeInterArrivals(events []ArrivalEvent) {
	lastSeen := make(map[string]float64)
	for i := range events {
		key := events[i].EntityType
		if prev, ok := lastSeen[key]; ok {
			events[i].InterArrival = events[i].Timestamp - prev
		} else {
			events[i].InterArrival = 0
		}
		lastSeen[key] = events[i].Timestamp
	}
}

func loadFile(src Source) ([]ArrivalEvent, FileSummary, error) {
	fs := FileSummary{Path: src.Path}

	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fs, fmt.Errorf("failed to open %s: %w", src.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fs, &MalformedInputError{File: src.Path, Reason: "file is empty"}
	}
	if err != nil {
		return nil, fs, fmt.Errorf("failed to read header of %s: %w", src.Path, err)
	}

	cols := resolveColumns(header)
	if _, ok := cols[colTimestamp]; !ok {
		return nil, fs, &MalformedInputError{File: src.Path, Reason: "no timestamp column (tried \"Time (s)\", \"timestamp\", \"time\")"}
	}
	if _, ok := cols[colEntity]; !ok && src.EntityType == "" {
		return nil, fs, &MalformedInputError{File: src.Path, Reason: "no Entity column and no entity type supplied for the file"}
	}

	var events []ArrivalEvent
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fs, fmt.Errorf("failed to read %s: %w", src.Path, err)
		}
		fs.RowsRead++

		ev, ok := parseRow(record, cols, src)
		if !ok {
			fs.RowsDropped++
			log.Printf("warning: %s row %d: unparseable timestamp, row dropped", src.Path, fs.RowsRead)
			continue
		}
		fs.RowsKept++
		events = append(events, ev)
	}

	if fs.RowsRead > 0 && fs.RowsKept == 0 {
		return nil, fs, &MalformedInputError{File: src.Path, Reason: "all rows unparseable"}
	}
	return events, fs, nil
}

func parseRow(record []string, cols map[column]int, src Source) (ArrivalEvent, bool) {
	ts, ok := floatField(record, cols, colTimestamp)
	if !ok {
		return ArrivalEvent{}, false
	}

	ev := ArrivalEvent{
		Timestamp:  ts,
		EntityType: src.EntityType,
		Session:    src.Session,
	}
	if v := stringField(record, cols, colEntity); v != "" {
		ev.EntityType = v
	}
	if ev.EntityType == "" {
		return ArrivalEvent{}, false
	}
	ev.TypeOrDir = stringField(record, cols, colTypeOrDir)
	ev.Service = parseServiceTime(stringField(record, cols, colService))

	if v := stringField(record, cols, colSessionID); v != "" {
		ev.Session.SessionID = v
	}
	if v := stringField(record, cols, colPeriodType); v != "" {
		ev.Session.PeriodType = v
	}
	if v := stringField(record, cols, colDayOfWeek); v != "" {
		ev.Session.DayOfWeek = v
	}
	return ev, true
}

// parseServiceTime treats "-" (and blank) as the not-applicable sentinel the
// annotation tool writes for instantaneous-arrival types.
func parseServiceTime(raw string) ServiceTime {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return ServiceTime{}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ServiceTime{}
	}
	return ServiceTime{Seconds: v, Valid: true}
}

func stringField(record []string, cols map[column]int, c column) string {
	i, ok := cols[c]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func floatField(record []string, cols map[column]int, c column) (float64, bool) {
	raw := stringField(record, cols, c)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
