package traffic

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// MergeSessions merges per-type annotation exports from one observation
// window into a single normalized table tagged with session metadata, and
// writes it to outPath. The in-memory table is returned for further analysis.
func MergeSessions(sources []Source, meta SessionMeta, outPath string) ([]ArrivalEvent, *IngestSummary, error) {
	tagged := make([]Source, len(sources))
	for i, src := range sources {
		src.Session = meta
		tagged[i] = src
	}

	events, summary, err := LoadAndNormalize(tagged)
	if err != nil {
		return nil, nil, err
	}
	if err := WriteCSV(events, outPath); err != nil {
		return nil, nil, err
	}
	return events, summary, nil
}

// CombineSessions stacks previously merged session files into one master
// table, ordered by session then time. Inter-arrival times are rebuilt per
// (session, entity type) so each window keeps its own first-arrival zero.
func CombineSessions(paths []string, outPath string) ([]ArrivalEvent, *IngestSummary, error) {
	sources := make([]Source, len(paths))
	for i, p := range paths {
		sources[i] = Source{Path: p}
	}

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
		return nil, nil, &EmptyInputError{Files: paths}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Session.SessionID != events[j].Session.SessionID {
			return events[i].Session.SessionID < events[j].Session.SessionID
		}
		return events[i].Timestamp < events[j].Timestamp
	})

	lastSeen := make(map[string]float64)
	for i := range events {
		key := events[i].Session.SessionID + "\x00" + events[i].EntityType
		if prev, ok := lastSeen[key]; ok {
			events[i].InterArrival = events[i].Timestamp - prev
		} else {
			events[i].InterArrival = 0
		}
		lastSeen[key] = events[i].Timestamp
		events[i].ID = i + 1
	}
	summary.TotalEvents = len(events)

	if err := WriteCSV(events, outPath); err != nil {
		return nil, nil, err
	}
	return events, summary, nil
}

// WriteCSV writes a normalized table back out in the annotation tool's
// column convention. Session metadata columns are included only when at
// least one event carries them.
func WriteCSV(events []ArrivalEvent, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	withSession := false
	for _, ev := range events {
		if ev.Session != (SessionMeta{}) {
			withSession = true
			break
		}
	}

	w := csv.NewWriter(f)
	header := []string{"ID"}
	if withSession {
		header = append(header, "Session_ID", "Period_Type", "Day_of_Week")
	}
	header = append(header, "Entity", "Type/Dir", "Time (s)", "Inter-Arrival (s)", "Service Time (s)")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	for _, ev := range events {
		row := []string{strconv.Itoa(ev.ID)}
		if withSession {
			row = append(row, ev.Session.SessionID, ev.Session.PeriodType, ev.Session.DayOfWeek)
		}
		service := "-"
		if ev.Service.Valid {
			service = strconv.FormatFloat(ev.Service.Seconds, 'f', 1, 64)
		}
		row = append(row,
			ev.EntityType,
			ev.TypeOrDir,
			strconv.FormatFloat(ev.Timestamp, 'f', 1, 64),
			strconv.FormatFloat(ev.InterArrival, 'f', 1, 64),
			service,
		)
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
