package traffic

// ArrivalEvent is one observed entity crossing the reference line.
// Events are value types; the pipeline never mutates a table it was given.
type ArrivalEvent struct {
	ID           int         `json:"id"`
	Timestamp    float64     `json:"timestamp_seconds"`
	EntityType   string      `json:"entity_type"`
	InterArrival float64     `json:"inter_arrival_seconds"`
	Service      ServiceTime `json:"service_time_seconds"`
	TypeOrDir    string      `json:"type_or_dir,omitempty"`
	Session      SessionMeta `json:"session,omitempty"`
}

// ServiceTime carries an optional measured duration. Vehicles in this
// dataset's convention have no service time; the annotation tool writes "-".
type ServiceTime struct {
	Seconds float64
	Valid   bool
}

// SessionMeta tags events with the observation window they came from.
// All fields are optional; single-session data leaves them empty.
type SessionMeta struct {
	SessionID  string `json:"session_id,omitempty" yaml:"session_id"`
	PeriodType string `json:"period_type,omitempty" yaml:"period_type"`
	DayOfWeek  string `json:"day_of_week,omitempty" yaml:"day_of_week"`
}

// Source describes one input CSV. EntityType, when set, substitutes for an
// Entity column: the per-type annotation exports carry one entity per file.
type Source struct {
	Path       string
	EntityType string
	Session    SessionMeta
}

// IngestSummary reports what happened during loading, so dropped rows can be
// surfaced in the final report rather than disappearing silently.
type IngestSummary struct {
	Files       []FileSummary
	TotalEvents int
}

// FileSummary is the per-file portion of an IngestSummary.
type FileSummary struct {
	Path        string
	RowsRead    int
	RowsKept    int
	RowsDropped int
}

// DroppedRows totals the rows discarded across all source files.
func (s *IngestSummary) DroppedRows() int {
	n := 0
	for _, f := range s.Files {
		n += f.RowsDropped
	}
	return n
}
