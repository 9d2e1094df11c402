package traffic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAndNormalizeMergesDirections(t *testing.T) {
	// Two per-direction exports. After merging, inter-arrivals must be
	// recomputed per entity type over the merged timeline, not carried over
	// from the source files.
	eb := writeFile(t, "eb.csv", `ID,Time (s),Inter-Arrival (s)
1,10.0,0.0
2,40.0,30.0
`)
	wb := writeFile(t, "wb.csv", `ID,Time (s),Inter-Arrival (s)
1,25.0,0.0
2,55.0,30.0
`)

	events, summary, err := LoadAndNormalize([]Source{
		{Path: eb, EntityType: "EB Vehicles"},
		{Path: wb, EntityType: "WB Vehicles"},
	})
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, 4, summary.TotalEvents)

	// Chronological order with fresh IDs.
	for i, want := range []float64{10, 25, 40, 55} {
		assert.Equal(t, want, events[i].Timestamp)
		assert.Equal(t, i+1, events[i].ID)
	}

	// Each direction keeps its own inter-arrival chain.
	assert.Equal(t, 0.0, events[0].InterArrival)  // first EB
	assert.Equal(t, 0.0, events[1].InterArrival)  // first WB
	assert.Equal(t, 30.0, events[2].InterArrival) // EB: 40-10
	assert.Equal(t, 30.0, events[3].InterArrival) // WB: 55-25
}

func TestLoadAndNormalizeOrderInvariant(t *testing.T) {
	eb := writeFile(t, "eb.csv", "ID,Time (s)\n1,5\n2,10\n3,16\n")
	wb := writeFile(t, "wb.csv", "ID,Time (s)\n1,3\n2,12\n3,20\n")
	ebSrc := Source{Path: eb, EntityType: "EB Vehicles"}
	wbSrc := Source{Path: wb, EntityType: "WB Vehicles"}

	forward, _, err := LoadAndNormalize([]Source{ebSrc, wbSrc})
	require.NoError(t, err)
	reversed, _, err := LoadAndNormalize([]Source{wbSrc, ebSrc})
	require.NoError(t, err)

	require.Len(t, forward, 6)
	assert.Equal(t, forward, reversed)

	var timestamps, interArrivals []float64
	for _, ev := range forward {
		timestamps = append(timestamps, ev.Timestamp)
		interArrivals = append(interArrivals, ev.InterArrival)
	}
	assert.Equal(t, []float64{3, 5, 10, 12, 16, 20}, timestamps)
	// EB chain [0,5,6] and WB chain [0,9,8], interleaved chronologically.
	assert.Equal(t, []float64{0, 0, 5, 9, 6, 8}, interArrivals)
}

func TestLoadAndNormalizeEntityColumnOverridesSource(t *testing.T) {
	path := writeFile(t, "mixed.csv", `ID,Entity,Time (s)
1,Crossers,5.0
2,Posers,9.0
`)

	events, _, err := LoadAndNormalize([]Source{{Path: path}})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Crossers", events[0].EntityType)
	assert.Equal(t, "Posers", events[1].EntityType)
}

func TestLoadAndNormalizeDropsUnparseableRows(t *testing.T) {
	path := writeFile(t, "typos.csv", `ID,Time (s)
1,10.0
2,oops
3,30.0
`)

	events, summary, err := LoadAndNormalize([]Source{{Path: path, EntityType: "Crossers"}})
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, 1, summary.DroppedRows())
	require.Len(t, summary.Files, 1)
	assert.Equal(t, 3, summary.Files[0].RowsRead)
	assert.Equal(t, 2, summary.Files[0].RowsKept)
}

func TestLoadAndNormalizeServiceTimes(t *testing.T) {
	path := writeFile(t, "service.csv", `ID,Time (s),Service Time (s)
1,0.0,-
2,10.0,45.5
3,20.0,
`)

	events, _, err := LoadAndNormalize([]Source{{Path: path, EntityType: "Posers"}})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.False(t, events[0].Service.Valid)
	assert.True(t, events[1].Service.Valid)
	assert.Equal(t, 45.5, events[1].Service.Seconds)
	assert.False(t, events[2].Service.Valid)
}

func TestLoadAndNormalizeSessionColumns(t *testing.T) {
	path := writeFile(t, "session.csv", `ID,Session_ID,Period_Type,Day_of_Week,Entity,Time (s)
1,01,Morning Peak,Monday,Crossers,5.0
`)

	events, _, err := LoadAndNormalize([]Source{{Path: path}})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, SessionMeta{SessionID: "01", PeriodType: "Morning Peak", DayOfWeek: "Monday"}, events[0].Session)
}

func TestLoadAndNormalizeErrors(t *testing.T) {
	t.Run("missing timestamp column", func(t *testing.T) {
		path := writeFile(t, "bad.csv", "ID,Entity\n1,Crossers\n")
		_, _, err := LoadAndNormalize([]Source{{Path: path}})
		var me *MalformedInputError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, path, me.File)
	})

	t.Run("no entity column and no entity type", func(t *testing.T) {
		path := writeFile(t, "bad.csv", "ID,Time (s)\n1,5.0\n")
		_, _, err := LoadAndNormalize([]Source{{Path: path}})
		var me *MalformedInputError
		require.ErrorAs(t, err, &me)
	})

	t.Run("all rows unparseable", func(t *testing.T) {
		path := writeFile(t, "bad.csv", "ID,Time (s)\n1,x\n2,y\n")
		_, _, err := LoadAndNormalize([]Source{{Path: path, EntityType: "Crossers"}})
		var me *MalformedInputError
		require.ErrorAs(t, err, &me)
		assert.Contains(t, me.Error(), "all rows unparseable")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "empty.csv", "")
		_, _, err := LoadAndNormalize([]Source{{Path: path, EntityType: "Crossers"}})
		var me *MalformedInputError
		require.ErrorAs(t, err, &me)
	})

	t.Run("header only", func(t *testing.T) {
		path := writeFile(t, "headeronly.csv", "ID,Time (s)\n")
		_, _, err := LoadAndNormalize([]Source{{Path: path, EntityType: "Crossers"}})
		var ee *EmptyInputError
		require.ErrorAs(t, err, &ee)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadAndNormalize([]Source{{Path: "/no/such/file.csv", EntityType: "Crossers"}})
		assert.Error(t, err)
	})
}

func TestResolveColumnsAliases(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		col    column
	}{
		{"canonical", []string{"Time (s)"}, colTimestamp},
		{"uppercase", []string{"TIMESTAMP"}, colTimestamp},
		{"padded", []string{"  time  "}, colTimestamp},
		{"collapsed spaces", []string{"Time   (s)"}, colTimestamp},
		{"entity", []string{"Entity"}, colEntity},
		{"type or dir", []string{"Type/Dir"}, colTypeOrDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := resolveColumns(tt.header)
			idx, ok := cols[tt.col]
			require.True(t, ok)
			assert.Equal(t, 0, idx)
		})
	}

	// First occurrence wins for duplicate headers.
	cols := resolveColumns([]string{"Time (s)", "timestamp"})
	assert.Equal(t, 0, cols[colTimestamp])
}

func TestParseServiceTime(t *testing.T) {
	assert.Equal(t, ServiceTime{}, parseServiceTime("-"))
	assert.Equal(t, ServiceTime{}, parseServiceTime(""))
	assert.Equal(t, ServiceTime{}, parseServiceTime("n/a"))
	assert.Equal(t, ServiceTime{Seconds: 12.5, Valid: true}, parseServiceTime(" 12.5 "))
}

func TestNormalizeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 50).Draw(t, "events")
		entities := []string{"EB Vehicles", "WB Vehicles", "Crossers"}

		events := make([]ArrivalEvent, n)
		for i := range events {
			events[i] = ArrivalEvent{
				Timestamp:  rapid.Float64Range(0, 10000).Draw(t, "ts"),
				EntityType: rapid.SampledFrom(entities).Draw(t, "entity"),
			}
		}

		Normalize(events)

		lastSeen := make(map[string]float64)
		for i, ev := range events {
			if ev.ID != i+1 {
				t.Fatalf("event %d has ID %d", i, ev.ID)
			}
			if i > 0 && events[i-1].Timestamp > ev.Timestamp {
				t.Fatalf("events out of order at %d", i)
			}
			prev, seen := lastSeen[ev.EntityType]
			if !seen && ev.InterArrival != 0 {
				t.Fatalf("first %s event has inter-arrival %g", ev.EntityType, ev.InterArrival)
			}
			if seen && ev.InterArrival != ev.Timestamp-prev {
				t.Fatalf("inter-arrival mismatch at %d: got %g want %g", i, ev.InterArrival, ev.Timestamp-prev)
			}
			lastSeen[ev.EntityType] = ev.Timestamp
		}

		// Idempotence: a second pass changes nothing.
		before := make([]ArrivalEvent, len(events))
		copy(before, events)
		Normalize(events)
		for i := range events {
			if events[i] != before[i] {
				t.Fatalf("second normalize changed event %d", i)
			}
		}
	})
}
