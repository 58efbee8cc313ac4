package table

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"procview/internal/collector"
)

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0.00B"},
		{1023, "1023.00B"},
		{1024, "1.00KB"},
		{1536, "1.50KB"},
		{1024 * 1024, "1.00MB"},
		{5 * 1024 * 1024 * 1024, "5.00GB"},
		{1 << 50, "1.00PB"},
		{1 << 60, "1.00EB"},
	}
	for _, tc := range cases {
		if got := FormatBytes(tc.in); got != tc.want {
			t.Fatalf("FormatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2023, 7, 4, 13, 5, 9, 0, time.Local)
	if got := FormatTime(ts); got != "2023-07-04 13:05:09" {
		t.Fatalf("unexpected time format %q", got)
	}
	if got := FormatTime(time.Time{}); got != "-" {
		t.Fatalf("expected dash for zero time, got %q", got)
	}
}

func syntheticSnapshot() collector.Snapshot {
	return collector.Snapshot{Records: []collector.Record{
		{PID: 11, Name: "alpha", MemoryUsage: 300, CPUUsage: 1.5, Status: "running"},
		{PID: 12, Name: "beta", MemoryUsage: 5000, CPUUsage: 0, Status: "sleeping"},
		{PID: 13, Name: "gamma", MemoryUsage: 100, CPUUsage: 7.25, Status: "sleeping"},
		{PID: 14, Name: "delta", MemoryUsage: 2048, CPUUsage: 3, Status: "running"},
		{PID: 15, Name: "epsilon", MemoryUsage: 900, CPUUsage: 0.1, Status: "zombie"},
	}}
}

func pids(v View) []int32 {
	out := make([]int32, 0, len(v.Rows))
	for _, r := range v.Rows {
		out = append(out, r.PID)
	}
	return out
}

func TestBuildTopThreeByMemoryDescending(t *testing.T) {
	view, err := Build(syntheticSnapshot(), Options{
		SortBy:     ColumnMemoryUsage,
		Descending: true,
		Columns:    []Column{ColumnName, ColumnMemoryUsage},
		Limit:      3,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := pids(view); !reflect.DeepEqual(got, []int32{12, 14, 15}) {
		t.Fatalf("unexpected order %v", got)
	}
	if got := view.Rows[0].Cells; !reflect.DeepEqual(got, []string{"beta", "4.88KB"}) {
		t.Fatalf("unexpected cells %v", got)
	}
}

func TestBuildSortDirectionsReverseDistinctKeys(t *testing.T) {
	asc, err := Build(syntheticSnapshot(), Options{SortBy: ColumnCPUUsage, Limit: 0})
	if err != nil {
		t.Fatalf("build asc: %v", err)
	}
	desc, err := Build(syntheticSnapshot(), Options{SortBy: ColumnCPUUsage, Descending: true})
	if err != nil {
		t.Fatalf("build desc: %v", err)
	}
	a, d := pids(asc), pids(desc)
	for i := range a {
		if a[i] != d[len(d)-1-i] {
			t.Fatalf("descending %v is not the reverse of ascending %v", d, a)
		}
	}
}

func TestBuildStableForEqualKeys(t *testing.T) {
	snap := syntheticSnapshot()
	asc, err := Build(snap, Options{SortBy: ColumnStatus})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := pids(asc); !reflect.DeepEqual(got, []int32{11, 14, 12, 13, 15}) {
		t.Fatalf("unexpected ascending order %v", got)
	}
	desc, err := Build(snap, Options{SortBy: ColumnStatus, Descending: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := pids(desc); !reflect.DeepEqual(got, []int32{15, 12, 13, 11, 14}) {
		t.Fatalf("equal keys must keep enumeration order, got %v", got)
	}
}

func TestBuildProjectionKeepsRequestedOrder(t *testing.T) {
	view, err := Build(syntheticSnapshot(), Options{
		Columns: []Column{ColumnStatus, ColumnPID, ColumnName},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !reflect.DeepEqual(view.Columns, []Column{ColumnStatus, ColumnName}) {
		t.Fatalf("unexpected columns %v", view.Columns)
	}
	for _, row := range view.Rows {
		if len(row.Cells) != 2 || row.PID == 0 {
			t.Fatalf("unexpected row %+v", row)
		}
	}
}

func TestBuildDefaultColumns(t *testing.T) {
	view, err := Build(syntheticSnapshot(), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !reflect.DeepEqual(view.Columns, DefaultColumns) {
		t.Fatalf("unexpected default columns %v", view.Columns)
	}
	if view.Len() != 5 {
		t.Fatalf("expected all rows, got %d", view.Len())
	}
	// ascending memory_usage by default
	if got := pids(view); !reflect.DeepEqual(got, []int32{13, 11, 15, 14, 12}) {
		t.Fatalf("unexpected default order %v", got)
	}
}

func TestBuildRejectsInvalidColumns(t *testing.T) {
	cases := []Options{
		{SortBy: "rss"},
		{Columns: []Column{ColumnName, "bogus"}},
		{Columns: []Column{ColumnName, ColumnName}},
	}
	for _, opts := range cases {
		view, err := Build(syntheticSnapshot(), opts)
		if !errors.Is(err, ErrInvalidColumn) {
			t.Fatalf("options %+v: expected ErrInvalidColumn, got %v", opts, err)
		}
		if view.Len() != 0 || view.Columns != nil {
			t.Fatalf("options %+v: expected no partial view, got %+v", opts, view)
		}
		if err := Validate(opts); !errors.Is(err, ErrInvalidColumn) {
			t.Fatalf("Validate(%+v) = %v", opts, err)
		}
	}
}

func TestBuildNameFilterIsExact(t *testing.T) {
	view, err := Build(syntheticSnapshot(), Options{Name: "alpha"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := pids(view); !reflect.DeepEqual(got, []int32{11}) {
		t.Fatalf("unexpected rows %v", got)
	}
	view, err = Build(syntheticSnapshot(), Options{Name: "alp"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if view.Len() != 0 {
		t.Fatalf("substring must not match, got %v", pids(view))
	}
}

func TestBuildNegativeLimitShowsNothing(t *testing.T) {
	view, err := Build(syntheticSnapshot(), Options{Limit: -1})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if view.Len() != 0 || view.Rows == nil {
		t.Fatalf("expected an empty, non-nil row set, got %v", view.Rows)
	}
	if !reflect.DeepEqual(view.Columns, DefaultColumns) {
		t.Fatalf("columns should still be projected, got %v", view.Columns)
	}

	if _, err := Build(syntheticSnapshot(), Options{Limit: -1, SortBy: "rss"}); !errors.Is(err, ErrInvalidColumn) {
		t.Fatalf("invalid sort key must fail even without rows, got %v", err)
	}
}

func TestBuildDoesNotMutateSnapshot(t *testing.T) {
	snap := syntheticSnapshot()
	before := append([]collector.Record(nil), snap.Records...)
	if _, err := Build(snap, Options{SortBy: ColumnName, Descending: true}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if !reflect.DeepEqual(before, snap.Records) {
		t.Fatal("snapshot records were reordered")
	}
}

func TestRenderAlignsColumns(t *testing.T) {
	view, err := Build(syntheticSnapshot(), Options{
		Columns: []Column{ColumnName, ColumnMemoryUsage},
		Limit:   2,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var buf bytes.Buffer
	if err := view.Render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %q", buf.String())
	}
	if fields := strings.Fields(lines[0]); !reflect.DeepEqual(fields, []string{"pid", "name", "memory_usage"}) {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if fields := strings.Fields(lines[1]); !reflect.DeepEqual(fields, []string{"13", "gamma", "100.00B"}) {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	for _, line := range lines[1:] {
		if len(line) != len(lines[0]) {
			t.Fatalf("rows are not aligned:\n%s", buf.String())
		}
	}
}

func TestParseColumns(t *testing.T) {
	got := ParseColumns(" name, cpu_usage,,status ")
	want := []Column{ColumnName, ColumnCPUUsage, ColumnStatus}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseColumns = %v, want %v", got, want)
	}
}
