package table

import (
	"cmp"
	"strconv"
	"strings"

	"procview/internal/collector"
)

// Column names a Record field.
type Column string

// Display columns.
const (
	ColumnPID         Column = collector.FieldPID
	ColumnName        Column = collector.FieldName
	ColumnPath        Column = collector.FieldPath
	ColumnCreateTime  Column = collector.FieldCreateTime
	ColumnCores       Column = collector.FieldCores
	ColumnCPUUsage    Column = collector.FieldCPUUsage
	ColumnStatus      Column = collector.FieldStatus
	ColumnNice        Column = collector.FieldNice
	ColumnMemoryUsage Column = collector.FieldMemoryUsage
	ColumnReadBytes   Column = collector.FieldReadBytes
	ColumnWriteBytes  Column = collector.FieldWriteBytes
	ColumnNThreads    Column = collector.FieldNThreads
	ColumnUsername    Column = collector.FieldUsername
)

// DefaultSortBy is used when Options.SortBy is empty.
const DefaultSortBy = ColumnMemoryUsage

// DefaultColumns is the projection used when none is requested.
var DefaultColumns = []Column{
	ColumnName,
	ColumnCPUUsage,
	ColumnMemoryUsage,
	ColumnReadBytes,
	ColumnWriteBytes,
	ColumnStatus,
	ColumnCreateTime,
	ColumnNice,
	ColumnNThreads,
	ColumnCores,
}

// AllColumns lists every known column in record order.
var AllColumns = []Column{
	ColumnPID,
	ColumnName,
	ColumnPath,
	ColumnCreateTime,
	ColumnCores,
	ColumnCPUUsage,
	ColumnStatus,
	ColumnNice,
	ColumnMemoryUsage,
	ColumnReadBytes,
	ColumnWriteBytes,
	ColumnNThreads,
	ColumnUsername,
}

type fieldSpec struct {
	compare func(a, b *collector.Record) int
	format  func(r *collector.Record) string
	numeric bool
}

var fields = map[Column]fieldSpec{
	ColumnPID: {
		compare: func(a, b *collector.Record) int { return cmp.Compare(a.PID, b.PID) },
		format:  func(r *collector.Record) string { return strconv.FormatInt(int64(r.PID), 10) },
		numeric: true,
	},
	ColumnName: {
		compare: func(a, b *collector.Record) int { return strings.Compare(a.Name, b.Name) },
		format:  func(r *collector.Record) string { return valueOrDash(r.Name) },
	},
	ColumnPath: {
		compare: func(a, b *collector.Record) int { return strings.Compare(a.Path, b.Path) },
		format:  func(r *collector.Record) string { return valueOrDash(r.Path) },
	},
	ColumnCreateTime: {
		compare: func(a, b *collector.Record) int { return a.CreateTime.Compare(b.CreateTime) },
		format:  func(r *collector.Record) string { return FormatTime(r.CreateTime) },
	},
	ColumnCores: {
		compare: func(a, b *collector.Record) int { return cmp.Compare(a.Cores, b.Cores) },
		format:  func(r *collector.Record) string { return strconv.Itoa(r.Cores) },
		numeric: true,
	},
	ColumnCPUUsage: {
		compare: func(a, b *collector.Record) int { return cmp.Compare(a.CPUUsage, b.CPUUsage) },
		format:  func(r *collector.Record) string { return strconv.FormatFloat(r.CPUUsage, 'f', 1, 64) },
		numeric: true,
	},
	ColumnStatus: {
		compare: func(a, b *collector.Record) int { return strings.Compare(a.Status, b.Status) },
		format:  func(r *collector.Record) string { return valueOrDash(r.Status) },
	},
	ColumnNice: {
		compare: func(a, b *collector.Record) int { return cmp.Compare(a.Nice, b.Nice) },
		format:  func(r *collector.Record) string { return strconv.FormatInt(int64(r.Nice), 10) },
		numeric: true,
	},
	ColumnMemoryUsage: {
		compare: func(a, b *collector.Record) int { return cmp.Compare(a.MemoryUsage, b.MemoryUsage) },
		format:  func(r *collector.Record) string { return FormatBytes(r.MemoryUsage) },
		numeric: true,
	},
	ColumnReadBytes: {
		compare: func(a, b *collector.Record) int { return cmp.Compare(a.ReadBytes, b.ReadBytes) },
		format:  func(r *collector.Record) string { return FormatBytes(r.ReadBytes) },
		numeric: true,
	},
	ColumnWriteBytes: {
		compare: func(a, b *collector.Record) int { return cmp.Compare(a.WriteBytes, b.WriteBytes) },
		format:  func(r *collector.Record) string { return FormatBytes(r.WriteBytes) },
		numeric: true,
	},
	ColumnNThreads: {
		compare: func(a, b *collector.Record) int { return cmp.Compare(a.NThreads, b.NThreads) },
		format:  func(r *collector.Record) string { return strconv.FormatInt(int64(r.NThreads), 10) },
		numeric: true,
	},
	ColumnUsername: {
		compare: func(a, b *collector.Record) int { return strings.Compare(a.Username, b.Username) },
		format:  func(r *collector.Record) string { return valueOrDash(r.Username) },
	},
}

// ParseColumns splits a comma separated column list. Blank entries are
// dropped; names are not validated here.
func ParseColumns(list string) []Column {
	var cols []Column
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cols = append(cols, Column(part))
	}
	return cols
}

// Known reports whether c names a record field.
func Known(c Column) bool {
	_, ok := fields[c]
	return ok
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
