package collector

import "time"

// Field names of a Record, shared with the display layer.
const (
	FieldPID         = "pid"
	FieldName        = "name"
	FieldPath        = "path"
	FieldCreateTime  = "create_time"
	FieldCores       = "cores"
	FieldCPUUsage    = "cpu_usage"
	FieldStatus      = "status"
	FieldNice        = "nice"
	FieldMemoryUsage = "memory_usage"
	FieldReadBytes   = "read_bytes"
	FieldWriteBytes  = "write_bytes"
	FieldNThreads    = "n_threads"
	FieldUsername    = "username"
)

// UnknownUser is reported when the owner of a process cannot be read.
const UnknownUser = "N/A"

// Record holds the metrics of one process at one enumeration pass.
type Record struct {
	PID         int32
	Name        string
	Path        string
	CreateTime  time.Time
	Cores       int
	CPUUsage    float64
	Status      string
	Nice        int32
	MemoryUsage uint64
	ReadBytes   uint64
	WriteBytes  uint64
	NThreads    int32
	Username    string

	// Unreadable lists the fields holding a substitute value.
	Unreadable []string
}

// Snapshot is the ordered result of one enumeration pass. It is not
// modified after Collect returns it.
type Snapshot struct {
	Taken   time.Time
	Records []Record
}

// Len returns the number of records.
func (s Snapshot) Len() int {
	return len(s.Records)
}
