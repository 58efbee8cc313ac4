package daemon

import (
	"errors"
	"fmt"
	"time"

	"procview/internal/collector"

	"google.golang.org/protobuf/types/known/structpb"
)

const (
	keyTaken      = "taken"
	keyRecords    = "records"
	keyUnreadable = "unreadable"
)

// EncodeSnapshot converts snap into its wire form. Times travel as RFC 3339
// strings, numbers as doubles.
func EncodeSnapshot(snap collector.Snapshot) (*structpb.Struct, error) {
	records := make([]any, 0, len(snap.Records))
	for _, r := range snap.Records {
		unreadable := make([]any, len(r.Unreadable))
		for i, f := range r.Unreadable {
			unreadable[i] = f
		}
		records = append(records, map[string]any{
			collector.FieldPID:         r.PID,
			collector.FieldName:        r.Name,
			collector.FieldPath:        r.Path,
			collector.FieldCreateTime:  encodeTime(r.CreateTime),
			collector.FieldCores:       r.Cores,
			collector.FieldCPUUsage:    r.CPUUsage,
			collector.FieldStatus:      r.Status,
			collector.FieldNice:        r.Nice,
			collector.FieldMemoryUsage: r.MemoryUsage,
			collector.FieldReadBytes:   r.ReadBytes,
			collector.FieldWriteBytes:  r.WriteBytes,
			collector.FieldNThreads:    r.NThreads,
			collector.FieldUsername:    r.Username,
			keyUnreadable:              unreadable,
		})
	}
	return structpb.NewStruct(map[string]any{
		keyTaken:   encodeTime(snap.Taken),
		keyRecords: records,
	})
}

// DecodeSnapshot is the inverse of EncodeSnapshot.
func DecodeSnapshot(s *structpb.Struct) (collector.Snapshot, error) {
	var snap collector.Snapshot
	if s == nil {
		return snap, errors.New("empty snapshot message")
	}
	taken, err := decodeTime(s.GetFields()[keyTaken].GetStringValue())
	if err != nil {
		return snap, fmt.Errorf("decode %s: %w", keyTaken, err)
	}
	snap.Taken = taken

	for i, v := range s.GetFields()[keyRecords].GetListValue().GetValues() {
		f := v.GetStructValue().GetFields()
		if f == nil {
			return snap, fmt.Errorf("record %d is not an object", i)
		}
		created, err := decodeTime(f[collector.FieldCreateTime].GetStringValue())
		if err != nil {
			return snap, fmt.Errorf("record %d: decode %s: %w", i, collector.FieldCreateTime, err)
		}
		r := collector.Record{
			PID:         int32(f[collector.FieldPID].GetNumberValue()),
			Name:        f[collector.FieldName].GetStringValue(),
			Path:        f[collector.FieldPath].GetStringValue(),
			CreateTime:  created,
			Cores:       int(f[collector.FieldCores].GetNumberValue()),
			CPUUsage:    f[collector.FieldCPUUsage].GetNumberValue(),
			Status:      f[collector.FieldStatus].GetStringValue(),
			Nice:        int32(f[collector.FieldNice].GetNumberValue()),
			MemoryUsage: uint64(f[collector.FieldMemoryUsage].GetNumberValue()),
			ReadBytes:   uint64(f[collector.FieldReadBytes].GetNumberValue()),
			WriteBytes:  uint64(f[collector.FieldWriteBytes].GetNumberValue()),
			NThreads:    int32(f[collector.FieldNThreads].GetNumberValue()),
			Username:    f[collector.FieldUsername].GetStringValue(),
		}
		for _, u := range f[keyUnreadable].GetListValue().GetValues() {
			r.Unreadable = append(r.Unreadable, u.GetStringValue())
		}
		snap.Records = append(snap.Records, r)
	}
	return snap, nil
}

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
