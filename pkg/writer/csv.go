// Package writer serializes event logs to delimited text, the single
// wire format downstream consumers accept, and reads them back for
// verification.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/traceforge/traceforge/internal/model"
	tferrors "github.com/traceforge/traceforge/pkg/errors"
)

// TimestampLayout preserves the 10µs resolution of generated clocks.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Header lists all output columns in order. The final four are the
// process-mining consumer's expected aliases of case_id, activity,
// timestamp, and resource; populating them identically is a hard
// compatibility contract.
var Header = []string{
	"case_id",
	"activity",
	"timestamp",
	"resource",
	"workflow_type",
	"business_process",
	"process_stage",
	"stage_description",
	"pid",
	"tid",
	"file_path",
	"operation_category",
	"duration_ms",
	"result",
	"is_bottleneck",
	"bottleneck_type",
	"event_quality",
	"anomaly_score",
	"case:concept:name",
	"concept:name",
	"time:timestamp",
	"org:resource",
}

// Write serializes the event log as CSV with a header row.
func Write(w io.Writer, events []model.Event) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return tferrors.Wrap(err, tferrors.CodeWriteFailed, "write header")
	}

	row := make([]string, len(Header))
	for i := range events {
		e := &events[i]
		ts := e.Timestamp.Format(TimestampLayout)
		row[0] = e.CaseID
		row[1] = e.Activity
		row[2] = ts
		row[3] = e.Resource
		row[4] = e.WorkflowType
		row[5] = e.BusinessProcess
		row[6] = e.Stage
		row[7] = e.StageDescription
		row[8] = strconv.Itoa(e.PID)
		row[9] = strconv.Itoa(e.TID)
		row[10] = e.FilePath
		row[11] = e.Category.String()
		row[12] = strconv.FormatFloat(e.DurationMS, 'f', 2, 64)
		row[13] = string(e.Result)
		row[14] = strconv.FormatBool(e.IsBottleneck)
		row[15] = e.BottleneckType
		row[16] = string(e.Quality)
		row[17] = strconv.FormatFloat(e.AnomalyScore, 'f', 2, 64)
		row[18] = e.CaseID
		row[19] = e.Activity
		row[20] = ts
		row[21] = e.Resource
		if err := cw.Write(row); err != nil {
			return tferrors.Wrap(err, tferrors.CodeWriteFailed, "write row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return tferrors.Wrap(err, tferrors.CodeWriteFailed, "flush")
	}
	return nil
}

// Filename builds the run's output filename, embedding the event count
// and a generation timestamp.
func Filename(prefix string, eventCount int, at time.Time) string {
	return fmt.Sprintf("%s_%d_events_%s.csv", prefix, eventCount, at.Format("20060102_150405"))
}

// WriteFile serializes the log to dir using the standard filename and
// returns the full path.
func WriteFile(dir, prefix string, events []model.Event) (string, error) {
	path := filepath.Join(dir, Filename(prefix, len(events), time.Now()))

	f, err := os.Create(path)
	if err != nil {
		return "", tferrors.Wrap(err, tferrors.CodeWriteFailed, "create output file").
			WithContext("path", path)
	}
	defer f.Close()

	if err := Write(f, events); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", tferrors.Wrap(err, tferrors.CodeWriteFailed, "close output file").
			WithContext("path", path)
	}
	return path, nil
}

// Read parses a previously written log back into events. It is the
// verification path for round-trip checks and the non-SQL inspect
// fallback; it expects exactly the schema Write produces.
func Read(r io.Reader) ([]model.Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		return nil, tferrors.Wrap(err, tferrors.CodeReadFailed, "read header")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range Header {
		if _, ok := col[name]; !ok {
			return nil, tferrors.New(tferrors.CodeReadFailed, "missing column").
				WithContext("column", name)
		}
	}

	var events []model.Event
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, tferrors.Wrap(err, tferrors.CodeReadFailed, "read row").
				WithContext("line", line)
		}

		e, err := parseRow(rec, col)
		if err != nil {
			return nil, tferrors.Wrap(err, tferrors.CodeReadFailed, "parse row").
				WithContext("line", line)
		}
		events = append(events, e)
	}
	return events, nil
}

// ReadFile parses the log at path.
func ReadFile(path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, tferrors.Wrap(err, tferrors.CodeReadFailed, "open log").
			WithContext("path", path)
	}
	defer f.Close()
	return Read(f)
}

func parseRow(rec []string, col map[string]int) (model.Event, error) {
	var e model.Event
	var err error

	e.Timestamp, err = time.Parse(TimestampLayout, rec[col["timestamp"]])
	if err != nil {
		return e, err
	}
	e.PID, err = strconv.Atoi(rec[col["pid"]])
	if err != nil {
		return e, err
	}
	e.TID, err = strconv.Atoi(rec[col["tid"]])
	if err != nil {
		return e, err
	}
	e.DurationMS, err = strconv.ParseFloat(rec[col["duration_ms"]], 64)
	if err != nil {
		return e, err
	}
	e.IsBottleneck, err = strconv.ParseBool(rec[col["is_bottleneck"]])
	if err != nil {
		return e, err
	}
	e.AnomalyScore, err = strconv.ParseFloat(rec[col["anomaly_score"]], 64)
	if err != nil {
		return e, err
	}

	e.CaseID = rec[col["case_id"]]
	e.Activity = rec[col["activity"]]
	e.Resource = rec[col["resource"]]
	e.WorkflowType = rec[col["workflow_type"]]
	e.BusinessProcess = rec[col["business_process"]]
	e.Stage = rec[col["process_stage"]]
	e.StageDescription = rec[col["stage_description"]]
	e.FilePath = rec[col["file_path"]]
	e.Category = model.ParseCategory(rec[col["operation_category"]])
	e.Result = model.Outcome(rec[col["result"]])
	e.BottleneckType = rec[col["bottleneck_type"]]
	e.Quality = model.Quality(rec[col["event_quality"]])
	return e, nil
}
