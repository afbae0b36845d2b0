package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/eugenenazirov/truck-loader/internal/knapsack"
)

// ErrMalformedLog is returned when a results log row cannot be parsed.
var ErrMalformedLog = errors.New("malformed results log")

var header = []string{"run_id", "timestamp", "dataset", "algorithm", "pallets", "capacity", "profit", "weight", "time_ms", "selected", "instance"}

// legacyHeader is the layout written before runs carried an instance fingerprint.
var legacyHeader = header[:10]

// Record is one solver run.
type Record struct {
	RunID     string             `json:"runId"`
	Timestamp time.Time          `json:"timestamp"`
	Dataset   string             `json:"dataset"`
	Algorithm knapsack.Algorithm `json:"algorithm"`
	Pallets   int                `json:"pallets"`
	Capacity  int                `json:"capacity"`
	Profit    int                `json:"profit"`
	Weight    int                `json:"weight"`
	Elapsed   time.Duration      `json:"elapsed"`
	Selected  []int              `json:"selected"`
	// Instance fingerprints the capacity and catalog the run solved. Runs are
	// only scored against runs with the same fingerprint.
	Instance string `json:"instance,omitempty"`
}

// Recorder stores run records.
type Recorder interface {
	Record(rec Record) error
}

// Log is a Recorder whose records can be read back.
type Log interface {
	Recorder
	Records() ([]Record, error)
}

func (r Record) fields() []string {
	ids := make([]string, len(r.Selected))
	for i, id := range r.Selected {
		ids[i] = strconv.Itoa(id)
	}
	return []string{
		r.RunID,
		r.Timestamp.UTC().Format(time.RFC3339Nano),
		r.Dataset,
		string(r.Algorithm),
		strconv.Itoa(r.Pallets),
		strconv.Itoa(r.Capacity),
		strconv.Itoa(r.Profit),
		strconv.Itoa(r.Weight),
		strconv.FormatFloat(float64(r.Elapsed)/float64(time.Millisecond), 'f', 3, 64),
		strings.Join(ids, " "),
		r.Instance,
	}
}

func parseRecord(fields []string, width int) (Record, error) {
	if len(fields) != width {
		return Record{}, fmt.Errorf("%w: %d fields, want %d", ErrMalformedLog, len(fields), width)
	}

	ts, err := time.Parse(time.RFC3339Nano, fields[1])
	if err != nil {
		return Record{}, fmt.Errorf("%w: timestamp %q", ErrMalformedLog, fields[1])
	}

	ints := make([]int, 4)
	for i, raw := range fields[4:8] {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Record{}, fmt.Errorf("%w: %s %q", ErrMalformedLog, header[4+i], raw)
		}
		ints[i] = v
	}

	ms, err := strconv.ParseFloat(fields[8], 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: time_ms %q", ErrMalformedLog, fields[8])
	}

	selected := []int{}
	for _, raw := range strings.Fields(fields[9]) {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return Record{}, fmt.Errorf("%w: selected %q", ErrMalformedLog, fields[9])
		}
		selected = append(selected, id)
	}

	var instance string
	if width > len(legacyHeader) {
		instance = fields[10]
	}

	return Record{
		RunID:     fields[0],
		Timestamp: ts,
		Dataset:   fields[2],
		Algorithm: knapsack.Algorithm(fields[3]),
		Pallets:   ints[0],
		Capacity:  ints[1],
		Profit:    ints[2],
		Weight:    ints[3],
		Elapsed:   time.Duration(ms * float64(time.Millisecond)),
		Selected:  selected,
		Instance:  instance,
	}, nil
}

// ReadRecords parses a results log. The header row is required; logs written
// without the instance column are still accepted.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLog, err)
	}
	var width int
	switch strings.Join(first, ",") {
	case strings.Join(header, ","):
		width = len(header)
	case strings.Join(legacyHeader, ","):
		width = len(legacyHeader)
	default:
		return nil, fmt.Errorf("%w: unexpected header %v", ErrMalformedLog, first)
	}

	records := []Record{}
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedLog, err)
		}
		rec, err := parseRecord(fields, width)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// WriteRecords writes records with a header row.
func WriteRecords(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(rec.fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
