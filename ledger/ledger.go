package ledger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"patient-scheduler/appointment"
)

// header is the fixed column order of the workbook. Data rows are mapped
// positionally against it; the header row inside the file is not trusted.
var header = []string{"id", "name", "address", "reason", "datetime", "created_at"}

const sheet = "Sheet1"

// Ledger is the durable xlsx representation of the collection. Every save
// rewrites the whole file.
type Ledger struct {
	path string
}

func New(path string) *Ledger {
	return &Ledger{path: path}
}

func (l *Ledger) Path() string { return l.path }

// PersistenceError wraps a storage failure during load or save.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("ledger %s: %v", e.Op, e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }

// Load reads the full collection from the backing file. A missing file is
// a first run, not an error. Rows that are empty or whose id cell is blank
// are skipped and counted.
func (l *Ledger) Load() ([]appointment.Appointment, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		return nil, nil
	}

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	var out []appointment.Appointment
	skipped := 0
	for i, row := range rows {
		if i == 0 {
			continue // header row
		}
		if len(row) == 0 || row[0] == "" {
			skipped++
			continue
		}
		out = append(out, appointment.Appointment{
			ID:          cell(row, 0),
			Name:        cell(row, 1),
			Address:     cell(row, 2),
			Reason:      cell(row, 3),
			ScheduledAt: cell(row, 4),
			CreatedAt:   cell(row, 5),
		})
	}
	if skipped > 0 {
		log.Printf("ledger: skipped %d blank rows in %s", skipped, l.path)
	}
	return out, nil
}

// cell pads short rows with the empty string.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// Save rewrites the backing file from scratch: header row, then one row
// per record in collection order. The workbook is written to a temp file
// in the destination directory and renamed over the target, so the rename
// is the only mutation of the final path and a failure mid-write leaves
// the previous file intact.
func (l *Ledger) Save(records []appointment.Appointment) error {
	f := excelize.NewFile()
	defer f.Close()

	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	for i, a := range records {
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return &PersistenceError{Op: "save", Err: err}
		}
		row := []any{a.ID, a.Name, a.Address, a.Reason, a.ScheduledAt, a.CreatedAt}
		if err := f.SetSheetRow(sheet, start, &row); err != nil {
			return &PersistenceError{Op: "save", Err: err}
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".appointments-*.xlsx")
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	if err := writeAndClose(f, tmp); err != nil {
		os.Remove(tmp.Name())
		return &PersistenceError{Op: "save", Err: err}
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		os.Remove(tmp.Name())
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func writeAndClose(f *excelize.File, tmp *os.File) error {
	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	return tmp.Close()
}
