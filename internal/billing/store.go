package billing

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/craftline/craftline-backend/pkg/errors"
)

// OrderLog is the append-only, line-delimited JSON order store. Appends are
// serialized so a record is always written whole.
type OrderLog struct {
	mu   sync.Mutex
	path string
}

func NewOrderLog(path string) *OrderLog {
	return &OrderLog{path: path}
}

// Append writes one record as a single JSON line.
func (l *OrderLog) Append(rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order record")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open order log")
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append order record")
	}
	return nil
}

// AppendAll writes a batch of records under one lock acquisition.
func (l *OrderLog) AppendAll(recs []Record) error {
	var buf strings.Builder
	for _, rec := range recs {
		line, err := json.Marshal(rec)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order record")
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open order log")
	}
	defer f.Close()

	if _, err := f.WriteString(buf.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append order records")
	}
	return nil
}

// Latest returns the most recently appended record. A missing or empty log is
// a NOT_FOUND; a log whose last line does not parse is an internal error.
func (l *OrderLog) Latest() (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, pkgerrors.New(pkgerrors.CodeNotFound, "order log not found")
		}
		return Record{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open order log")
	}
	defer f.Close()

	var last string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	if err := scanner.Err(); err != nil {
		return Record{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read order log")
	}
	if last == "" {
		return Record{}, pkgerrors.New(pkgerrors.CodeNotFound, "no orders found")
	}

	var rec Record
	if err := json.Unmarshal([]byte(last), &rec); err != nil {
		return Record{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("invalid JSON format: %v", err))
	}
	return rec, nil
}

// BillArchive is the indented JSON array of confirmed bills. The whole file
// is rewritten through a temp file so readers never see a partial record.
type BillArchive struct {
	mu   sync.Mutex
	path string
}

func NewBillArchive(path string) *BillArchive {
	return &BillArchive{path: path}
}

// Append loads the archive, adds the record, and atomically replaces the file.
func (a *BillArchive) Append(rec Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var records []Record
	data, err := os.ReadFile(a.path)
	switch {
	case err == nil:
		if len(data) > 0 {
			if err := json.Unmarshal(data, &records); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode bill archive")
			}
		}
	case os.IsNotExist(err):
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read bill archive")
	}

	records = append(records, rec)
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode bill archive")
	}

	tmp, err := os.CreateTemp(filepath.Dir(a.path), ".bills-*.json")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create bill archive temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write bill archive")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close bill archive temp file")
	}
	if err := os.Rename(tmpName, a.path); err != nil {
		os.Remove(tmpName)
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace bill archive")
	}
	return nil
}

// Load returns every archived bill; a missing archive is an empty slice.
func (a *BillArchive) Load() ([]Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read bill archive")
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode bill archive")
	}
	return records, nil
}
