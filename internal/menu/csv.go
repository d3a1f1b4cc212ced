package menu

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ReadCSV reads a sheet export: the first record is the header, every later
// record becomes a Row. Short records simply lack the trailing cells.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, configErrorf("sheet is empty, no header row")
	}
	if err != nil {
		return nil, configErrorf("header: %v", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, configErrorf("record %d: %v", len(rows)+1, err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if col == "" || i >= len(record) {
				continue
			}
			row[col] = record[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// CSVFileSource reads the menu from a local CSV export.
type CSVFileSource struct {
	Path string
}

func NewCSVFileSource(path string) *CSVFileSource {
	return &CSVFileSource{Path: path}
}

func (s *CSVFileSource) FetchRows(ctx context.Context) ([]Row, error) {
	if err := ValidateFileExtension(s.Path); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errors.Wrap(err, "open menu csv")
	}
	defer f.Close()

	return ReadCSV(f)
}

// ObjectSource reads a CSV export stored under Key in an ObjectStore.
type ObjectSource struct {
	Store ObjectStore
	Key   string
}

func NewObjectSource(store ObjectStore, key string) *ObjectSource {
	return &ObjectSource{Store: store, Key: key}
}

func (s *ObjectSource) FetchRows(ctx context.Context) ([]Row, error) {
	body, err := s.Store.Open(ctx, s.Key)
	if err != nil {
		return nil, errors.Wrapf(err, "open menu object %s", s.Key)
	}
	defer body.Close()

	return ReadCSV(body)
}
