package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"ean-price-extractor/internal/types"
)

// CSVHeader is the header row of the output table
var CSVHeader = []string{"ean", "name", "price"}

// WriteCSV writes the batch as a CSV table with CSVHeader, one row per key
func WriteCSV(w io.Writer, batch *types.BatchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range batch.Rows() {
		if err := cw.Write(row.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the batch to path, replacing any previous file.
// Errors wrap types.ErrSinkWrite.
func WriteCSVFile(path string, batch *types.BatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrSinkWrite, err)
	}

	if err := WriteCSV(f, batch); err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %v", types.ErrSinkWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", types.ErrSinkWrite, path, err)
	}
	return nil
}
