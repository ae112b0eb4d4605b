package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"ean-price-extractor/internal/types"
)

// TemplateKeys are written to a fresh key file on first run. The last one
// is not sold by the store.
var TemplateKeys = []types.LookupKey{
	"7908324405125",
	"7891066006749",
	"1234567890123",
}

// LoadKeys reads one lookup key per line from path. Blank lines are skipped.
// A missing file yields types.ErrInputMissing and a file without keys
// types.ErrInputEmpty.
func LoadKeys(path string) ([]types.LookupKey, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", types.ErrInputMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	keys, err := ReadKeys(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrInputEmpty, path)
	}
	return keys, nil
}

// ReadKeys reads one lookup key per line from r
func ReadKeys(r io.Reader) ([]types.LookupKey, error) {
	var keys []types.LookupKey
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if key, ok := types.ParseLookupKey(line); ok {
			keys = append(keys, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// WriteKeyTemplate creates path populated with TemplateKeys. An existing
// file is left untouched.
func WriteKeyTemplate(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	for _, key := range TemplateKeys {
		fmt.Fprintln(w, key)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
