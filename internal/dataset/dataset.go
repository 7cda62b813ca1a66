// Package dataset loads and saves word pairs together with their accuracy counters.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/ceylinesp/quizlet/internal/errors"
	"github.com/ceylinesp/quizlet/internal/logger"
	"github.com/ceylinesp/quizlet/internal/model"
	"github.com/ceylinesp/quizlet/internal/stats"
)

// Dataset is the ordered list of pairs plus one accuracy record per term.
type Dataset struct {
	Pairs    []model.WordPair
	Accuracy *stats.Accuracy
	// Format is the delimiter the pairs were parsed with. Writing with
	// FormatAuto reuses it.
	Format Format
}

// New builds a dataset with zeroed records. Duplicate terms keep the first pair.
func New(pairs []model.WordPair) *Dataset {
	ds := &Dataset{Accuracy: stats.NewAccuracy()}
	for _, p := range pairs {
		ds.add(p, model.AccuracyRecord{})
	}
	return ds
}

func (d *Dataset) add(p model.WordPair, rec model.AccuracyRecord) bool {
	if !d.Accuracy.Add(p.Term, rec) {
		return false
	}
	d.Pairs = append(d.Pairs, p)
	return true
}

// Len returns the number of pairs.
func (d *Dataset) Len() int {
	return len(d.Pairs)
}

// Pair returns the pair for term.
func (d *Dataset) Pair(term string) (model.WordPair, bool) {
	for _, p := range d.Pairs {
		if p.Term == term {
			return p, true
		}
	}
	return model.WordPair{}, false
}

// Parse reads delimited lines of term, translation and an optional
// correct/attempted fraction.
func Parse(r io.Reader, format Format) (*Dataset, error) {
	log := logger.Default().WithPrefix("dataset")
	ds := New(nil)
	ds.Format = Format{Delimiter: format.resolved()}
	delim := string(ds.Format.Delimiter)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, delim)
		if len(fields) < 2 {
			log.WithField("line", lineNo).Debug("skipping line without translation")
			continue
		}
		pair := model.WordPair{
			Term:        strings.TrimSpace(fields[0]),
			Translation: strings.TrimSpace(fields[1]),
		}
		if pair.Term == "" {
			log.WithField("line", lineNo).Debug("skipping line with empty term")
			continue
		}
		var rec model.AccuracyRecord
		if len(fields) >= 3 {
			rec = ParseFraction(fields[2])
		}
		if !ds.add(pair, rec) {
			log.WithField("line", lineNo).Debug("skipping duplicate term %q", pair.Term)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ds, nil
}

// ParseFraction parses "correct/attempted". Anything malformed or violating
// 0 <= correct <= attempted yields a zero record.
func ParseFraction(s string) model.AccuracyRecord {
	left, right, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return model.AccuracyRecord{}
	}
	correct, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return model.AccuracyRecord{}
	}
	attempted, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return model.AccuracyRecord{}
	}
	rec := model.AccuracyRecord{Correct: correct, Attempted: attempted}
	if !rec.Valid() {
		return model.AccuracyRecord{}
	}
	return rec
}

// FormatFraction renders a record as "correct/attempted".
func FormatFraction(rec model.AccuracyRecord) string {
	return fmt.Sprintf("%d/%d", rec.Correct, rec.Attempted)
}

// Load reads the dataset at path.
func Load(path string, format Format) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		if isNotExist(err) {
			return nil, apperrors.NewNotFoundError(path, err)
		}
		return nil, apperrors.NewReadError(path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only dataset.
			_ = cerr
		}
	}()
	if info, err := file.Stat(); err == nil && info.IsDir() {
		return nil, apperrors.NewNotFoundError(path, fmt.Errorf("%s is a directory", path))
	}
	if format.Delimiter == 0 {
		return loadDetected(path, file)
	}
	ds, err := Parse(file, format)
	if err != nil {
		return nil, apperrors.NewReadError(path, err)
	}
	return ds, nil
}

func loadDetected(path string, file *os.File) (*Dataset, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewReadError(path, err)
	}
	ds, err := Parse(strings.NewReader(string(data)), DetectFormat(string(data)))
	if err != nil {
		return nil, apperrors.NewReadError(path, err)
	}
	return ds, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Reload replaces the dataset contents with the file at path. On error the
// current pairs and records stay untouched.
func (d *Dataset) Reload(path string, format Format) error {
	fresh, err := Load(path, format)
	if err != nil {
		return err
	}
	d.Pairs = fresh.Pairs
	d.Accuracy = fresh.Accuracy
	d.Format = fresh.Format
	return nil
}

// Write serializes every pair with its record in dataset order. FormatAuto
// writes with the delimiter the dataset was loaded with.
func Write(w io.Writer, ds *Dataset, format Format) error {
	if format.Delimiter == 0 {
		format = ds.Format
	}
	delim := string(format.resolved())
	writer := bufio.NewWriter(w)
	for _, p := range ds.Pairs {
		rec, _ := ds.Accuracy.Record(p.Term)
		if _, err := fmt.Fprintf(writer, "%s%s%s%s%s\n", p.Term, delim, p.Translation, delim, FormatFraction(rec)); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// Save replaces the file at path in full.
func Save(path string, ds *Dataset, format Format) error {
	if err := writeDataset(path, ds, format); err != nil {
		return apperrors.NewWriteError(path, err)
	}
	return nil
}

func writeDataset(path string, ds *Dataset, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dataset dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "dataset-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp dataset: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := Write(tmpFile, ds, format); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close dataset: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace dataset: %w", err)
	}
	return nil
}

// File is a dataset destination on disk.
type File struct {
	Path   string
	Format Format
}

// Load reads the dataset from the file.
func (f File) Load() (*Dataset, error) {
	return Load(f.Path, f.Format)
}

// Save writes ds to the file.
func (f File) Save(ds *Dataset) error {
	return Save(f.Path, ds, f.Format)
}
