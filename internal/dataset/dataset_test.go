package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ceylinesp/quizlet/internal/errors"
	"github.com/ceylinesp/quizlet/internal/model"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseLines(t *testing.T) {
	input := strings.Join([]string{
		"Hund,dog,1/2",
		"  Katze , cat ",
		"",
		"lonely",
		",nothing,1/1",
		"Maus,mouse,5/3",
		"Vogel,bird,abc",
		"Hund,hound,9/9",
	}, "\n")
	ds, err := Parse(strings.NewReader(input), FormatComma)
	require.NoError(t, err)

	assert.Equal(t, []model.WordPair{
		{Term: "Hund", Translation: "dog"},
		{Term: "Katze", Translation: "cat"},
		{Term: "Maus", Translation: "mouse"},
		{Term: "Vogel", Translation: "bird"},
	}, ds.Pairs)

	cases := map[string]model.AccuracyRecord{
		"Hund":  {Correct: 1, Attempted: 2},
		"Katze": {},
		"Maus":  {},
		"Vogel": {},
	}
	for term, want := range cases {
		got, ok := ds.Accuracy.Record(term)
		require.True(t, ok, term)
		assert.Equal(t, want, got, term)
	}
	assert.Equal(t, ds.Len(), ds.Accuracy.Len())
}

func TestParseFraction(t *testing.T) {
	tests := []struct {
		in   string
		want model.AccuracyRecord
	}{
		{"3/4", model.AccuracyRecord{Correct: 3, Attempted: 4}},
		{" 0/0 ", model.AccuracyRecord{}},
		{"4/3", model.AccuracyRecord{}},
		{"-1/3", model.AccuracyRecord{}},
		{"3", model.AccuracyRecord{}},
		{"a/b", model.AccuracyRecord{}},
		{"", model.AccuracyRecord{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseFraction(tt.in), tt.in)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ds := New([]model.WordPair{
		{Term: "Hund", Translation: "dog"},
		{Term: "Katze", Translation: "cat"},
	})
	ds.Accuracy.RecordAttempt("Hund", true)
	ds.Accuracy.RecordAttempt("Hund", false)

	for _, format := range []Format{FormatComma, FormatSemicolon} {
		path := filepath.Join(t.TempDir(), "words.csv")
		require.NoError(t, Save(path, ds, format))

		loaded, err := Load(path, format)
		require.NoError(t, err)
		assert.Equal(t, ds.Pairs, loaded.Pairs)
		rec, _ := loaded.Accuracy.Record("Hund")
		assert.Equal(t, model.AccuracyRecord{Correct: 1, Attempted: 2}, rec)

		auto, err := Load(path, FormatAuto)
		require.NoError(t, err)
		assert.Equal(t, ds.Pairs, auto.Pairs)
	}
}

func TestWriteAlwaysIncludesFraction(t *testing.T) {
	ds := New([]model.WordPair{{Term: "Hund", Translation: "dog"}})
	var b strings.Builder
	require.NoError(t, Write(&b, ds, FormatSemicolon))
	assert.Equal(t, "Hund;dog;0/0\n", b.String())
}

func TestAutoFormatKeepsDetectedDelimiter(t *testing.T) {
	path := writeFile(t, "Hund;dog;1/2\nKatze;cat\n")
	file := File{Path: path, Format: FormatAuto}

	ds, err := file.Load()
	require.NoError(t, err)
	assert.Equal(t, FormatSemicolon, ds.Format)
	ds.Accuracy.RecordAttempt("Katze", true)
	require.NoError(t, file.Save(ds))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Hund;dog;1/2\nKatze;cat;1/1\n", string(data))

	var b strings.Builder
	require.NoError(t, Write(&b, ds, FormatComma))
	assert.Equal(t, "Hund,dog,1/2\nKatze,cat,1/1\n", b.String())

	b.Reset()
	require.NoError(t, Write(&b, New([]model.WordPair{{Term: "Maus", Translation: "mouse"}}), FormatAuto))
	assert.Equal(t, "Maus,mouse,0/0\n", b.String())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), FormatComma)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
	assert.Contains(t, apperrors.Notice(err), "File not found!")
}

func TestLoadDirectory(t *testing.T) {
	_, err := Load(t.TempDir(), FormatComma)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestReloadKeepsStateOnFailure(t *testing.T) {
	path := writeFile(t, "Hund,dog,1/1\n")
	ds, err := Load(path, FormatComma)
	require.NoError(t, err)
	ds.Accuracy.RecordAttempt("Hund", false)

	err = ds.Reload(filepath.Join(t.TempDir(), "gone.csv"), FormatComma)
	require.Error(t, err)
	rec, _ := ds.Accuracy.Record("Hund")
	assert.Equal(t, model.AccuracyRecord{Correct: 1, Attempted: 2}, rec)

	require.NoError(t, ds.Reload(path, FormatComma))
	rec, _ = ds.Accuracy.Record("Hund")
	assert.Equal(t, model.AccuracyRecord{Correct: 1, Attempted: 1}, rec)
}

func TestSaveFailureIsWriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := Save(filepath.Join(blocker, "words.csv"), New(nil), FormatComma)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeWriteFailure))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.csv")
	require.NoError(t, File{Path: path, Format: FormatComma}.Save(New([]model.WordPair{{Term: "a", Translation: "b"}})))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "words.csv", entries[0].Name())
}

func TestDetectAndParseDelimiter(t *testing.T) {
	assert.Equal(t, FormatSemicolon, DetectFormat("\nHund;dog;1/2\n"))
	assert.Equal(t, FormatComma, DetectFormat("Hund,dog;x\n"))
	assert.Equal(t, FormatComma, DetectFormat(""))

	f, err := ParseDelimiter("auto")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)
	_, err = ParseDelimiter("|")
	assert.Error(t, err)
}
