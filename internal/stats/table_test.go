package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Term", "Accuracy", "Correct"}
	rows := [][]string{
		{"Hund", "0.50", "12"},
		{"Schmetterling", "1.00", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Term          Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Hund              0.50      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Schmetterling     1.00       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Term", "Acc"}, [][]string{{"犬", "0.10"}, {"cat", "0.20"}}, map[int]bool{1: true})
	if lines[1] != "犬   0.10" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "cat  0.20" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}
