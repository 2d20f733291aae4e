package cli

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestTabReader(t *testing.T) {
	input := "gene\tscore\nYFL039C\t1.5\nYDR099W\t2.0\n"
	reader := NewTabReader(strings.NewReader(input), true)

	headers, err := reader.Headers()
	if err != nil {
		t.Fatalf("Headers() error = %v", err)
	}
	if want := []string{"gene", "score"}; !reflect.DeepEqual(headers, want) {
		t.Errorf("Headers() = %v, want %v", headers, want)
	}

	row, err := reader.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if want := []string{"YFL039C", "1.5"}; !reflect.DeepEqual(row, want) {
		t.Errorf("Read() = %v, want %v", row, want)
	}

	if _, err := reader.Read(); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if _, err := reader.Read(); err != io.EOF {
		t.Errorf("Read() at end error = %v, want io.EOF", err)
	}
}

func TestTabReader_NoHeader(t *testing.T) {
	reader := NewTabReader(strings.NewReader("a\tb\n"), false)

	headers, err := reader.Headers()
	if err != nil {
		t.Fatalf("Headers() error = %v", err)
	}
	if headers != nil {
		t.Errorf("Headers() = %v, want nil", headers)
	}

	row, err := reader.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(row, want) {
		t.Errorf("Read() = %v, want %v", row, want)
	}
}

func TestTabReader_SkipsBlankLines(t *testing.T) {
	reader := NewTabReader(strings.NewReader("a\n\nb\n"), false)

	got, err := reader.ReadColumn(0)
	if err != nil {
		t.Fatalf("ReadColumn() error = %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ReadColumn() = %v, want %v", got, want)
	}
}

func TestTabReader_ReadColumn(t *testing.T) {
	input := "x\tg1\nx\tg2\nx\tg3\n"

	tests := []struct {
		name   string
		keyCol int
		want   []string
	}{
		{"first column", 0, []string{"x", "x", "x"}},
		{"second column", 1, []string{"g1", "g2", "g3"}},
		{"last column", -1, []string{"g1", "g2", "g3"}},
		{"out of range", 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewTabReader(strings.NewReader(input), false)
			got, err := reader.ReadColumn(tt.keyCol)
			if err != nil {
				t.Fatalf("ReadColumn() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadColumn(%d) = %v, want %v", tt.keyCol, got, tt.want)
			}
		})
	}
}

func TestTabReader_FindColumn(t *testing.T) {
	reader := NewTabReader(strings.NewReader("gene\tscore\n"), true)
	if _, err := reader.Headers(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		col     string
		want    int
		wantErr bool
	}{
		{"", -1, false},
		{"0", -1, false},
		{"1", 0, false},
		{"2", 1, false},
		{"gene", 0, false},
		{"score", 1, false},
		{"missing", 0, true},
		{"-3", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.col, func(t *testing.T) {
			got, err := reader.FindColumn(tt.col)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FindColumn(%q) error = %v, wantErr %v", tt.col, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("FindColumn(%q) = %d, want %d", tt.col, got, tt.want)
			}
		})
	}
}

func TestReadGenes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		col    string
		noHead bool
		want   []string
	}{
		{"headed last column", "id\tgene\n1\tg1\n2\tg2\n", "0", false, []string{"g1", "g2"}},
		{"headed by name", "gene\tid\ng1\t1\ng2\t2\n", "gene", false, []string{"g1", "g2"}},
		{"headless single column", "g1\ng2\ng3\n", "0", true, []string{"g1", "g2", "g3"}},
		{"headed by index", "a\tb\nx\tg1\ny\tg2\n", "2", false, []string{"g1", "g2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadGenes(strings.NewReader(tt.input), tt.col, tt.noHead)
			if err != nil {
				t.Fatalf("ReadGenes() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadGenes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTabWriter(t *testing.T) {
	var buf bytes.Buffer
	writer := NewTabWriter(&buf)

	if err := writer.WriteHeaders([]string{"term_id", "p_value"}); err != nil {
		t.Fatalf("WriteHeaders() error = %v", err)
	}
	if err := writer.WriteRow("GO:0000001", "0.05"); err != nil {
		t.Fatalf("WriteRow() error = %v", err)
	}
	if err := writer.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	want := "term_id\tp_value\nGO:0000001\t0.05\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0.05, "0.05"},
		{1, "1"},
		{1.0 / 3.0, "0.333333"},
		{1e-8, "1e-08"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.v); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
