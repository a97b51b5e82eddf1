package annotation

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/imavis/jta-annotations/pkg/pose"
)

func TestReadRowsBareArray(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(`[[1, 7, 0, 10, 10], [1, 7, 1, 20.5, 20]]`), pose.SchemaJoints2D)
	if err != nil {
		t.Fatal(err)
	}
	expected := [][]float64{{1, 7, 0, 10, 10}, {1, 7, 1, 20.5, 20}}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Wrong rows: %v, expected: %v", rows, expected)
	}
}

func TestReadRowsBooleanCells(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(`[[0, 1, 0, 1, 2, 3, 4, 5, true, false]]`), pose.SchemaJointsJTA)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0][8] != 1 || rows[0][9] != 0 {
		t.Errorf("Wrong boolean conversion: %v", rows[0])
	}
}

func TestReadRowsEnvelope(t *testing.T) {
	env := `{"schema": "boxes", "rows": [[0, 1, 2, 3, 4, 5]]}`
	rows, err := ReadRows(strings.NewReader(env), pose.SchemaBoxes)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0][5] != 5 {
		t.Errorf("Wrong rows: %v", rows)
	}

	_, err = ReadRows(strings.NewReader(env), pose.SchemaJoints2D)
	var sm *SchemaMismatchError
	if !errors.As(err, &sm) || sm.Found != "boxes" {
		t.Errorf("Expected schema mismatch on tag, got %v", err)
	}
}

func TestReadRowsSchemaMismatch(t *testing.T) {
	// six column box rows must never be read as joint rows
	_, err := ReadRows(strings.NewReader(`[[0, 1, 2, 3, 4, 5]]`), pose.SchemaJoints2D)
	var sm *SchemaMismatchError
	if !errors.As(err, &sm) {
		t.Fatalf("Expected SchemaMismatchError, got %v", err)
	}
	if sm.Row != 0 || sm.Columns != 6 {
		t.Errorf("Wrong error context: %+v", sm)
	}
}

func TestReadRowsMalformed(t *testing.T) {
	_, err := ReadRows(strings.NewReader(`[[0, 1, 0, 1, 1], [0, 1, "x", 1, 1]]`), pose.SchemaJoints2D)
	var mr *MalformedRecordError
	if !errors.As(err, &mr) {
		t.Fatalf("Expected MalformedRecordError, got %v", err)
	}
	if mr.Row != 1 || mr.Column != 2 {
		t.Errorf("Wrong error context: %+v", mr)
	}
	if IsFatal(err) {
		t.Error("Malformed records are local to a batch item")
	}
}

func TestWriteRowsIntegers(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRows(&buf, [][]float64{{1, 7, 8, 8, 14, 14}}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[[1,7,8,8,14,14]]" {
		t.Errorf("Wrong output: %s", buf.String())
	}

	rows, err := ReadRows(&buf, pose.SchemaBoxes)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rows, [][]float64{{1, 7, 8, 8, 14, 14}}) {
		t.Errorf("Wrong rows read back: %v", rows)
	}
}

func TestWriteFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "rows")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "seq_0.json")
	err = WriteFile(path, func(w io.Writer) error { return WriteRows(w, [][]float64{{0, 1, 2, 3, 4}}) })
	if err != nil {
		t.Fatal(err)
	}

	rows, err := ReadRowsFile(path, pose.SchemaJoints2D)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("Wrong rows: %v", rows)
	}

	names, _ := ioutil.ReadDir(dir)
	if len(names) != 1 {
		t.Errorf("Temporary file left behind: %d files", len(names))
	}
}
