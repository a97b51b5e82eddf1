package annotation

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/imavis/jta-annotations/pkg/pose"
)

//envelope is the tagged form of a compact file. The bare form is a plain array of rows.
type envelope struct {
	Schema string            `json:"schema"`
	Rows   []json.RawMessage `json:"rows"`
}

//ReadRows reads compact numeric rows laid out as schema.
//Both the bare array form and the tagged envelope are accepted; an envelope tagged with
//another schema, or a row of the wrong width, fails with a *SchemaMismatchError.
func ReadRows(r io.Reader, schema pose.Schema) ([][]float64, error) {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "ReadRows: could not read rows")
	}

	var rawRows []json.RawMessage
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, errors.Wrap(err, "ReadRows: could not decode envelope")
		}
		if env.Schema != schema.String() {
			return nil, &SchemaMismatchError{Schema: schema, Found: env.Schema}
		}
		rawRows = env.Rows
	} else if err := json.Unmarshal(trimmed, &rawRows); err != nil {
		return nil, errors.Wrap(err, "ReadRows: could not decode rows")
	}

	rows := make([][]float64, len(rawRows))
	for i, rawRow := range rawRows {
		var cells []json.RawMessage
		if err := json.Unmarshal(rawRow, &cells); err != nil {
			return nil, &MalformedRecordError{Row: i, Column: -1, Reason: "row is not an array"}
		}
		if len(cells) != schema.Width() {
			return nil, &SchemaMismatchError{Schema: schema, Row: i, Columns: len(cells)}
		}

		rows[i] = make([]float64, len(cells))
		for c, cell := range cells {
			v, err := cellValue(cell)
			if err != nil {
				return nil, &MalformedRecordError{Row: i, Column: c, Reason: err.Error()}
			}
			rows[i][c] = v
		}
	}

	return rows, nil
}

//cellValue decodes a number. Booleans, as written for the occlusion columns by some exporters, map to 0 and 1.
func cellValue(cell json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(cell, &v); err == nil {
		return v, nil
	}
	var b bool
	if err := json.Unmarshal(cell, &b); err == nil {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	return 0, errors.Errorf("%s is not numeric", string(cell))
}

//ReadRowsFile reads the compact rows file at path
func ReadRowsFile(path string, schema pose.Schema) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ReadRowsFile: could not open '%s'", path)
	}
	defer f.Close()

	rows, err := ReadRows(f, schema)
	if err != nil {
		return nil, errors.Wrapf(err, "ReadRowsFile: '%s'", path)
	}
	return rows, nil
}

//WriteRows writes rows in the bare array form
func WriteRows(w io.Writer, rows [][]float64) error {
	if rows == nil {
		rows = [][]float64{}
	}
	if err := json.NewEncoder(w).Encode(rows); err != nil {
		return errors.Wrap(err, "WriteRows: could not encode rows")
	}
	return nil
}

//WriteFile writes a file through a temporary file renamed into place, so readers never see a partial file
func WriteFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := ioutil.TempFile(dir, ".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "create temp for %s", filepath.Base(path))
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", filepath.Base(path))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "close temp %s", filepath.Base(path))
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "rename %s", filepath.Base(path))
	}
	return nil
}
