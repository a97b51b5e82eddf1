package annotation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/imavis/jta-annotations/pkg/pose"
)

//ReadJTACSV reads a coords.csv export and returns its JTA columns as SchemaJointsJTA rows.
//Columns are selected by header name, other columns are ignored.
func ReadJTACSV(r io.Reader) ([][]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "ReadJTACSV: could not read header")
	}

	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	columns := pose.SchemaJointsJTA.Columns()
	index := make([]int, len(columns))
	for i, name := range columns {
		pos, ok := positions[name]
		if !ok {
			return nil, &MalformedRecordError{Row: 0, Column: -1, Reason: fmt.Sprintf("missing column '%s'", name)}
		}
		index[i] = pos
	}

	rows := make([][]float64, 0)
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "ReadJTACSV: line %d", line)
		}

		row := make([]float64, len(columns))
		for c, pos := range index {
			if pos >= len(record) {
				return nil, &MalformedRecordError{Row: line, Column: c, Reason: fmt.Sprintf("missing value for '%s'", columns[c])}
			}
			v, err := csvValue(record[pos])
			if err != nil {
				return nil, &MalformedRecordError{Row: line, Column: c, Reason: err.Error()}
			}
			row[c] = v
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func csvValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not numeric", s)
	}
	return v, nil
}

//ReadJTACSVFile reads the coords.csv export at path
func ReadJTACSVFile(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ReadJTACSVFile: could not open '%s'", path)
	}
	defer f.Close()

	rows, err := ReadJTACSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "ReadJTACSVFile: '%s'", path)
	}
	return rows, nil
}
