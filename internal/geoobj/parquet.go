package geoobj

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// cellValue is the single-column Parquet schema for grid values.
type cellValue struct {
	Data float64 `parquet:"data,gzip"`
}

// parquetBatch bounds the row buffer handed to the writer per call.
const parquetBatch = 4096

// encodeParquet serializes the flattened grid values as a gzip-
// compressed single-column Parquet blob.
func encodeParquet(values []float64) ([]byte, error) {
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[cellValue](&buf)

	rows := make([]cellValue, 0, parquetBatch)
	for len(values) > 0 {
		n := parquetBatch
		if len(values) < n {
			n = len(values)
		}
		rows = rows[:n]
		for i := 0; i < n; i++ {
			rows[i] = cellValue{Data: values[i]}
		}
		if _, err := w.Write(rows); err != nil {
			return nil, fmt.Errorf("writing parquet rows: %w", err)
		}
		values = values[n:]
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}
