package dsv

import (
	"encoding/csv"
	"fmt"
	"io"

	msd "github.com/go-sif/sif-msd"
)

// Conf configures the delimiter-separated encoding of Rows
type Conf struct {
	Delimiter   rune // The delimiter separating columns. Defaults to ,
	UseCRLF     bool // Terminate lines with \r\n rather than \n
	HeaderLines int  // The number of lines to ignore from the beginning of input when reading. Defaults to 0.
}

// Codec writes and reads Rows as delimiter-separated lines, one Row per line, without a header
type Codec struct {
	conf *Conf
}

// CreateCodec returns a new DSV Codec
func CreateCodec(conf *Conf) *Codec {
	if conf == nil {
		conf = &Conf{}
	}
	if conf.Delimiter == 0 {
		conf.Delimiter = ','
	}
	return &Codec{conf: conf}
}

// Write encodes rows to w. Fields containing the delimiter, quotes or newlines are quoted.
func (c *Codec) Write(w io.Writer, rows []msd.Row) error {
	writer := csv.NewWriter(w)
	writer.Comma = c.conf.Delimiter
	writer.UseCRLF = c.conf.UseCRLF
	for i, row := range rows {
		if len(row) == 0 {
			return fmt.Errorf("row %d is empty", i)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Read decodes every Row from r
func (c *Codec) Read(r io.Reader) ([]msd.Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = c.conf.Delimiter
	reader.FieldsPerRecord = -1
	for i := 0; i < c.conf.HeaderLines; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}
	rows := []msd.Row{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		} else if err != nil {
			return nil, err
		}
		rows = append(rows, msd.Row(record))
	}
}
