package extract

import (
	msd "github.com/go-sif/sif-msd"
	errors "github.com/go-sif/sif-msd/errors"
	"github.com/go-sif/sif-msd/internal/util"
	"github.com/sirupsen/logrus"
)

// Extractor converts song files into Rows of DefaultFields (or a custom field table).
// Every failure, including a panic within the SongReader, is reported as an
// errors.SkipError so that one bad file never affects another.
type Extractor struct {
	reader    SongReader
	fields    []Field
	sentinels []Field
	log       logrus.FieldLogger
	extractOp util.ExtractOperation
}

// Option configures an Extractor
type Option func(*Extractor)

// WithFields replaces the extracted field table
func WithFields(fields []Field) Option {
	return func(e *Extractor) {
		e.fields = fields
	}
}

// WithSentinels replaces the table fields which, when NaN, mark a song as unusable
func WithSentinels(sentinels ...Field) Option {
	return func(e *Extractor) {
		e.sentinels = sentinels
	}
}

// WithLogger sets the logger used for non-fatal warnings
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Extractor) {
		e.log = log
	}
}

// DefaultSentinels returns the fields checked for NaN before a song is extracted
func DefaultSentinels() []Field {
	return []Field{{Group: MetadataGroup, Name: "artist_familiarity"}}
}

// New creates an Extractor which reads song files with reader
func New(reader SongReader, opts ...Option) *Extractor {
	e := &Extractor{
		reader:    reader,
		fields:    DefaultFields(),
		sentinels: DefaultSentinels(),
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.extractOp = util.SafeExtractOperation(e.extract)
	return e
}

// Fields returns the field table this Extractor produces, in column order
func (e *Extractor) Fields() []Field {
	return e.fields
}

// Extract converts the file at path into a Row, or returns an errors.SkipError
func (e *Extractor) Extract(path string) (msd.Row, error) {
	row, err := e.extractOp(path)
	if err != nil {
		return nil, errors.SkipError{Path: path, Cause: err}
	}
	return msd.Row(row), nil
}

func (e *Extractor) extract(path string) ([]string, error) {
	song, err := e.reader.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := song.Close(); err != nil {
			e.log.Warnf("couldn't close song file %s: %v", path, err)
		}
	}()
	for _, f := range e.sentinels {
		v, err := song.Column(f.Group, f.Name)
		if err != nil {
			return nil, err
		}
		if isNaN(v) {
			return nil, errors.NaNSentinelError{Field: f.Path()}
		}
	}
	row := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		var s string
		if f.Array {
			values, err := song.Array(f.Group, f.Name)
			if err != nil {
				return nil, err
			}
			if s, err = FormatArray(values); err != nil {
				return nil, err
			}
		} else {
			v, err := song.Column(f.Group, f.Name)
			if err != nil {
				return nil, err
			}
			if s, err = FormatValue(v); err != nil {
				return nil, err
			}
		}
		row = append(row, s)
	}
	return row, nil
}
