package extract

// Field names one value stored in a song file. Table fields are members of the
// <Group>/songs table (of which only the first record is used, as each file holds a
// single song); array fields are whole datasets at <Group>/<Name>.
type Field struct {
	Group string
	Name  string
	Array bool
}

// Path returns a "group/name" description of this Field
func (f Field) Path() string {
	return f.Group + "/" + f.Name
}

const (
	// MetadataGroup holds song and artist metadata
	MetadataGroup = "metadata"
	// AnalysisGroup holds audio analysis features
	AnalysisGroup = "analysis"
	// MusicbrainzGroup holds musicbrainz data
	MusicbrainzGroup = "musicbrainz"
	// SongsTable is the name of the per-group table of song records
	SongsTable = "songs"
)

func tableFields(group string, names ...string) []Field {
	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Group: group, Name: name}
	}
	return fields
}

func arrayFields(group string, names ...string) []Field {
	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Group: group, Name: name, Array: true}
	}
	return fields
}

// DefaultFields returns the extracted fields, in output column order
func DefaultFields() []Field {
	var fields []Field
	fields = append(fields, tableFields(MetadataGroup,
		"artist_familiarity",
		"artist_hotttnesss",
		"artist_id",
		"artist_latitude",
		"artist_location",
		"artist_longitude",
		"artist_name",
		"title",
	)...)
	fields = append(fields, arrayFields(MetadataGroup,
		"artist_terms",
		"artist_terms_freq",
		"artist_terms_weight",
	)...)
	fields = append(fields, tableFields(AnalysisGroup,
		"danceability",
		"duration",
		"end_of_fade_in",
		"energy",
		"key",
		"key_confidence",
		"loudness",
		"mode",
		"mode_confidence",
		"start_of_fade_out",
		"tempo",
		"time_signature",
		"time_signature_confidence",
	)...)
	fields = append(fields, tableFields(MusicbrainzGroup, "year")...)
	return fields
}

// ColumnNames returns the names of fields, in order
func ColumnNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
