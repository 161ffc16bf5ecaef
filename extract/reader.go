package extract

// Song is an open song file. Values are returned as float32, float64, signed or
// unsigned integers, string or []byte.
type Song interface {
	// Column returns a member of the first record of the <group>/songs table
	Column(group, name string) (interface{}, error)
	// Array returns every element of the <group>/<name> dataset
	Array(group, name string) ([]interface{}, error)
	Close() error
}

// SongReader opens song files
type SongReader interface {
	Open(path string) (Song, error)
}
