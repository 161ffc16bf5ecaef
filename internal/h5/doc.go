// Package h5 reads Million Song Dataset HDF5 files through gonum.org/v1/hdf5 (cgo, libhdf5).
// Tables and arrays are read with the file's own datatype into raw byte buffers, which are
// then decoded using the member layout reported by the library. Song files are written
// little-endian, with fixed-length strings.
package h5
