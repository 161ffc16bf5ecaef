package h5

import (
	"encoding/binary"
	"fmt"
	"math"

	"gonum.org/v1/hdf5"
)

// record is the raw bytes of one table row and the layout of its members
type record struct {
	data    []byte
	members map[string]member
}

// member describes where a scalar lives within a raw record, and how to decode it.
// A member whose stored type cannot be decoded carries the reason in unsupported.
type member struct {
	class       hdf5.TypeClass
	offset      int
	size        int
	unsupported error
}

// decodableNumbers are the numeric storage types decodeScalar understands
var decodableNumbers = []*hdf5.Datatype{
	hdf5.T_STD_I8LE,
	hdf5.T_STD_I16LE,
	hdf5.T_STD_I32LE,
	hdf5.T_STD_I64LE,
	hdf5.T_IEEE_F32LE,
	hdf5.T_IEEE_F64LE,
}

// newMember describes a value of the stored type dtype at offset
func newMember(dtype *hdf5.Datatype, offset int) member {
	m := member{class: dtype.Class(), offset: offset, size: int(dtype.Size())}
	if m.class == hdf5.T_INTEGER || m.class == hdf5.T_FLOAT {
		m.unsupported = fmt.Errorf("only little-endian signed integers and IEEE floats can be decoded")
		for _, t := range decodableNumbers {
			if dtype.Equal(t) {
				m.unsupported = nil
				break
			}
		}
	}
	return m
}

func (m member) decode(data []byte) (interface{}, error) {
	if m.unsupported != nil {
		return nil, m.unsupported
	}
	if m.offset+m.size > len(data) {
		return nil, fmt.Errorf("member at offset %d (%d bytes) overruns a %d byte record", m.offset, m.size, len(data))
	}
	return decodeScalar(m.class, data[m.offset:m.offset+m.size])
}

func decodeScalar(class hdf5.TypeClass, b []byte) (interface{}, error) {
	switch class {
	case hdf5.T_FLOAT:
		switch len(b) {
		case 4:
			return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
		case 8:
			return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
		}
	case hdf5.T_INTEGER:
		switch len(b) {
		case 1:
			return int8(b[0]), nil
		case 2:
			return int16(binary.LittleEndian.Uint16(b)), nil
		case 4:
			return int32(binary.LittleEndian.Uint32(b)), nil
		case 8:
			return int64(binary.LittleEndian.Uint64(b)), nil
		}
	case hdf5.T_STRING:
		res := make([]byte, len(b))
		copy(res, b)
		return res, nil
	}
	return nil, fmt.Errorf("unsupported HDF5 type class %d with size %d", class, len(b))
}
