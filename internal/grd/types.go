package grd

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ElemType identifies the storage type of grid elements. The numeric
// values follow the source format's type codes.
type ElemType int

const (
	TypeByte    ElemType = 0 // signed 8-bit
	TypeUShort  ElemType = 1
	TypeShort   ElemType = 2
	TypeLong    ElemType = 3 // signed 32-bit, also used for color grids
	TypeFloat   ElemType = 4
	TypeDouble  ElemType = 5
	TypeUByte   ElemType = 6
	TypeULong   ElemType = 7
	TypeLong64  ElemType = 8
	TypeULong64 ElemType = 9
)

// elemTypeFor maps the header's (size, sign) pair to a storage type.
func elemTypeFor(size, sign int32) (ElemType, error) {
	switch size {
	case 1:
		return TypeByte, nil
	case 2:
		if sign == 0 {
			return TypeUShort, nil
		}
		return TypeShort, nil
	case 4:
		if sign == 2 {
			return TypeFloat, nil
		}
		return TypeLong, nil
	case 8:
		return TypeDouble, nil
	default:
		return 0, fmt.Errorf("invalid size/sign combination: size=%d, sign=%d", size, sign)
	}
}

// ByteSize returns the storage size of one element.
func (t ElemType) ByteSize() (int, error) {
	switch t {
	case TypeByte, TypeUByte:
		return 1, nil
	case TypeShort, TypeUShort:
		return 2, nil
	case TypeLong, TypeULong, TypeFloat:
		return 4, nil
	case TypeDouble, TypeLong64, TypeULong64:
		return 8, nil
	default:
		return 0, fmt.Errorf("unsupported data type: %d", int(t))
	}
}

// decodeElems converts length-prefix-free little-endian element bytes to
// float64 values. n elements are decoded; buf must hold at least
// n*elemSize bytes.
func decodeElems(buf []byte, n int, t ElemType) ([]float64, error) {
	es, err := t.ByteSize()
	if err != nil {
		return nil, err
	}
	if len(buf) < n*es {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortRead, len(buf), n*es)
	}

	out := make([]float64, n)
	switch t {
	case TypeByte:
		for i := 0; i < n; i++ {
			out[i] = float64(int8(buf[i]))
		}
	case TypeUByte:
		for i := 0; i < n; i++ {
			out[i] = float64(buf[i])
		}
	case TypeShort:
		for i := 0; i < n; i++ {
			out[i] = float64(int16(binary.LittleEndian.Uint16(buf[i*2:])))
		}
	case TypeUShort:
		for i := 0; i < n; i++ {
			out[i] = float64(binary.LittleEndian.Uint16(buf[i*2:]))
		}
	case TypeLong:
		for i := 0; i < n; i++ {
			out[i] = float64(int32(binary.LittleEndian.Uint32(buf[i*4:])))
		}
	case TypeULong:
		for i := 0; i < n; i++ {
			out[i] = float64(binary.LittleEndian.Uint32(buf[i*4:]))
		}
	case TypeLong64:
		for i := 0; i < n; i++ {
			out[i] = float64(int64(binary.LittleEndian.Uint64(buf[i*8:])))
		}
	case TypeULong64:
		for i := 0; i < n; i++ {
			out[i] = float64(binary.LittleEndian.Uint64(buf[i*8:]))
		}
	case TypeFloat:
		for i := 0; i < n; i++ {
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])))
		}
	case TypeDouble:
		for i := 0; i < n; i++ {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
		}
	}
	return out, nil
}
