package manifest

import (
	"encoding/binary"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Record describes one recovered file.
type Record struct {
	Index  uint32
	Name   string
	Offset uint64 // position of the trigger block in the input image
	Size   uint64
	Blocks uint32
}

// Field numbers of the encoded record. Unknown fields are skipped on decode so
// records can grow.
const (
	fieldIndex  protowire.Number = 1
	fieldName   protowire.Number = 2
	fieldOffset protowire.Number = 3
	fieldSize   protowire.Number = 4
	fieldBlocks protowire.Number = 5
)

var ErrInvalidRecord = errors.New("invalid manifest record")

// Key returns the store key of a record: its index as 8 bytes, big endian, so
// a key scan yields records in file order.
func Key(index uint32) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(index))
}

// Marshal encodes r in protobuf wire format.
func Marshal(r Record) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldIndex, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(r.Index))
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, r.Name)
	b = protowire.AppendTag(b, fieldOffset, protowire.VarintType)
	b = protowire.AppendVarint(b, r.Offset)
	b = protowire.AppendTag(b, fieldSize, protowire.VarintType)
	b = protowire.AppendVarint(b, r.Size)
	b = protowire.AppendTag(b, fieldBlocks, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(r.Blocks))
	return b
}

// Unmarshal decodes a record produced by Marshal.
func Unmarshal(b []byte) (Record, error) {
	var r Record
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Record{}, fmt.Errorf("%w: %w", ErrInvalidRecord, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return Record{}, fmt.Errorf("%w: %w", ErrInvalidRecord, protowire.ParseError(n))
			}
			r.Name = v
			b = b[n:]
		case typ == protowire.VarintType && num >= fieldIndex && num <= fieldBlocks:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return Record{}, fmt.Errorf("%w: %w", ErrInvalidRecord, protowire.ParseError(n))
			}
			switch num {
			case fieldIndex:
				r.Index = uint32(v)
			case fieldOffset:
				r.Offset = v
			case fieldSize:
				r.Size = v
			case fieldBlocks:
				r.Blocks = uint32(v)
			default:
				return Record{}, fmt.Errorf("%w: field %d has wire type %d", ErrInvalidRecord, num, typ)
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Record{}, fmt.Errorf("%w: %w", ErrInvalidRecord, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return r, nil
}
