package signer

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
)

// encoder writes the subset of borsh needed for transactions. Integers are
// little-endian, strings and byte vectors are u32-length-prefixed.
type encoder struct {
	buf bytes.Buffer
	err error
}

func (e *encoder) u8(v uint8) {
	e.buf.WriteByte(v)
}

func (e *encoder) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

// u128 encodes a decimal string amount.
func (e *encoder) u128(decimal string) {
	if e.err != nil {
		return
	}
	if decimal == "" {
		decimal = "0"
	}
	v, err := uint256.FromDecimal(decimal)
	if err != nil {
		e.err = fmt.Errorf("u128 %q: %w", decimal, err)
		return
	}
	if v.BitLen() > 128 {
		e.err = fmt.Errorf("u128 %q overflows", decimal)
		return
	}
	e.u64(v[0])
	e.u64(v[1])
}

func (e *encoder) bytes(b []byte) {
	e.u32(uint32(len(b)))
	e.buf.Write(b)
}

func (e *encoder) string(s string) {
	e.bytes([]byte(s))
}

func (e *encoder) fixed(b []byte) {
	e.buf.Write(b)
}

func (e *encoder) result() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf.Bytes(), nil
}
