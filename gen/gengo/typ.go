package gengo

import (
	"fmt"

	"github.com/rudihorn/prot2go/schema"
)

// GoType returns the Go value type holding a field of the given bit width.
// A single bit is represented as bool.
func GoType(bits uint32) (string, error) {
	w, err := schema.RegisterWidth(bits)
	if err != nil {
		return "", err
	}
	switch w {
	case 1:
		return "bool", nil
	case 8:
		return "uint8", nil
	case 16:
		return "uint16", nil
	case 32:
		return "uint32", nil
	}
	return "uint64", nil
}

// GoRegType returns the unsigned Go type backing a register of the given bit
// width. Registers are at least one byte wide.
func GoRegType(bits uint32) (string, error) {
	if bits == 1 {
		bits = schema.BitsPerByte
	}
	return GoType(bits)
}

// GoTypeBytes returns the unsigned Go type for a primitive member of the
// given byte width.
func GoTypeBytes(bytes uint32) (string, error) {
	switch bytes {
	case 1, 2, 4, 8:
		return GoRegType(bytes * schema.BitsPerByte)
	}
	return "", fmt.Errorf("%w: %d bytes", schema.ErrWidth, bytes)
}

// hex formats n as a grouped unsuffixed hex literal, the way masks read best.
func hex(n uint64) string {
	switch {
	case n >= 1<<48:
		return fmt.Sprintf("0x%04x_%04x_%04x_%04x", n>>48&0xffff, n>>32&0xffff, n>>16&0xffff, n&0xffff)
	case n >= 1<<32:
		return fmt.Sprintf("0x%04x_%04x_%04x", n>>32&0xffff, n>>16&0xffff, n&0xffff)
	case n >= 1<<16:
		return fmt.Sprintf("0x%04x_%04x", n>>16&0xffff, n&0xffff)
	case n >= 1<<8:
		return fmt.Sprintf("0x%04x", n)
	}
	return fmt.Sprintf("0x%02x", n)
}
