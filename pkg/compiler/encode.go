package compiler

import "encoding/binary"

// Operand encoding mirrors pkg/vm's decode side exactly: big-endian
// unsigned for both widths. The emitter owns the encode direction since
// only it ever produces bytecode, and the VM only ever consumes it.

func shortestWidth(n int, op1, op3 byte) (op byte, ok bool) {
	switch {
	case n < 0:
		return 0, false
	case n <= 0xFF:
		return op1, true
	case n <= 0xFFFFFF:
		return op3, true
	default:
		return 0, false
	}
}

func encodeOperand1(code []byte, n int) []byte {
	return append(code, byte(n))
}

func encodeOperand3(code []byte, n int) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(n))
	return append(code, buf[1], buf[2], buf[3])
}

// patchOperand3 overwrites the 3-byte operand starting at pos (already
// emitted as a placeholder) with n's big-endian encoding, used to back-
// patch JUMP/JUMP_IF_NOT targets once the jump destination is known.
func patchOperand3(code []byte, pos int, n int) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(n))
	code[pos] = buf[1]
	code[pos+1] = buf[2]
	code[pos+2] = buf[3]
}
