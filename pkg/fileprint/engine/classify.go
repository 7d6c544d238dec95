package engine

// binaryByte marks bytes that are neither printable nor whitespace in the
// C locale. Printable is 0x20..0x7E; whitespace is 0x09..0x0D and 0x20.
// Everything at or above 0x80 is binary. The table is fixed so counts do not
// depend on the process locale.
var binaryByte = func() [256]bool {
	var table [256]bool
	for i := range table {
		b := byte(i)
		printable := b >= 0x20 && b <= 0x7E
		space := b == ' ' || (b >= '\t' && b <= '\r')
		table[i] = !printable && !space
	}
	return table
}()

// IsBinary reports whether b counts toward the binary-byte census.
func IsBinary(b byte) bool {
	return binaryByte[b]
}
