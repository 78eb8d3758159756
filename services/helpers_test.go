package services

import "bytes"

// bytesReader adapts a generated workbook to the io.Reader that
// excelize.OpenReader expects.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
