// Package testutil provides fixtures shared across package tests.
package testutil

import (
	"bytes"
	"fmt"
	"strings"
)

// PDF builds a minimal valid PDF with the given number of blank US-letter
// pages, entirely in memory. The cross-reference table carries real byte
// offsets, so strict readers accept the output.
func PDF(pages int) []byte {
	if pages < 0 {
		pages = 0
	}

	var buf bytes.Buffer
	size := 3 + 2*pages // obj 0 (free) + catalog + pages + N pages + N content streams
	offsets := make([]int, size)

	buf.WriteString("%PDF-1.4\n")

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, pages)
	for i := 0; i < pages; i++ {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), pages))

	for i := 0; i < pages; i++ {
		writeObj(3+i, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents %d 0 R >>",
			3+pages+i))
	}

	for i := 0; i < pages; i++ {
		stream := "q Q"
		writeObj(3+pages+i, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream",
			len(stream), stream))
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num < size; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		size, xrefPos)

	return buf.Bytes()
}
