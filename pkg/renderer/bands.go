package renderer

// Band is a contiguous range of image rows [Start, End) rendered by one goroutine
type Band struct {
	Index int
	Start int
	End   int
}

// Rows returns the number of rows in the band
func (b Band) Rows() int {
	return b.End - b.Start
}

// Bands splits height rows into at most n contiguous, non-overlapping bands
// that cover every row. Leftover rows go to the first bands, so band sizes
// differ by at most one.
func Bands(height, n int) []Band {
	if height <= 0 {
		return nil
	}
	n = max(1, min(n, height))

	bands := make([]Band, n)
	rowsPerBand := height / n
	extra := height % n

	start := 0
	for i := range bands {
		rows := rowsPerBand
		if i < extra {
			rows++
		}
		bands[i] = Band{Index: i, Start: start, End: start + rows}
		start += rows
	}
	return bands
}
