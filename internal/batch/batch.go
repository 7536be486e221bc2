package batch

// Batch is a contiguous slice of the input.
type Batch struct {
	// Index is the batch's position in the input, starting at 0.
	Index int

	// Offset is the input line number of the first line, starting at 0.
	Offset int

	Lines []string
}

// Size returns the number of lines in the batch.
func (b Batch) Size() int {
	return len(b.Lines)
}

// Split partitions lines into contiguous batches of at most size lines,
// preserving order. A non-positive size puts everything in one batch.
// Batches share the backing array of lines.
func Split(lines []string, size int) []Batch {
	if len(lines) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(lines)
	}
	batches := make([]Batch, 0, (len(lines)+size-1)/size)
	for start := 0; start < len(lines); start += size {
		end := min(start+size, len(lines))
		batches = append(batches, Batch{
			Index:  len(batches),
			Offset: start,
			Lines:  lines[start:end:end],
		})
	}
	return batches
}
