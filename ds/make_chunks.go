package ds

// MakeChunks groups ts into chunks of n elements; the last chunk holds the
// remainder. For example,
//
//	MakeChunks([]int{1, 2, 3, 4, 5}, 2)
//
// returns
//
//	[][]int{{1, 2}, {3, 4}, {5}}
func MakeChunks[T any](ts []T, n int) [][]T {
	if n <= 0 {
		return [][]T{ts}
	}
	chunks := make([][]T, 0, len(ts)/n+1)
	for i := 0; i < len(ts); i += n {
		end := i + n
		if end > len(ts) {
			end = len(ts)
		}
		chunks = append(chunks, ts[i:end])
	}
	return chunks
}
