package wordlist

// DefaultBatchSize is the number of words handed to a model per call.
const DefaultBatchSize = 1000

// batchProcess splits items into consecutive batches and calls fn with the
// offset of each batch. It stops at the first error.
func batchProcess[T any](items []T, batchSize int, fn func(offset int, batch []T) error) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		if err := fn(i, items[i:end]); err != nil {
			return err
		}
	}
	return nil
}
