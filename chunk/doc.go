// Package chunk buffers extracted Rows and hands them to a RowSink in fixed-size chunks.
// Every chunk holds exactly the configured number of Rows, except the final chunk of a
// worker, which holds whatever remains. A worker that ends with an empty buffer emits no
// trailing chunk.
package chunk
