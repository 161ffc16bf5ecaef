// Package sink provides msd.RowSink implementations which persist chunks of Rows as CSV
// files, either kept in a local staging directory or uploaded to an S3 bucket.
package sink
