// Package extract converts a single song file into a Row of stringified fields. The binary
// format itself is read by a SongReader, so the field table, value formatting and skip rules
// here are independent of any particular file library.
package extract
