package util

import (
	"fmt"
)

// ExtractOperation converts the file at path into a row of stringified values
type ExtractOperation func(path string) ([]string, error)

// SafeExtractOperation wraps an ExtractOperation such that panics are recovered and nice error messages are constructed
func SafeExtractOperation(extractOp ExtractOperation) (safeExtractOp ExtractOperation) {
	return func(path string) (row []string, err error) {
		defer func() {
			if r := recover(); r != nil {
				row = nil
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Extract Panic: %w\nFile: %s\n%s", anErr, path, GetTrace())
				} else {
					err = fmt.Errorf("Extract Panic: %v\nFile: %s\n%s", r, path, GetTrace())
				}
			}
		}()
		row, err = extractOp(path)
		return
	}
}
