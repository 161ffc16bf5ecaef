package msd

import (
	errors "github.com/go-sif/sif-msd/errors"
)

// PartitionKey is one symbol of a fixed, totally-ordered alphabet. Input files are
// bucketed into shards by the PartitionKey naming their top-level directory.
type PartitionKey string

// Alphabet is the ordered, finite set of PartitionKeys. Every worker must be
// configured with an identical Alphabet.
type Alphabet []PartitionKey

// DefaultAlphabet returns the uppercase Latin letters A-Z
func DefaultAlphabet() Alphabet {
	alphabet := make(Alphabet, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		alphabet = append(alphabet, PartitionKey(string(c)))
	}
	return alphabet
}

// AlphabetFromString produces an Alphabet containing one PartitionKey per rune of s, in order
func AlphabetFromString(s string) (Alphabet, error) {
	alphabet := make(Alphabet, 0, len(s))
	for _, r := range s {
		alphabet = append(alphabet, PartitionKey(string(r)))
	}
	if err := alphabet.Validate(); err != nil {
		return nil, err
	}
	return alphabet, nil
}

// Validate returns an error if this Alphabet is empty or contains duplicate keys
func (a Alphabet) Validate() error {
	if len(a) == 0 {
		return errors.EmptyAlphabetError{}
	}
	seen := make(map[PartitionKey]struct{}, len(a))
	for _, k := range a {
		if _, ok := seen[k]; ok {
			return errors.DuplicateKeyError{Key: string(k)}
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Strings returns the keys of this Alphabet as plain strings
func (a Alphabet) Strings() []string {
	res := make([]string, len(a))
	for i, k := range a {
		res[i] = string(k)
	}
	return res
}
