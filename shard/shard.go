package shard

import (
	"fmt"

	msd "github.com/go-sif/sif-msd"
	errors "github.com/go-sif/sif-msd/errors"
)

// Strategy describes how partition keys are distributed among workers
type Strategy = string

const (
	// Striped assigns the key at ordinal position p to worker p mod N
	Striped Strategy = "striped"
	// Contiguous assigns each worker one contiguous run of keys, with run lengths differing by at most one
	Contiguous Strategy = "contiguous"
)

// Identity is a worker's position within a pool of Total workers
type Identity struct {
	Total int // the number of workers in the pool
	Index int // this worker's ordinal, in [0, Total)
}

// Validate returns an InvalidWorkerError unless 0 <= Index < Total
func (id Identity) Validate() error {
	if id.Total <= 0 || id.Index < 0 || id.Index >= id.Total {
		return errors.InvalidWorkerError{Total: id.Total, Index: id.Index}
	}
	return nil
}

// ValidateStrategy returns an error if s is not a known Strategy
func ValidateStrategy(s Strategy) error {
	switch s {
	case Striped, Contiguous:
		return nil
	default:
		return fmt.Errorf("%q is an unknown shard strategy, must be %q or %q", s, Striped, Contiguous)
	}
}

// Assign computes the keys of alphabet owned by the worker id. The result preserves
// alphabet order and may be empty when there are more workers than keys.
func Assign(alphabet msd.Alphabet, id Identity, strategy Strategy) (msd.Alphabet, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := alphabet.Validate(); err != nil {
		return nil, err
	}
	switch strategy {
	case Striped:
		return striped(alphabet, id), nil
	case Contiguous:
		return contiguous(alphabet, id), nil
	default:
		return nil, ValidateStrategy(strategy)
	}
}

// Plan computes the keys owned by every worker in a pool of total workers
func Plan(alphabet msd.Alphabet, total int, strategy Strategy) ([]msd.Alphabet, error) {
	if total <= 0 {
		return nil, errors.InvalidWorkerError{Total: total}
	}
	plan := make([]msd.Alphabet, total)
	for i := 0; i < total; i++ {
		keys, err := Assign(alphabet, Identity{Total: total, Index: i}, strategy)
		if err != nil {
			return nil, err
		}
		plan[i] = keys
	}
	return plan, nil
}

func striped(alphabet msd.Alphabet, id Identity) msd.Alphabet {
	keys := msd.Alphabet{}
	for p := id.Index; p < len(alphabet); p += id.Total {
		keys = append(keys, alphabet[p])
	}
	return keys
}

func contiguous(alphabet msd.Alphabet, id Identity) msd.Alphabet {
	start := id.Index * len(alphabet) / id.Total
	end := (id.Index + 1) * len(alphabet) / id.Total
	keys := make(msd.Alphabet, end-start)
	copy(keys, alphabet[start:end])
	return keys
}
