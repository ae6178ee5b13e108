package tree

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMap           = errors.New("[rbtree] map is empty")
	ErrDuplicateKey       = errors.New("[rbtree] duplicate key")
	ErrKeyNotFound        = errors.New("[rbtree] key not found")
	ErrTraversalExhausted = errors.New("[rbtree] traversal exhausted")
	ErrNilTree            = errors.New("[rbtree] nil tree")
)

// KeyError carries the key which an operation was rejected for.
// It unwraps to ErrDuplicateKey or ErrKeyNotFound.
type KeyError[K any] struct {
	Key K
	err error
}

func (e *KeyError[K]) Error() string {
	return fmt.Sprintf("%s, key=%v", e.err.Error(), e.Key)
}

func (e *KeyError[K]) Unwrap() error {
	return e.err
}

func newKeyError[K any](err error, key K) error {
	return &KeyError[K]{Key: key, err: err}
}
