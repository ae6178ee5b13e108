package list

import "errors"

var ErrEmptyStack = errors.New("[stack] empty stack")

// Stack is a LIFO container. It is not thread safe.
type Stack[T any] interface {
	Len() int64
	IsEmpty() bool
	// Push puts the item on the top of the stack.
	Push(item T)
	// Pop removes and returns the top item or ErrEmptyStack.
	Pop() (T, error)
	// Peek returns the top item without removing it or ErrEmptyStack.
	Peek() (T, error)
}
