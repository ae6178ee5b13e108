package list

type stackElement[T any] struct {
	next  *stackElement[T]
	Value T
}

// Singly linked stack, the top element is the head of the list.
type linkedStack[T any] struct {
	top *stackElement[T]
	len int64
}

func (s *linkedStack[T]) Len() int64 {
	return s.len
}

func (s *linkedStack[T]) IsEmpty() bool {
	return s.top == nil
}

func (s *linkedStack[T]) Push(item T) {
	s.top = &stackElement[T]{
		next:  s.top,
		Value: item,
	}
	s.len++
}

func (s *linkedStack[T]) Pop() (T, error) {
	if s.top == nil {
		return *new(T), ErrEmptyStack
	}
	e := s.top
	s.top, e.next = e.next, nil
	s.len--
	return e.Value, nil
}

func (s *linkedStack[T]) Peek() (T, error) {
	if s.top == nil {
		return *new(T), ErrEmptyStack
	}
	return s.top.Value, nil
}

func NewLinkedStack[T any]() Stack[T] {
	return &linkedStack[T]{}
}
