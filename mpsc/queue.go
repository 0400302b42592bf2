package mpsc

type node[T any] struct {
	value T
	next  *node[T]
}

// queue is a singly linked FIFO. It is not synchronized; the owning state's
// mutex guards it.
type queue[T any] struct {
	head *node[T]
	tail *node[T]
	len  int
}

func (q *queue[T]) push(value T) {
	n := &node[T]{value: value}
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.len++
}

func (q *queue[T]) pop() (zero T, _ bool) {
	n := q.head
	if n == nil {
		return zero, false
	}
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.len--
	n.next = nil
	return n.value, true
}

func (q *queue[T]) clear() {
	for n := q.head; n != nil; {
		next := n.next
		n.next = nil
		n = next
	}
	q.head = nil
	q.tail = nil
	q.len = 0
}
