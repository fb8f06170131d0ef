package evictingqueue

import "sync"

//
// EvictingQueue is a thread-safe queue structure that automatically maintains the desired maximum
// size by evicting its oldest element if a new element is being added when at capacity. It is
// modeled after the EvictingQueue class from the Google Guava library for Java.
//
type EvictingQueue[T any] struct {
	mu    *sync.Mutex
	size  int
	queue []T
}

//
// New instantiates a new evicting queue with the specified maximum size.
//
func New[T any](maxSize int) *EvictingQueue[T] {
	return &EvictingQueue[T]{
		mu:    &sync.Mutex{},
		size:  maxSize,
		queue: make([]T, 0, max(maxSize, 0)),
	}
}

//
// Add appends the provided element to the evicting queue and evicts the oldest element if necessary
// to maintain its maximum size.
//
func (o *EvictingQueue[T]) Add(e T) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.size <= 0 {
		return
	}

	//
	// Remove the oldest element from the tail of the queue if we are currently at capacity.
	//
	if len(o.queue) == o.size {
		o.queue = o.queue[1:]
	}

	//
	// Append the new element to head of the queue.
	//
	o.queue = append(o.queue, e)
}

//
// Get returns the element that exists at the specified index of the queue and a true sentinel, or
// the zero value and a false sentinel if the index is out-of-range.
//
func (o *EvictingQueue[T]) Get(index int) (T, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if index < 0 || index >= len(o.queue) {
		var zero T

		return zero, false
	}

	return o.queue[index], true
}

//
// Values returns a copy of the queue's elements, oldest first.
//
func (o *EvictingQueue[T]) Values() []T {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]T(nil), o.queue...)
}

//
// Len returns the current length of the queue.
//
func (o *EvictingQueue[T]) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.queue)
}

func (o *EvictingQueue[T]) Full() bool {
	return o.Len() == o.size
}
