package perception

import "sync"

// PerceptQueue is an unbounded FIFO safe for concurrent use.
type PerceptQueue struct {
	mutex sync.Mutex
	items []Percept
}

func NewPerceptQueue() *PerceptQueue {
	return &PerceptQueue{
		items: make([]Percept, 0),
	}
}

func (q *PerceptQueue) Push(p Percept) {
	q.mutex.Lock()
	q.items = append(q.items, p)
	q.mutex.Unlock()
}

func (q *PerceptQueue) Pop() (Percept, bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}

	p := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]

	return p, true
}

func (q *PerceptQueue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return len(q.items)
}

func (q *PerceptQueue) Clear() {
	q.mutex.Lock()
	q.items = q.items[:0]
	q.mutex.Unlock()
}
