package wfc

import (
	"container/heap"
	"math"
)

// shannonEntropy returns -sum(p * log2(p)) over the nonzero entries of a
// normalized probability vector. A one-hot vector scores 0, a uniform N-way
// vector log2(N).
func shannonEntropy(ps []float64) float64 {
	e := 0.0
	for _, p := range ps {
		if p == 0 {
			continue
		}
		e -= p * math.Log2(p)
	}
	return e
}

// entropyQueue is an indexed max-heap of cells keyed by position with the
// cell's current entropy as priority. A dense position -> heap slot table
// gives O(log n) in-place reprioritization, which a plain heap cannot offer.
type entropyQueue struct {
	h *entropyHeap
}

type entropyItem struct {
	pos     Position
	entropy float64
}

func newEntropyQueue(width, height int) *entropyQueue {
	slots := make([]int, width*height)
	for i := range slots {
		slots[i] = -1
	}
	return &entropyQueue{
		h: &entropyHeap{width: width, slots: slots},
	}
}

// Len returns the number of tracked cells.
func (q *entropyQueue) Len() int {
	return len(q.h.items)
}

// Upsert tracks a cell at the given entropy, or refreshes its priority in
// place if it is already tracked.
func (q *entropyQueue) Upsert(p Position, entropy float64) {
	if slot := q.h.slots[q.h.cell(p)]; slot >= 0 {
		q.h.items[slot].entropy = entropy
		heap.Fix(q.h, slot)
		return
	}
	heap.Push(q.h, entropyItem{pos: p, entropy: entropy})
}

// PopMax removes and returns the tracked cell with the highest entropy.
func (q *entropyQueue) PopMax() (Position, float64, bool) {
	if len(q.h.items) == 0 {
		return Position{}, 0, false
	}
	item := heap.Pop(q.h).(entropyItem)
	return item.pos, item.entropy, true
}

// entropyHeap implements heap.Interface, maintaining the slot table through
// swaps so entries stay addressable by position.
type entropyHeap struct {
	items []entropyItem
	slots []int
	width int
}

func (h *entropyHeap) cell(p Position) int {
	return p.Y*h.width + p.X
}

func (h *entropyHeap) Len() int {
	return len(h.items)
}

func (h *entropyHeap) Less(i, j int) bool {
	return h.items[i].entropy > h.items[j].entropy
}

func (h *entropyHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.slots[h.cell(h.items[i].pos)] = i
	h.slots[h.cell(h.items[j].pos)] = j
}

func (h *entropyHeap) Push(x any) {
	item := x.(entropyItem)
	h.slots[h.cell(item.pos)] = len(h.items)
	h.items = append(h.items, item)
}

func (h *entropyHeap) Pop() any {
	last := len(h.items) - 1
	item := h.items[last]
	h.items = h.items[:last]
	h.slots[h.cell(item.pos)] = -1
	return item
}
