package crawler

import (
	"container/heap"

	"github.com/dtnitsch/llm-web-harvester/models"
)

// Frontier is a max-priority queue of links by score. Links with equal
// scores come out in the order they were pushed. A URL is accepted at most
// once over the frontier's lifetime. Frontier is not safe for concurrent
// use; Session serializes access.
type Frontier struct {
	items  frontierHeap
	queued map[string]struct{}
	seq    uint64
}

type frontierItem struct {
	link models.ScoredLink
	seq  uint64
}

type frontierHeap []frontierItem

func (h frontierHeap) Len() int { return len(h) }

func (h frontierHeap) Less(i, j int) bool {
	if h[i].link.Score != h[j].link.Score {
		return h[i].link.Score > h[j].link.Score
	}
	return h[i].seq < h[j].seq
}

func (h frontierHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *frontierHeap) Push(x any) { *h = append(*h, x.(frontierItem)) }

func (h *frontierHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func NewFrontier() *Frontier {
	return &Frontier{queued: make(map[string]struct{})}
}

// Push adds link unless its URL was pushed before.
func (f *Frontier) Push(link models.ScoredLink) bool {
	if _, ok := f.queued[link.URL]; ok {
		return false
	}
	f.queued[link.URL] = struct{}{}
	heap.Push(&f.items, frontierItem{link: link, seq: f.seq})
	f.seq++
	return true
}

// Pop removes the highest-scoring link.
func (f *Frontier) Pop() (models.ScoredLink, bool) {
	if len(f.items) == 0 {
		return models.ScoredLink{}, false
	}
	item := heap.Pop(&f.items).(frontierItem)
	return item.link, true
}

func (f *Frontier) Len() int {
	return len(f.items)
}
