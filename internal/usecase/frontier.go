package usecase

// frontier is the queue and visited-set of one crawl job. It is owned by a
// single coordinator goroutine and needs no locking.
type frontier struct {
	budget  int
	queue   []string
	queued  map[string]struct{}
	visited map[string]struct{}
	dropped int // links not stored because they could never be dequeued
}

func newFrontier(start string, budget int) *frontier {
	f := &frontier{
		budget:  budget,
		queued:  make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
	f.enqueue(start)
	return f
}

// remaining is how many more URLs the job may render.
func (f *frontier) remaining() int {
	return f.budget - len(f.visited)
}

func (f *frontier) done() bool {
	return len(f.queue) == 0 || f.remaining() <= 0
}

// enqueue adds url unless it was visited or queued already, or the queue
// already holds as many URLs as the budget can still render.
func (f *frontier) enqueue(url string) bool {
	if _, ok := f.visited[url]; ok {
		return false
	}
	if _, ok := f.queued[url]; ok {
		return false
	}
	if len(f.queue) >= f.remaining() {
		f.dropped++
		return false
	}
	f.queue = append(f.queue, url)
	f.queued[url] = struct{}{}
	return true
}

// next dequeues up to n unvisited URLs in FIFO order and marks them visited.
func (f *frontier) next(n int) []string {
	var batch []string
	for len(batch) < n && len(f.queue) > 0 && f.remaining() > 0 {
		url := f.queue[0]
		f.queue[0] = ""
		f.queue = f.queue[1:]
		delete(f.queued, url)
		if _, ok := f.visited[url]; ok {
			continue
		}
		f.visited[url] = struct{}{}
		batch = append(batch, url)
	}
	return batch
}
