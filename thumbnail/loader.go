package thumbnail

import (
	"image"
	"sync"
)

const maxPending = 100

type request struct {
	path     string
	callback func(image.Image)
}

// Loader feeds a Cache from a small pool of workers so a view can ask for many thumbnails
// without blocking. Requests are served newest first; when more than maxPending are waiting
// the oldest is dropped, which keeps scrolling responsive.
type Loader struct {
	cache    *Cache
	requests []request
	reqLock  sync.Mutex
	reqCond  *sync.Cond
	closed   bool
	wg       sync.WaitGroup
}

// NewLoader starts workers goroutines serving cache.
func NewLoader(cache *Cache, workers int) *Loader {
	if workers <= 0 {
		workers = 4
	}
	l := &Loader{
		cache:    cache,
		requests: make([]request, 0, maxPending),
	}
	l.reqCond = sync.NewCond(&l.reqLock)

	l.wg.Add(workers)
	for range workers {
		go l.worker()
	}
	return l
}

// Cache returns the cache the loader serves.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Load calls callback with the thumbnail for path. A memory hit is delivered synchronously;
// otherwise the callback runs on a worker goroutine. Failed renders never call back.
func (l *Loader) Load(path string, callback func(image.Image)) {
	if img, ok := l.cache.Peek(path); ok {
		callback(img)
		return
	}

	l.reqLock.Lock()
	defer l.reqLock.Unlock()
	if l.closed {
		return
	}
	if len(l.requests) >= maxPending {
		l.requests = l.requests[1:]
	}
	l.requests = append(l.requests, request{path: path, callback: callback})
	l.reqCond.Signal()
}

// Close discards pending requests and waits for running renders to finish.
func (l *Loader) Close() {
	l.reqLock.Lock()
	l.closed = true
	l.requests = nil
	l.reqCond.Broadcast()
	l.reqLock.Unlock()
	l.wg.Wait()
}

func (l *Loader) worker() {
	defer l.wg.Done()
	for {
		l.reqLock.Lock()
		for len(l.requests) == 0 && !l.closed {
			l.reqCond.Wait()
		}
		if l.closed {
			l.reqLock.Unlock()
			return
		}
		// LIFO
		last := len(l.requests) - 1
		req := l.requests[last]
		l.requests = l.requests[:last]
		l.reqLock.Unlock()

		img, err := l.cache.Get(req.path)
		if err != nil {
			l.cache.log.Debug().Err(err).Str("file", req.path).Msg("thumbnail failed")
			continue
		}
		req.callback(img)
	}
}
