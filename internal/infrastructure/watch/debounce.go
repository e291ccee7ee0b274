// Package watch invalidates cached template configurations when their
// files change on disk.
package watch

import (
	"sync"
	"time"
)

// keyedDebouncer coalesces rapid events per key into a single callback
// invocation after the window elapses with no further events for that key.
type keyedDebouncer struct {
	window   time.Duration
	callback func(key string)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newKeyedDebouncer(window time.Duration, callback func(key string)) *keyedDebouncer {
	return &keyedDebouncer{
		window:   window,
		callback: callback,
		timers:   make(map[string]*time.Timer),
	}
}

// trigger (re)starts the timer for a key.
func (d *keyedDebouncer) trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}
	d.timers[key] = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		d.callback(key)
	})
}

// stop cancels every pending callback.
func (d *keyedDebouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
	}
}
