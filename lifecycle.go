package webpdf

import (
	"context"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
)

// Lifecycle event names reported by Chrome.
const (
	lifecycleInit             = "init"
	lifecycleDOMContentLoaded = "DOMContentLoaded"
	lifecycleNetworkIdle      = "networkIdle"
)

type lifecycleKey struct {
	loader cdp.LoaderID
	name   string
}

// lifecycle records page lifecycle events of the main frame so that a
// waiter can ask for an event that may already have fired.
type lifecycle struct {
	mu      sync.Mutex
	frame   cdp.FrameID
	latest  cdp.LoaderID
	started map[cdp.LoaderID]bool
	replace chan struct{} // closed and renewed when latest changes
	signals map[lifecycleKey]chan struct{}
}

func newLifecycle() *lifecycle {
	return &lifecycle{
		started: make(map[cdp.LoaderID]bool),
		replace: make(chan struct{}),
		signals: make(map[lifecycleKey]chan struct{}),
	}
}

// setLatest makes loader the current document. l.mu must be held.
func (l *lifecycle) setLatest(loader cdp.LoaderID) {
	if l.latest == loader {
		return
	}
	l.latest = loader
	close(l.replace)
	l.replace = make(chan struct{})
}

// setFrame restricts tracking to frame. Events of other frames are ignored.
func (l *lifecycle) setFrame(frame cdp.FrameID) {
	l.mu.Lock()
	l.frame = frame
	l.mu.Unlock()
}

// signal returns the channel closed once key has been seen. l.mu must be held.
func (l *lifecycle) signal(key lifecycleKey) chan struct{} {
	ch, ok := l.signals[key]
	if !ok {
		ch = make(chan struct{})
		l.signals[key] = ch
	}
	return ch
}

func (l *lifecycle) handle(ev any) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.frame != "" && e.FrameID != l.frame {
		return
	}
	if e.Name == lifecycleInit {
		l.started[e.LoaderID] = true
		l.setLatest(e.LoaderID)
	}
	ch := l.signal(lifecycleKey{loader: e.LoaderID, name: e.Name})
	select {
	case <-ch:
	default:
		close(ch)
	}
}

// adopt marks loader, returned by a navigation, as the current document
// unless its init event was already seen, in which case latest is either
// loader or a newer document that replaced it.
func (l *lifecycle) adopt(loader cdp.LoaderID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if loader == "" || l.started[loader] {
		return
	}
	l.setLatest(loader)
}

// waitCurrent blocks until name has fired for the main frame's current
// document. When a newer document replaces it, the wait moves on to that one.
func (l *lifecycle) waitCurrent(ctx context.Context, name string) error {
	for {
		l.mu.Lock()
		done := l.signal(lifecycleKey{loader: l.latest, name: name})
		replaced := l.replace
		l.mu.Unlock()

		select {
		case <-done:
			return nil
		case <-replaced:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// wait blocks until name has fired for loader or ctx is done.
func (l *lifecycle) wait(ctx context.Context, loader cdp.LoaderID, name string) error {
	l.mu.Lock()
	ch := l.signal(lifecycleKey{loader: loader, name: name})
	l.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
