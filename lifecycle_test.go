package webpdf

import (
	"context"
	"testing"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lifecycleEvent(frame, loader, name string) *page.EventLifecycleEvent {
	return &page.EventLifecycleEvent{FrameID: cdp.FrameID(frame), LoaderID: cdp.LoaderID(loader), Name: name}
}

func TestLifecycle_WaitAfterEvent(t *testing.T) {
	l := newLifecycle()
	l.setFrame("main")
	l.handle(lifecycleEvent("main", "L1", lifecycleDOMContentLoaded))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, l.wait(ctx, "L1", lifecycleDOMContentLoaded))
}

func TestLifecycle_WaitBeforeEvent(t *testing.T) {
	l := newLifecycle()
	l.setFrame("main")

	done := make(chan error, 1)
	go func() {
		done <- l.wait(context.Background(), "L1", lifecycleNetworkIdle)
	}()

	time.Sleep(20 * time.Millisecond)
	l.handle(lifecycleEvent("main", "L1", lifecycleNetworkIdle))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not return after the event fired")
	}
}

func TestLifecycle_RepeatedEvent(t *testing.T) {
	l := newLifecycle()
	// Chrome may report networkIdle more than once per document.
	l.handle(lifecycleEvent("main", "L1", lifecycleNetworkIdle))
	l.handle(lifecycleEvent("main", "L1", lifecycleNetworkIdle))
	require.NoError(t, l.wait(context.Background(), "L1", lifecycleNetworkIdle))
}

func TestLifecycle_IgnoresOtherFramesAndLoaders(t *testing.T) {
	l := newLifecycle()
	l.setFrame("main")
	l.handle(lifecycleEvent("iframe", "L1", lifecycleDOMContentLoaded))
	l.handle(lifecycleEvent("main", "L0", lifecycleDOMContentLoaded))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := l.wait(ctx, "L1", lifecycleDOMContentLoaded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLifecycle_LatestLoader(t *testing.T) {
	l := newLifecycle()
	l.setFrame("main")
	assert.Empty(t, l.latest)

	l.handle(lifecycleEvent("main", "L1", lifecycleInit))
	l.handle(lifecycleEvent("iframe", "X", lifecycleInit))
	assert.Equal(t, cdp.LoaderID("L1"), l.latest)

	l.handle(lifecycleEvent("main", "L2", lifecycleInit))
	assert.Equal(t, cdp.LoaderID("L2"), l.latest)

	// A navigation answered after its document was replaced keeps the newer one.
	l.adopt("L1")
	assert.Equal(t, cdp.LoaderID("L2"), l.latest)

	l.adopt("L3")
	assert.Equal(t, cdp.LoaderID("L3"), l.latest)
}

func TestLifecycle_WaitCurrentAfterReplace(t *testing.T) {
	l := newLifecycle()
	l.setFrame("main")
	l.adopt("L1")

	// location.replace after DOMContentLoaded: L1 never reaches networkIdle.
	l.handle(lifecycleEvent("main", "L1", lifecycleInit))
	l.handle(lifecycleEvent("main", "L1", lifecycleDOMContentLoaded))
	l.handle(lifecycleEvent("main", "L2", lifecycleInit))
	l.handle(lifecycleEvent("main", "L2", lifecycleDOMContentLoaded))
	l.handle(lifecycleEvent("main", "L2", lifecycleNetworkIdle))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, l.waitCurrent(ctx, lifecycleNetworkIdle))
}

func TestLifecycle_WaitCurrentFollowsReplacement(t *testing.T) {
	l := newLifecycle()
	l.setFrame("main")
	l.adopt("L1")
	l.handle(lifecycleEvent("main", "L1", lifecycleInit))
	l.handle(lifecycleEvent("main", "L1", lifecycleDOMContentLoaded))

	done := make(chan error, 1)
	go func() {
		done <- l.waitCurrent(context.Background(), lifecycleNetworkIdle)
	}()

	time.Sleep(20 * time.Millisecond)
	l.handle(lifecycleEvent("main", "L2", lifecycleInit))
	select {
	case err := <-done:
		t.Fatalf("wait returned before the new document went idle: %v", err)
	case <-time.After(20 * time.Millisecond):
	}
	l.handle(lifecycleEvent("main", "L2", lifecycleNetworkIdle))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not follow the replacing document")
	}
}

func TestLifecycle_WaitCurrentTimeout(t *testing.T) {
	l := newLifecycle()
	l.setFrame("main")
	l.adopt("L1")
	l.handle(lifecycleEvent("main", "L1", lifecycleInit))
	// An idle subframe does not count for the main document.
	l.handle(lifecycleEvent("iframe", "X", lifecycleNetworkIdle))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.waitCurrent(ctx, lifecycleNetworkIdle), context.DeadlineExceeded)
}

func TestTimedOut(t *testing.T) {
	parent := context.Background()
	assert.True(t, timedOut(parent, context.DeadlineExceeded))
	assert.False(t, timedOut(parent, context.Canceled))
	assert.False(t, timedOut(parent, nil))

	expired, cancel := context.WithTimeout(parent, 0)
	defer cancel()
	<-expired.Done()
	// The capture's own deadline is not a step timeout.
	assert.False(t, timedOut(expired, context.DeadlineExceeded))
}
