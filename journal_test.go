package webpdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestJournal_Order(t *testing.T) {
	var j Journal
	j.Add("[goto] TIMEOUT on domcontentloaded")
	j.Addf("[html] saved %s (%d chars)", "x_debug.html", 12)

	assert.Equal(t, []string{
		"[goto] TIMEOUT on domcontentloaded",
		"[html] saved x_debug.html (12 chars)",
	}, j.Lines())
	assert.Equal(t, 2, j.Len())
	assert.Equal(t, "[goto] TIMEOUT on domcontentloaded\n[html] saved x_debug.html (12 chars)", j.String())
}

func TestJournal_LinesIsCopy(t *testing.T) {
	var j Journal
	j.Add("a")
	lines := j.Lines()
	lines[0] = "b"
	assert.Equal(t, []string{"a"}, j.Lines())
}

func TestJournal_WriteFileEmpty(t *testing.T) {
	var j Journal
	path := filepath.Join(t.TempDir(), "x_debug.log")
	require.NoError(t, j.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestJournal_WriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x_debug.log")
	require.NoError(t, os.WriteFile(path, []byte("old content that is longer"), 0o644))

	var j Journal
	j.Add("one")
	j.Add("two")
	require.NoError(t, j.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", string(data))
}

func TestJournal_ConcurrentAdd(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var j Journal
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				j.Addf("[console:log] worker %d line %d", w, i)
			}
		}(w)
	}
	wg.Wait()

	require.Equal(t, 800, j.Len())

	// Each writer's lines keep their relative order.
	next := make(map[int]int)
	for _, line := range j.Lines() {
		var w, i int
		_, err := fmt.Sscanf(line, "[console:log] worker %d line %d", &w, &i)
		require.NoError(t, err)
		assert.Equal(t, next[w], i)
		next[w] = i + 1
	}
}
