package id

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	t.Parallel()

	ids := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		ids = append(ids, New())
	}
	assert.True(t, sort.StringsAreSorted(ids))

	seen := map[string]bool{}
	for _, s := range ids {
		assert.Len(t, s, 26)
		assert.False(t, seen[s])
		seen[s] = true
	}
}

func TestNewAtCarriesTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 15, 10, 30, 45, 123_000_000, time.UTC)
	got, err := Time(NewAt(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(got.UTC()))
}

func TestNewAtConcurrent(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	out := make(chan string, 100)
	var wg sync.WaitGroup
	for i := 0; i < cap(out); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out <- NewAt(at)
		}()
	}
	wg.Wait()
	close(out)

	seen := map[string]bool{}
	for s := range out {
		assert.False(t, seen[s])
		seen[s] = true
	}
	assert.Len(t, seen, 100)
}

func TestTimeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Time("not-a-ulid")
	assert.Error(t, err)
}
