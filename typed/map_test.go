package typed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapSetGetDelete(t *testing.T) {
	m := New[string, int](8)

	_, had := m.Set("a", 1)
	assert.False(t, had)

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	prev, had := m.Set("a", 2)
	assert.True(t, had)
	assert.Equal(t, 1, prev)

	v, ok = m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	removed, ok := m.Delete("a")
	assert.True(t, ok)
	assert.Equal(t, 2, removed)

	_, ok = m.Get("a")
	assert.False(t, ok)
}

func TestMapDistinctKeys(t *testing.T) {
	m := New[int, string](4)

	for i := 0; i < 50; i++ {
		_, had := m.Set(i, "v")
		assert.False(t, had)
	}
	for i := 0; i < 50; i++ {
		v, ok := m.Get(i)
		assert.True(t, ok)
		assert.Equal(t, "v", v)
	}
}
