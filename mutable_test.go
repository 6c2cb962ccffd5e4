package debounce

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/romdo/go-debounce/v2/internal/clock"
)

func TestNewMutable(t *testing.T) {
	t.Run("last function wins", func(t *testing.T) {
		c := clock.NewFake(epoch)
		var got []int
		debounced, _ := NewMutable(ms(200), WithClock(c))

		for i := 0; i < 3; i++ {
			i := i
			debounced(func() { got = append(got, i) })
			c.Advance(ms(50))
		}
		assert.Empty(t, got)

		c.Advance(ms(150))
		assert.Equal(t, []int{2}, got)
	})

	t.Run("cancel", func(t *testing.T) {
		c := clock.NewFake(epoch)
		var got []int
		debounced, cancel := NewMutable(ms(200), WithClock(c))

		debounced(func() { got = append(got, 1) })
		c.Advance(ms(100))
		cancel()
		c.Advance(ms(500))
		assert.Empty(t, got)

		debounced(func() { got = append(got, 2) })
		c.Advance(ms(200))
		assert.Equal(t, []int{2}, got)
	})

	t.Run("leading", func(t *testing.T) {
		c := clock.NewFake(epoch)
		var got []int
		debounced, _ := NewMutable(ms(200), WithClock(c), WithLeading(true))

		debounced(func() { got = append(got, 1) })
		debounced(func() { got = append(got, 2) })
		debounced(func() { got = append(got, 3) })
		assert.Equal(t, []int{1}, got)

		c.Advance(ms(200))
		assert.Equal(t, []int{1, 3}, got)
	})

	t.Run("nil function", func(t *testing.T) {
		c := clock.NewFake(epoch)
		debounced, _ := NewMutable(ms(200), WithClock(c))

		debounced(nil)
		assert.NotPanics(t, func() { c.Advance(ms(200)) })
	})

	t.Run("max wait", func(t *testing.T) {
		c := clock.NewFake(epoch)
		var got []int
		debounced, _ := NewMutable(ms(100), WithClock(c), WithMaxWait(ms(250)))

		for i := 0; i < 10; i++ {
			i := i
			debounced(func() { got = append(got, i) })
			c.Advance(ms(50))
		}

		assert.Equal(t, []int{4, 9}, got)
	})
}
