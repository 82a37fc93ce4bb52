package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MasterOfBinary/orderflow/delay"
	"github.com/MasterOfBinary/orderflow/item"
	"github.com/MasterOfBinary/orderflow/source"
)

func TestFixed(t *testing.T) {
	s := source.Fixed(item.Salad)
	for i := 0; i < 10; i++ {
		assert.Equal(t, item.Salad, s.Next())
	}
}

func TestSequence(t *testing.T) {
	s := source.Sequence(item.Pizza, item.Soup, item.Sushi)

	var got []item.Kind
	for i := 0; i < 7; i++ {
		got = append(got, s.Next())
	}
	assert.Equal(t, []item.Kind{
		item.Pizza, item.Soup, item.Sushi,
		item.Pizza, item.Soup, item.Sushi,
		item.Pizza,
	}, got)

	all := source.Sequence()
	assert.Equal(t, item.Pizza, all.Next())
	assert.Equal(t, item.Soup, all.Next())
}

func TestUniform(t *testing.T) {
	t.Run("covers every kind", func(t *testing.T) {
		s := source.Uniform(delay.NewRand(5))
		seen := make(map[item.Kind]int)
		for i := 0; i < 5000; i++ {
			seen[s.Next()]++
		}
		assert.Len(t, seen, 5)
		for k, n := range seen {
			// Expect roughly 1000 each.
			assert.InDelta(t, 1000, n, 200, "kind %s", k)
		}
	})

	t.Run("restricted to subset", func(t *testing.T) {
		s := source.Uniform(nil, item.Steak, item.Soup)
		for i := 0; i < 500; i++ {
			k := s.Next()
			assert.Contains(t, []item.Kind{item.Steak, item.Soup}, k)
		}
	})
}
