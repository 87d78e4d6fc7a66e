package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchBufferAddAndDrain(t *testing.T) {
	buffer := NewBatchBuffer[string]()

	assert.False(t, buffer.HasData())
	assert.Nil(t, buffer.GetAndClear())

	buffer.Add("a")
	buffer.Add("b")
	assert.Equal(t, 2, buffer.Size())

	batch := buffer.GetAndClear()
	assert.Equal(t, []string{"a", "b"}, batch)
	assert.Zero(t, buffer.Size())
	assert.Nil(t, buffer.GetAndClear())
}

func TestBatchBufferConcurrentAdds(t *testing.T) {
	buffer := NewBatchBuffer[int]()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			buffer.Add(n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, buffer.Size())
	assert.Len(t, buffer.GetAndClear(), 100)
}
