package harness

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputBufferAppendOnly(t *testing.T) {
	var buf OutputBuffer

	buf.Append("? Which wizard")
	assert.True(t, buf.Contains("Which wizard"))

	buf.Append(" do you want to run?")
	assert.Equal(t, "? Which wizard do you want to run?", buf.String())
	assert.False(t, buf.Contains("listening"))
}

func TestOutputBufferConcurrentAppend(t *testing.T) {
	var buf OutputBuffer
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf.Append("x")
			}
		}()
	}
	wg.Wait()

	assert.Len(t, buf.String(), 1000)
}
