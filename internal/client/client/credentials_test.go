package client

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentials_SetClear(t *testing.T) {
	c := NewCredentials()
	assert.Empty(t, c.Token())

	c.Set("tok1")
	assert.Equal(t, "tok1", c.Token())

	c.Clear()
	assert.Empty(t, c.Token())
}

func TestCredentials_ConcurrentAccess(t *testing.T) {
	c := NewCredentials()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Set(strconv.Itoa(i))
		}(i)
		go func() {
			defer wg.Done()
			_ = c.Token()
		}()
	}
	wg.Wait()
}
