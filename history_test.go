package trunk

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMessage int

func (m testMessage) Protocol() Protocol   { return DMR }
func (m testMessage) Timestamp() time.Time { return time.Unix(int64(m), 0) }
func (m testMessage) IsValid() bool        { return m >= 0 }
func (m testMessage) String() string       { return fmt.Sprintf("message %d", int(m)) }

func TestHistory(t *testing.T) {
	h := NewHistory(3)
	assert.Equal(t, 3, h.Cap())
	assert.Empty(t, h.Messages())

	h.Add(testMessage(1))
	h.Add(nil)
	h.Add(testMessage(2))
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []Message{testMessage(1), testMessage(2)}, h.Messages())

	h.Add(testMessage(3))
	h.Add(testMessage(4))
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []Message{testMessage(2), testMessage(3), testMessage(4)}, h.Messages())

	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Messages())

	assert.Equal(t, DefaultHistorySize, NewHistory(0).Cap())
}

func TestHistoryConcurrent(t *testing.T) {
	var (
		h  = NewHistory(64)
		wg sync.WaitGroup
	)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				h.Add(testMessage(g*100 + i))
				_ = h.Messages()
			}
		}(g)
	}
	wg.Wait()
	require.Equal(t, 64, h.Len())
}

func TestProtocol(t *testing.T) {
	assert.Equal(t, "DMR", DMR.String())
	assert.Equal(t, "P25 Phase 2", P25Phase2.String())
	assert.Equal(t, "protocol 9", Protocol(9).String())
}
