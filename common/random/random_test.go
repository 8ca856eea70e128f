package random_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/sagernet/sing-jarm/common/random"

	"github.com/stretchr/testify/require"
)

func TestFixed(t *testing.T) {
	t.Parallel()
	source := random.NewFixed()
	output := source.Bytes()
	require.Equal(t, bytes.Repeat([]byte{0x2a}, 32), output[:])
	require.Equal(t, [2]byte{0x0a, 0x0a}, source.Grease())
}

func TestSecureGrease(t *testing.T) {
	t.Parallel()
	source := random.NewSecure()
	values := make([][2]byte, 8*64)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for j := 0; j < 64; j++ {
				values[offset+j] = source.Grease()
			}
		}(i * 64)
	}
	wg.Wait()
	for _, grease := range values {
		require.Contains(t, random.GreaseValues[:], grease)
	}
}

func TestSecureBytesDiffer(t *testing.T) {
	t.Parallel()
	source := random.NewSecure()
	require.NotEqual(t, source.Bytes(), source.Bytes())
}
