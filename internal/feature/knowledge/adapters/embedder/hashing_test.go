package embedder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashingEmbedder_Embed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dim     int
		text    string
		wantDim int
		zero    bool
	}{
		{name: "success: default dimension", dim: 0, text: "Tesla electric vehicles", wantDim: 384},
		{name: "success: custom dimension", dim: 16, text: "Apple iPhone", wantDim: 16},
		{name: "success: punctuation only gives zero vector", dim: 8, text: "... !!!", wantDim: 8, zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := NewHashingEmbedder(tt.dim)
			v, err := e.Embed(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Len(t, v, tt.wantDim)
			assert.Equal(t, tt.wantDim, e.Dimension())

			var nonZero bool
			for _, x := range v {
				if x != 0 {
					nonZero = true
				}
			}
			assert.Equal(t, !tt.zero, nonZero)
		})
	}
}

func TestHashingEmbedder_Deterministic(t *testing.T) {
	t.Parallel()
	e := NewHashingEmbedder(32)

	a, err := e.Embed(context.Background(), "NVIDIA data center growth")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "nvidia, DATA center growth!")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
