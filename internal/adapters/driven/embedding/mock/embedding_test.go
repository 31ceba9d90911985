package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topictrend/internal/core/domain"
)

func TestEmbeddingService(t *testing.T) {
	svc := NewEmbeddingService(4, map[string][]float32{"known": {1, 2, 3, 4}})
	ctx := context.Background()

	vecs, err := svc.EmbedBatch(ctx, []string{"known", "other", "other"})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, vecs[0])
	assert.Equal(t, vecs[1], vecs[2])
	assert.Len(t, vecs[1], 4)
	assert.Equal(t, 1, svc.Calls())

	svc.SetError(errors.New("down"))
	_, err = svc.Embed(ctx, "known")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Error(t, svc.Ping(ctx))

	svc.SetError(nil)
	assert.NoError(t, svc.Ping(ctx))
}
