package paymentRepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPaymentIndexes(t *testing.T) {
	idx := paymentIndexModels()
	require.Len(t, idx, 2)

	keys, ok := idx[0].Keys.(bson.D)
	require.True(t, ok)
	assert.Equal(t, "bookingId", keys[0].Key)
	require.NotNil(t, idx[0].Options)
	require.NotNil(t, idx[0].Options.Unique)
	assert.True(t, *idx[0].Options.Unique)

	keys, ok = idx[1].Keys.(bson.D)
	require.True(t, ok)
	assert.Equal(t, "payoutStatus", keys[0].Key)
}
