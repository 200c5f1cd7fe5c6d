package rabbitmq

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	env := NewEnvelope("order.created", map[string]any{"orderId": 7})

	assert.Equal(t, "order.created", env.Pattern)
	_, err := uuid.Parse(env.ID)
	require.NoError(t, err)

	body, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pattern":"order.created","data":{"orderId":7},"id":"`+env.ID+`"}`, string(body))
}

func TestNewEnvelope_UniqueIDs(t *testing.T) {
	a := NewEnvelope("order.created", nil)
	b := NewEnvelope("order.created", nil)
	assert.NotEqual(t, a.ID, b.ID)
}
