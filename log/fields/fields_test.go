package fields_test

import (
	"testing"

	"github.com/lduchosal/asyncsocket/log/fields"
	"github.com/stretchr/testify/assert"
)

func TestOrdered_PriorityFieldsFirst(t *testing.T) {
	data := map[string]interface{}{
		"zebra":      1,
		"error":      "boom",
		"session_id": "s-1",
		"alpha":      2,
		"local_addr": "127.0.0.1:9000",
	}
	assert.Equal(t, []string{"session_id", "local_addr", "error", "alpha", "zebra"}, fields.Ordered(data))
}

func TestOrdered_MissingPriorityFieldsSkipped(t *testing.T) {
	data := map[string]interface{}{"b": 1, "a": 2}
	assert.Equal(t, []string{"a", "b"}, fields.Ordered(data))
}

func TestOrdered_EmptyMap(t *testing.T) {
	assert.Empty(t, fields.Ordered(map[string]interface{}{}))
}
