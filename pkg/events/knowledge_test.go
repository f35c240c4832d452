package events_test

import (
	"testing"

	"code-concierge-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeEventEnvelope(t *testing.T) {
	event := events.NewKnowledgeEvent(events.KnowledgeImportItem, map[string]interface{}{
		"batch_id": "b1",
		"name":     "guide.pdf",
		"status":   "success",
	})

	data, err := events.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"knowledge.import.item"`)

	decoded, err := events.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, events.KnowledgeImportItem, decoded.EventType())
	assert.Equal(t, "guide.pdf", decoded.Payload()["name"])
	assert.True(t, event.Timestamp().Equal(decoded.Timestamp()))
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := events.Unmarshal([]byte("{"))
	assert.Error(t, err)
}
