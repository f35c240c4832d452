package events

import "time"

const (
	KnowledgeImportItem      = "knowledge.import.item"
	KnowledgeImportCompleted = "knowledge.import.completed"
	KnowledgeCleared         = "knowledge.cleared"
)

// KnowledgeTopic is the in-process topic every knowledge change is published on.
const KnowledgeTopic = "knowledge_events"

func NewKnowledgeEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}
