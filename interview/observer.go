package interview

import "github.com/abhimanyu-1/Shibu-App/observability"

// Interview event types emitted by the orchestrator.
const (
	EventStart           observability.EventType = "interview.start"
	EventTurn            observability.EventType = "interview.turn"
	EventFinish          observability.EventType = "interview.finish"
	EventSessionExpired  observability.EventType = "interview.session.expired"
	EventModelError      observability.EventType = "interview.model.error"
	EventKnowledgeReady  observability.EventType = "interview.knowledge.ready"
	EventKnowledgeFailed observability.EventType = "interview.knowledge.failed"
)
