package events

import "time"

// EventType identifies a fleet event.
type EventType int

const (
	EventMissionRunCreated EventType = iota + 1
	EventRobotAvailable
	EventLocalizationMissionSuccessful
	EventSendRobotToDockTriggered
	EventReleaseRobotFromDockTriggered
)

func (t EventType) String() string {
	switch t {
	case EventMissionRunCreated:
		return "mission_run_created"
	case EventRobotAvailable:
		return "robot_available"
	case EventLocalizationMissionSuccessful:
		return "localization_mission_successful"
	case EventSendRobotToDockTriggered:
		return "send_robot_to_dock_triggered"
	case EventReleaseRobotFromDockTriggered:
		return "release_robot_from_dock_triggered"
	default:
		return "unknown"
	}
}

// Payload is implemented by every event body.
type Payload interface {
	EventType() EventType
}

// Event is an immutable envelope around a payload.
type Event struct {
	ID         string
	Type       EventType
	OccurredAt time.Time
	Payload    Payload
}

// --- Event payloads ---

type MissionRunCreated struct {
	MissionRunID string
}

type RobotAvailable struct {
	RobotID string
}

type LocalizationMissionSuccessful struct {
	RobotID string
}

type SendRobotToDockTriggered struct {
	RobotID              string
	TargetFlotillaStatus string
}

type ReleaseRobotFromDockTriggered struct {
	RobotID              string
	TargetFlotillaStatus string
}

func (MissionRunCreated) EventType() EventType             { return EventMissionRunCreated }
func (RobotAvailable) EventType() EventType                { return EventRobotAvailable }
func (LocalizationMissionSuccessful) EventType() EventType { return EventLocalizationMissionSuccessful }
func (SendRobotToDockTriggered) EventType() EventType      { return EventSendRobotToDockTriggered }
func (ReleaseRobotFromDockTriggered) EventType() EventType { return EventReleaseRobotFromDockTriggered }
