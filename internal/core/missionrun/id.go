// Package missionrun contains the pure business logic for mission runs.
// This is part of the Functional Core - no I/O, only pure functions.
package missionrun

import "fmt"

// GenerateRunID generates a mission run ID from the current max number.
// The format is RUN-XXX where XXX is a zero-padded 3-digit number.
func GenerateRunID(currentMax int) string {
	return fmt.Sprintf("RUN-%03d", currentMax+1)
}

// ParseRunNumber extracts the numeric portion from a mission run ID.
// Returns -1 if the ID format is invalid.
func ParseRunNumber(id string) int {
	var num int
	_, err := fmt.Sscanf(id, "RUN-%d", &num)
	if err != nil {
		return -1
	}
	return num
}
