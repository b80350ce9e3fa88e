// Package robot contains the pure business logic for robots.
// This is part of the Functional Core - no I/O, only pure functions.
package robot

import "fmt"

// GenerateRobotID generates a robot ID from the current max number.
// The format is ROBOT-XXX where XXX is a zero-padded 3-digit number.
func GenerateRobotID(currentMax int) string {
	return fmt.Sprintf("ROBOT-%03d", currentMax+1)
}
