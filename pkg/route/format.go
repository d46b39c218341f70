package route

import "fmt"

// FormatStepDistance renders a step distance for display. Short hops stay
// in meters, anything from half a kilometer up switches to kilometers with
// two decimals.
func FormatStepDistance(meters float64) string {
	if meters < 0 {
		meters = 0
	}
	if meters < 500 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.2f km", meters/1000)
}

// FormatStepDuration renders a step duration for display, in whole seconds
// below a minute and minutes plus remaining seconds above.
func FormatStepDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%.0f s", seconds)
	}
	total := int(seconds)
	return fmt.Sprintf("%d min %d s", total/60, total%60)
}

// Direction buckets an OSRM maneuver modifier into one of three coarse
// turn directions used by the step list UI.
func Direction(modifier string) string {
	switch modifier {
	case "right", "sharp right", "slight right":
		return "right"
	case "left", "sharp left", "slight left":
		return "left"
	default:
		return "straight"
	}
}
