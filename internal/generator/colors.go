package generator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// shadeColor mixes a #RRGGBB color toward white (positive factor) or black
// (negative factor). Malformed input is returned unchanged so validation reports it.
func shadeColor(hexColor string, factor float64) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hexColor), "#")
	if len(trimmed) != 6 {
		return hexColor
	}
	value, parseErr := strconv.ParseUint(trimmed, 16, 32)
	if parseErr != nil {
		return hexColor
	}

	channels := []float64{
		float64((value >> 16) & 0xFF),
		float64((value >> 8) & 0xFF),
		float64(value & 0xFF),
	}
	for index, channel := range channels {
		if factor >= 0 {
			channels[index] = channel + (255-channel)*factor
		} else {
			channels[index] = channel * (1 + factor)
		}
	}
	return fmt.Sprintf("#%02X%02X%02X", clampChannel(channels[0]), clampChannel(channels[1]), clampChannel(channels[2]))
}

func clampChannel(channel float64) int {
	return int(math.Max(0, math.Min(255, math.Round(channel))))
}

func lighten(hexColor string) string {
	return shadeColor(hexColor, lightenFactor)
}

func darken(hexColor string) string {
	return shadeColor(hexColor, -darkenFactor)
}
