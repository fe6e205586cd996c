package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const shotSeparator = ","

// EncodeShots renders shot timestamps as a comma-separated string. An empty
// list encodes to "".
func EncodeShots(shots []int64) string {
	if len(shots) == 0 {
		return ""
	}

	parts := make([]string, 0, len(shots))
	for _, shot := range shots {
		parts = append(parts, strconv.FormatInt(shot, 10))
	}

	return strings.Join(parts, shotSeparator)
}

func DecodeShots(raw string) ([]int64, error) {
	if raw == "" {
		return []int64{}, nil
	}

	parts := strings.Split(raw, shotSeparator)
	shots := make([]int64, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidShotList, raw)
		}
		if value < 0 {
			return nil, fmt.Errorf("%w: negative timestamp %d", ErrInvalidShotList, value)
		}
		shots = append(shots, value)
	}

	return shots, nil
}
