package lib

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration wraps time.Duration so it can be decoded from either a number of
// nanoseconds or a string such as "50ms", from JSON or any text based config format.
type Duration struct {
	time.Duration
}

// DurationFrom gets around the "struct literal uses unkeyed fields" warning if you try
// to declare a Duration literal such as lib.Duration{time.Second}.
func DurationFrom(t time.Duration) Duration {
	return Duration{t}
}

func (duration *Duration) UnmarshalJSON(b []byte) error {
	var unmarshalledJson interface{}

	err := json.Unmarshal(b, &unmarshalledJson)
	if err != nil {
		return err
	}

	switch value := unmarshalledJson.(type) {
	case float64:
		duration.Duration = time.Duration(value)
	case string:
		duration.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid duration: %#v", unmarshalledJson)
	}

	return nil
}

func (duration Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(duration.String())
}

// UnmarshalText lets koanf's TextUnmarshaler hook decode env and yaml values.
func (duration *Duration) UnmarshalText(b []byte) error {
	d, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	duration.Duration = d
	return nil
}
