package config

import (
	"time"
)

// Duration reads and writes time.Duration as a string such as "10m" in both
// JSON and YAML.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))

	if err != nil {
		return err
	}

	*d = Duration(v)

	return nil
}
