package shared

import "fmt"

// Resolution represents the time bucket width of fetched candles.
type Resolution int

const (
	OneMinute Resolution = iota
	OneSecond
)

// String stringifies the provided resolution.
func (r Resolution) String() string {
	switch r {
	case OneMinute:
		return "1m"
	case OneSecond:
		return "1s"
	default:
		return "unknown"
	}
}

// ParseResolution parses a resolution from its string form.
func ParseResolution(str string) (Resolution, error) {
	switch str {
	case "1m":
		return OneMinute, nil
	case "1s":
		return OneSecond, nil
	default:
		return 0, fmt.Errorf("unknown resolution: %s", str)
	}
}

// BucketsPerMinute returns the number of candle buckets that make up a
// minute at the provided resolution.
func (r Resolution) BucketsPerMinute() int {
	switch r {
	case OneSecond:
		return 60
	default:
		return 1
	}
}
