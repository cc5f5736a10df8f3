package shared

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestResolutionString(t *testing.T) {
	tests := []struct {
		name       string
		resolution Resolution
		want       string
	}{
		{
			"one minute resolution",
			OneMinute,
			"1m",
		},
		{
			"one second resolution",
			OneSecond,
			"1s",
		},
		{
			"unknown resolution",
			Resolution(999),
			"unknown",
		},
	}

	for _, test := range tests {
		str := test.resolution.String()
		if str != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, str)
		}
	}
}

func TestParseResolution(t *testing.T) {
	// Ensure known resolutions parse.
	res, err := ParseResolution("1m")
	assert.NoError(t, err)
	assert.Equal(t, res, OneMinute)

	res, err = ParseResolution("1s")
	assert.NoError(t, err)
	assert.Equal(t, res, OneSecond)

	// Ensure unknown resolutions error.
	_, err = ParseResolution("3h")
	assert.Error(t, err)
}

func TestBucketsPerMinute(t *testing.T) {
	assert.Equal(t, OneMinute.BucketsPerMinute(), 1)
	assert.Equal(t, OneSecond.BucketsPerMinute(), 60)
}
