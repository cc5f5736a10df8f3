package shared

// Sentiment represents the candlestick sentiment.
type Sentiment int

const (
	Neutral Sentiment = iota
	Bullish
	Bearish
)

// String stringifies the provided sentiment.
func (s Sentiment) String() string {
	switch s {
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	default:
		return "neutral"
	}
}

// Candlestick represents a unit candlestick for a symbol. Time is a unix
// timestamp in seconds, matching the temporal representation expected by
// rendering surfaces.
type Candlestick struct {
	Time  int64
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// FetchSentiment returns the provided candlestick's sentiment.
func (c *Candlestick) FetchSentiment() Sentiment {
	sentiment := c.Close - c.Open
	switch {
	case sentiment < 0:
		return Bearish
	case sentiment > 0:
		return Bullish
	default:
		return Neutral
	}
}

// FetchRange returns the overall high and low across the provided candles.
func FetchRange(candles []Candlestick) (high float64, low float64) {
	for idx := range candles {
		if idx == 0 || candles[idx].High > high {
			high = candles[idx].High
		}
		if idx == 0 || candles[idx].Low < low {
			low = candles[idx].Low
		}
	}

	return high, low
}
