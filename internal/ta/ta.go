package ta

import "math"

func SMA(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// EMASeries computes the exponential moving average over vals. The value at
// index span-1 seeds from the simple average of the first span inputs; the
// recurrence uses alpha = 2/(span+1). Earlier slots hold NaN.
func EMASeries(vals []float64, span int) []float64 {
	if span <= 0 || len(vals) < span {
		return nil
	}
	out := make([]float64, len(vals))
	seed := 0.0
	for i := 0; i < span; i++ {
		seed += vals[i]
		if i < span-1 {
			out[i] = math.NaN()
		}
	}
	out[span-1] = seed / float64(span)
	alpha := 2.0 / float64(span+1)
	for i := span; i < len(vals); i++ {
		out[i] = alpha*vals[i] + (1-alpha)*out[i-1]
	}
	return out
}

func EMA(vals []float64, span int) float64 {
	s := EMASeries(vals, span)
	if len(s) == 0 {
		return math.NaN()
	}
	return s[len(s)-1]
}

// RSI uses Wilder smoothing: the first averages are simple means of the
// initial period's gains and losses, every later bar folds in as
// avg = (prev*(period-1) + current) / period. Zero average loss pins the
// result at 100.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return math.NaN()
	}
	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// StdDev is the sample standard deviation of the trailing n values.
func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n <= 1 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n-1))
}

func Bollinger(closes []float64, n int, k float64) (mid, up, low float64) {
	mid = SMA(closes, n)
	sd := StdDev(closes, n)
	up = mid + k*sd
	low = mid - k*sd
	return
}

// MACD returns the line, signal and histogram at the last bar. All three
// are available once len(closes) >= slow: with fewer than signal MACD
// values the signal line is their plain mean, which is what the seeded EMA
// degenerates to.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist float64) {
	if fast <= 0 || signal <= 0 || slow <= fast || len(closes) < slow {
		return math.NaN(), math.NaN(), math.NaN()
	}
	fastS := EMASeries(closes, fast)
	slowS := EMASeries(closes, slow)
	macd := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		macd = append(macd, fastS[i]-slowS[i])
	}
	line = macd[len(macd)-1]
	span := signal
	if len(macd) < span {
		span = len(macd)
	}
	sigS := EMASeries(macd, span)
	sig = sigS[len(sigS)-1]
	hist = line - sig
	return
}
