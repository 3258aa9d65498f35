package usecase

import (
	"math"

	"stock_advisor/internal/feature/advisor/domain/entity"
)

const (
	// MinVolatilityCloses はボラティリティ成分を計算するのに必要な終値の最小件数です。
	MinVolatilityCloses = 5
	// MaxRiskScore はリスクスコアの上限です。
	MaxRiskScore = 10
)

// RiskScore はベータ値と日次リターンのボラティリティから 0〜10 の整数スコアを算出します。
//
//	beta = company.BetaOrDefault()
//	betaComponent = clamp((beta-1)*5+5, 0, 10)
//	volComponent  = clamp(stddev(日次リターン)*100, 0, 10)  // 終値が5件以上ある場合のみ
//	score = round(clamp(betaComponent+volComponent, 0, 10))
//
// 標準偏差は母標準偏差、丸めは偶数丸めです。終値が 0 以下のバーは除外します。
func RiskScore(company entity.CompanyInfo, bars []entity.HistoricalBar) int {
	betaComponent := clamp((company.BetaOrDefault()-1)*5+5, 0, MaxRiskScore)

	closes := make([]float64, 0, len(bars))
	for _, b := range bars {
		if b.Close > 0 && !math.IsInf(b.Close, 0) {
			closes = append(closes, b.Close)
		}
	}

	var volComponent float64
	if len(closes) >= MinVolatilityCloses {
		returns := make([]float64, len(closes)-1)
		for i := 1; i < len(closes); i++ {
			returns[i-1] = (closes[i] - closes[i-1]) / closes[i-1]
		}
		volComponent = clamp(stddev(returns)*100, 0, MaxRiskScore)
	}

	score := clamp(betaComponent+volComponent, 0, MaxRiskScore)
	if math.IsNaN(score) {
		return 0
	}
	return int(math.RoundToEven(score))
}

func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}
