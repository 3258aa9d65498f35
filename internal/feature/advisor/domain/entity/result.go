package entity

// QueryKind はクエリの種別です。
type QueryKind string

const (
	KindAnalysis QueryKind = "analysis" // 簡潔な分析
	KindReport   QueryKind = "report"   // 詳細レポート
)

// QueryResult はオーケストレーターが返す唯一の結果オブジェクトです。
// 失敗時も取得済みの部分データを保持します。
type QueryResult struct {
	Kind        QueryKind           `json:"kind"`
	Success     bool                `json:"success"`
	Ticker      string              `json:"ticker"`
	Question    string              `json:"question"`
	Resolved    *TickerResolution   `json:"resolved,omitempty"`
	Answer      string              `json:"answer"`
	Error       string              `json:"error,omitempty"`
	Quote       *Quote              `json:"quote,omitempty"`
	Company     *CompanyInfo        `json:"company,omitempty"`
	History     []HistoricalBar     `json:"history"`
	News        []NewsItem          `json:"news"`
	Sources     []map[string]string `json:"sources"`
	ContextUsed int                 `json:"context_used"`
	RiskScore   *int                `json:"risk_score,omitempty"`
}
