package entity

// DefaultBeta はベータ値が取得できない場合に使う市場平均の値です。
const DefaultBeta = 1.0

// CompanyInfo は企業のファンダメンタル情報です。
// 数値項目はプロバイダーによって欠落するため、ポインタで「値なし」を表現します。
type CompanyInfo struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Sector        string   `json:"sector"`
	Industry      string   `json:"industry"`
	MarketCap     *float64 `json:"market_cap,omitempty"`
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Err           string   `json:"error,omitempty"`
}

// CompanyError は取得失敗を表すエラーレコードを返します。
func CompanyError(symbol string, err error) CompanyInfo {
	return CompanyInfo{Symbol: symbol, Err: errorText(err)}
}

// OK はエラーレコードでなければ true を返します。
func (c CompanyInfo) OK() bool { return c.Err == "" }

// BetaOrDefault はベータ値を返します。
// エラーレコード、または値が欠落している場合は DefaultBeta を返します。
func (c CompanyInfo) BetaOrDefault() float64 {
	if !c.OK() || c.Beta == nil {
		return DefaultBeta
	}
	return *c.Beta
}
