package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"stock_advisor/internal/feature/advisor/domain/entity"
	kentity "stock_advisor/internal/feature/knowledge/domain/entity"
)

// RecentBarsInContext はコンテキストに含める直近の取引日数です。
const RecentBarsInContext = 5

// ContextInput はコンテキスト組み立ての入力です。各項目は欠落していてもかまいません。
type ContextInput struct {
	Documents   []kentity.SearchResult
	Quote       *entity.Quote
	Company     *entity.CompanyInfo
	History     []entity.HistoricalBar
	News        []entity.NewsItem
	IncludeNews bool
}

// BuildContext は言語モデルに渡すコンテキスト文字列を組み立てます。
// データがない、またはエラーレコードのセクションは省略し、セクション間は空行で区切ります。
func BuildContext(in ContextInput) string {
	var sections []string

	if q := in.Quote; q != nil && q.OK() {
		sections = append(sections, fmt.Sprintf(
			"Current Stock Information for %s:\n- Current Price: $%.2f\n- Daily Change: $%+.2f (%+.2f%%)\n- Volume: %d",
			q.Symbol, q.Price, q.Change, q.ChangePercent, q.Volume))
	}

	if c := in.Company; c != nil && c.OK() {
		sections = append(sections, fmt.Sprintf(
			"Company Information:\n- Name: %s\n- Sector: %s\n- Industry: %s\n- Market Cap: %s\n- P/E Ratio: %s\n- Beta: %s",
			orNA(c.Name), orNA(c.Sector), orNA(c.Industry),
			formatMarketCap(c.MarketCap), formatFloat(c.PERatio), formatFloat(c.Beta)))
	}

	if len(in.History) > 0 {
		var b strings.Builder
		b.WriteString("Recent Performance (Last 5 Trading Days):")
		for _, bar := range lastBars(in.History, RecentBarsInContext) {
			fmt.Fprintf(&b, "\n- %s: Close $%.2f, Volume %d", bar.Date.Format("2006-01-02"), bar.Close, bar.Volume)
		}
		sections = append(sections, b.String())
	}

	if len(in.Documents) > 0 {
		var b strings.Builder
		b.WriteString("Relevant Financial Analysis:")
		for i, d := range in.Documents {
			fmt.Fprintf(&b, "\nSource %d: %s", i+1, d.Content)
		}
		sections = append(sections, b.String())
	}

	if in.IncludeNews && len(in.News) > 0 {
		var b strings.Builder
		b.WriteString("Latest News Headlines:")
		for _, n := range in.News {
			fmt.Fprintf(&b, "\n- %s (%s)", n.Title, n.Publisher)
		}
		sections = append(sections, b.String())
	}

	return strings.Join(sections, "\n\n")
}

func lastBars(bars []entity.HistoricalBar, n int) []entity.HistoricalBar {
	if len(bars) <= n {
		return bars
	}
	return bars[len(bars)-n:]
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func formatFloat(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatMarketCap(v *float64) string {
	if v == nil {
		return "N/A"
	}
	x := *v
	switch {
	case x >= 1e12:
		return fmt.Sprintf("$%.2fT", x/1e12)
	case x >= 1e9:
		return fmt.Sprintf("$%.2fB", x/1e9)
	case x >= 1e6:
		return fmt.Sprintf("$%.2fM", x/1e6)
	default:
		return fmt.Sprintf("$%.0f", x)
	}
}
