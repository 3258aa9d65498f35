package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_advisor/internal/feature/advisor/domain/entity"
	kentity "stock_advisor/internal/feature/knowledge/domain/entity"
)

type mockResolver struct {
	ResolveFunc func(ctx context.Context, query string) (*entity.TickerResolution, error)
}

func (m *mockResolver) Resolve(ctx context.Context, q string) (*entity.TickerResolution, error) {
	return m.ResolveFunc(ctx, q)
}

type mockMarket struct {
	mu sync.Mutex

	GetQuoteFunc       func(ctx context.Context, symbol string) (entity.Quote, error)
	GetCompanyInfoFunc func(ctx context.Context, symbol string) (entity.CompanyInfo, error)
	GetHistoryFunc     func(ctx context.Context, symbol string, from, to time.Time) ([]entity.HistoricalBar, error)
	SearchNewsFunc     func(ctx context.Context, query string, count int) ([]entity.NewsItem, error)

	symbols   []string
	newsQuery string
	newsCount int
	from, to  time.Time
}

func (m *mockMarket) record(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.symbols = append(m.symbols, symbol)
}

func (m *mockMarket) GetQuote(ctx context.Context, symbol string) (entity.Quote, error) {
	m.record(symbol)
	return m.GetQuoteFunc(ctx, symbol)
}

func (m *mockMarket) GetCompanyInfo(ctx context.Context, symbol string) (entity.CompanyInfo, error) {
	m.record(symbol)
	return m.GetCompanyInfoFunc(ctx, symbol)
}

func (m *mockMarket) GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]entity.HistoricalBar, error) {
	m.record(symbol)
	m.mu.Lock()
	m.from, m.to = from, to
	m.mu.Unlock()
	return m.GetHistoryFunc(ctx, symbol, from, to)
}

func (m *mockMarket) SearchNews(ctx context.Context, query string, count int) ([]entity.NewsItem, error) {
	m.mu.Lock()
	m.newsQuery, m.newsCount = query, count
	m.mu.Unlock()
	return m.SearchNewsFunc(ctx, query, count)
}

type mockDocuments struct {
	SearchFunc func(ctx context.Context, query string, k int) ([]kentity.SearchResult, error)
	query      string
	k          int
}

func (m *mockDocuments) Search(ctx context.Context, query string, k int) ([]kentity.SearchResult, error) {
	m.query, m.k = query, k
	return m.SearchFunc(ctx, query, k)
}

type mockLLM struct {
	GenerateFunc func(ctx context.Context, system, user string) (string, error)
	system, user string
	calls        int
}

func (m *mockLLM) Generate(ctx context.Context, system, user string) (string, error) {
	m.calls++
	m.system, m.user = system, user
	return m.GenerateFunc(ctx, system, user)
}

type fixture struct {
	resolver *mockResolver
	market   *mockMarket
	docs     *mockDocuments
	llm      *mockLLM
}

var fixedNow = time.Date(2024, 6, 28, 15, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	return &fixture{
		resolver: &mockResolver{ResolveFunc: func(context.Context, string) (*entity.TickerResolution, error) {
			return &entity.TickerResolution{Symbol: "tsla", DisplayName: "Tesla, Inc.", Exchange: "NASDAQ", Kind: "Equity"}, nil
		}},
		market: &mockMarket{
			GetQuoteFunc: func(_ context.Context, s string) (entity.Quote, error) {
				return entity.NewQuote(s, 250, 245, 1000, fixedNow), nil
			},
			GetCompanyInfoFunc: func(_ context.Context, s string) (entity.CompanyInfo, error) {
				return entity.CompanyInfo{Symbol: s, Name: "Tesla, Inc.", Sector: "Consumer Cyclical", Industry: "Auto Manufacturers", Beta: ptr(1.0)}, nil
			},
			GetHistoryFunc: func(context.Context, string, time.Time, time.Time) ([]entity.HistoricalBar, error) {
				return barsFromCloses(100, 100, 100, 100, 100, 100, 100), nil
			},
			SearchNewsFunc: func(_ context.Context, _ string, count int) ([]entity.NewsItem, error) {
				items := make([]entity.NewsItem, 0, count+2)
				for i := 0; i < count+2; i++ {
					items = append(items, entity.NewsItem{Title: "Tesla headline", Publisher: "Reuters"})
				}
				return items, nil
			},
		},
		docs: &mockDocuments{SearchFunc: func(_ context.Context, _ string, k int) ([]kentity.SearchResult, error) {
			out := []kentity.SearchResult{
				{Content: "Tesla (TSLA) is a leading electric vehicle manufacturer.", Metadata: map[string]string{"ticker": "TSLA", "type": "analysis", "date": "2024"}, Score: 0.9},
				{Content: "EV adoption is accelerating.", Metadata: map[string]string{"ticker": "EV_SECTOR", "type": "sector_analysis", "date": "2024"}, Score: 0.5},
				{Content: "Tech outlook positive.", Metadata: map[string]string{"ticker": "TECH_SECTOR", "type": "sector_analysis", "date": "2024"}, Score: 0.2},
				{Content: "Apple fundamentals.", Metadata: map[string]string{"ticker": "AAPL", "type": "analysis", "date": "2024"}, Score: 0.1},
				{Content: "Market volatility.", Metadata: map[string]string{"ticker": "MARKET", "type": "market_analysis", "date": "2024"}, Score: 0.05},
			}
			if k < len(out) {
				out = out[:k]
			}
			return out, nil
		}},
		llm: &mockLLM{GenerateFunc: func(context.Context, string, string) (string, error) {
			return "Tesla looks volatile but promising.", nil
		}},
	}
}

func (f *fixture) advisor(opts ...Option) *Advisor {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewAdvisor(Deps{
		Resolver:  f.resolver,
		Quotes:    f.market,
		Companies: f.market,
		History:   f.market,
		News:      f.market,
		Documents: f.docs,
		LLM:       f.llm,
	}, opts...)
}

func TestAdvisor_AnalyzeInvestmentQuery(t *testing.T) {
	t.Parallel()

	t.Run("success: full pipeline for a resolved ticker", func(t *testing.T) {
		t.Parallel()
		f := newFixture()

		res := f.advisor().AnalyzeInvestmentQuery(context.Background(), "Tesla", "Is Tesla a good investment?")

		require.True(t, res.Success, res.Error)
		assert.Equal(t, entity.KindAnalysis, res.Kind)
		assert.Equal(t, "TSLA", res.Ticker)
		assert.Equal(t, "Tesla looks volatile but promising.", res.Answer)
		require.NotNil(t, res.RiskScore)
		assert.Equal(t, 5, *res.RiskScore)
		assert.Len(t, res.History, 5)
		assert.Len(t, res.News, 5)
		assert.Equal(t, 3, res.ContextUsed)
		assert.Equal(t, "TSLA", res.Sources[0]["ticker"])
		require.NotNil(t, res.Resolved)
		assert.Equal(t, "Tesla, Inc.", res.Resolved.DisplayName)

		assert.Equal(t, "TSLA Is Tesla a good investment?", f.docs.query)
		assert.Equal(t, 3, f.docs.k)
		assert.Equal(t, "Tesla, Inc.", f.market.newsQuery)
		assert.Equal(t, 5, f.market.newsCount)
		assert.Equal(t, fixedNow.AddDate(0, 0, -30), f.market.from)
		assert.Equal(t, fixedNow, f.market.to)
		assert.ElementsMatch(t, []string{"TSLA", "TSLA", "TSLA"}, f.market.symbols)

		assert.Equal(t, analysisSystemPrompt, f.llm.system)
		assert.Contains(t, f.llm.user, "Current Stock Information for TSLA:")
		assert.Contains(t, f.llm.user, "Company Information:\n- Name: Tesla, Inc.")
		assert.Contains(t, f.llm.user, "Recent Performance (Last 5 Trading Days):")
		assert.Contains(t, f.llm.user, "Source 1: Tesla (TSLA) is a leading electric vehicle manufacturer.")
		assert.Contains(t, f.llm.user, "Latest News Headlines:\n- Tesla headline (Reuters)")
		assert.Contains(t, f.llm.user, "please answer this question: Is Tesla a good investment?")
	})

	t.Run("success: unresolved input is uppercased and used for news", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.resolver.ResolveFunc = func(context.Context, string) (*entity.TickerResolution, error) { return nil, nil }

		res := f.advisor().AnalyzeInvestmentQuery(context.Background(), " xyzq ", "outlook?")

		require.True(t, res.Success)
		assert.Equal(t, "XYZQ", res.Ticker)
		assert.Nil(t, res.Resolved)
		assert.Equal(t, "XYZQ", f.market.newsQuery)
		assert.ElementsMatch(t, []string{"XYZQ", "XYZQ", "XYZQ"}, f.market.symbols)
	})

	t.Run("success: resolver error is treated as a miss", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.resolver.ResolveFunc = func(context.Context, string) (*entity.TickerResolution, error) {
			return nil, errors.New("autocomplete down")
		}

		res := f.advisor().AnalyzeInvestmentQuery(context.Background(), "aapl", "buy?")
		require.True(t, res.Success)
		assert.Equal(t, "AAPL", res.Ticker)
	})

	t.Run("success: one failing source does not affect the others", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.market.GetQuoteFunc = func(context.Context, string) (entity.Quote, error) {
			return entity.Quote{}, errors.New("finage 503")
		}
		f.market.SearchNewsFunc = func(context.Context, string, int) ([]entity.NewsItem, error) {
			return nil, errors.New("yahoo 429")
		}

		res := f.advisor().AnalyzeInvestmentQuery(context.Background(), "TSLA", "outlook?")

		require.True(t, res.Success)
		require.NotNil(t, res.Quote)
		assert.False(t, res.Quote.OK())
		assert.Contains(t, res.Quote.Err, "finage 503")
		assert.Empty(t, res.News)
		assert.True(t, res.Company.OK())
		assert.Len(t, res.History, 5)
		assert.NotContains(t, f.llm.user, "Current Stock Information")
		assert.NotContains(t, f.llm.user, "Latest News Headlines")
		assert.Contains(t, f.llm.user, "Company Information:")
	})

	t.Run("success: panicking fetcher becomes an error marker", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.market.GetCompanyInfoFunc = func(context.Context, string) (entity.CompanyInfo, error) {
			panic("nil map")
		}

		res := f.advisor().AnalyzeInvestmentQuery(context.Background(), "TSLA", "outlook?")

		require.True(t, res.Success)
		assert.False(t, res.Company.OK())
		assert.Contains(t, res.Company.Err, "panic")
		assert.Equal(t, 5, *res.RiskScore)
	})

	t.Run("success: retrieval failure skips documents", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.docs.SearchFunc = func(context.Context, string, int) ([]kentity.SearchResult, error) {
			return nil, errors.New("embedding model unavailable")
		}

		res := f.advisor().AnalyzeInvestmentQuery(context.Background(), "TSLA", "outlook?")

		require.True(t, res.Success)
		assert.Equal(t, 0, res.ContextUsed)
		assert.Empty(t, res.Sources)
		assert.NotContains(t, f.llm.user, "Relevant Financial Analysis")
	})

	t.Run("success: slow source is cut off at the fetch deadline", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		release := make(chan struct{})
		defer close(release)
		f.market.GetHistoryFunc = func(context.Context, string, time.Time, time.Time) ([]entity.HistoricalBar, error) {
			<-release
			return barsFromCloses(1, 2, 3, 4, 5), nil
		}

		start := time.Now()
		res := f.advisor(WithFetchTimeout(50*time.Millisecond)).AnalyzeInvestmentQuery(context.Background(), "TSLA", "outlook?")

		assert.Less(t, time.Since(start), 2*time.Second)
		require.True(t, res.Success)
		assert.Empty(t, res.History)
		assert.True(t, res.Quote.OK())
		assert.NotContains(t, f.llm.user, "Recent Performance")
	})

	t.Run("error: generation failure keeps partial data", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.llm.GenerateFunc = func(context.Context, string, string) (string, error) {
			return "", errors.New("rate limited")
		}

		res := f.advisor().AnalyzeInvestmentQuery(context.Background(), "TSLA", "outlook?")

		assert.False(t, res.Success)
		assert.Equal(t, "rate limited", res.Error)
		assert.Equal(t, "I apologize, but I encountered an error processing your request.", res.Answer)
		assert.Nil(t, res.RiskScore)
		require.NotNil(t, res.Quote)
		assert.True(t, res.Quote.OK())
		assert.Len(t, res.History, 5)
	})

	t.Run("error: empty answer is a generation failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.llm.GenerateFunc = func(context.Context, string, string) (string, error) { return "  ", nil }

		res := f.advisor().AnalyzeInvestmentQuery(context.Background(), "TSLA", "outlook?")
		assert.False(t, res.Success)
		assert.Equal(t, ErrEmptyAnswer.Error(), res.Error)
	})

	t.Run("error: blank input fails without calling upstreams", func(t *testing.T) {
		t.Parallel()
		f := newFixture()

		res := f.advisor().AnalyzeInvestmentQuery(context.Background(), "   ", "outlook?")
		assert.False(t, res.Success)
		assert.Equal(t, ErrEmptyQuery.Error(), res.Error)
		assert.Equal(t, 0, f.llm.calls)
		assert.Empty(t, f.market.symbols)
	})

	t.Run("error: panic in the language model is contained", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.llm.GenerateFunc = func(context.Context, string, string) (string, error) { panic("boom") }

		res := f.advisor().AnalyzeInvestmentQuery(context.Background(), "TSLA", "outlook?")
		assert.False(t, res.Success)
		assert.True(t, strings.HasPrefix(res.Error, "internal error"))
		assert.Equal(t, analysisFailureAnswer, res.Answer)
	})
}

func TestAdvisor_GenerateDetailedReport(t *testing.T) {
	t.Parallel()

	t.Run("success: report parameters and full history", func(t *testing.T) {
		t.Parallel()
		f := newFixture()

		res := f.advisor().GenerateDetailedReport(context.Background(), "Tesla", "Long-term outlook")

		require.True(t, res.Success)
		assert.Equal(t, entity.KindReport, res.Kind)
		assert.Len(t, res.History, 7)
		assert.Len(t, res.News, 7)
		assert.Equal(t, 5, res.ContextUsed)
		assert.Len(t, res.Sources, 5)
		assert.Equal(t, "TSLA financial analysis investment outlook", f.docs.query)
		assert.Equal(t, 5, f.docs.k)
		assert.Equal(t, 7, f.market.newsCount)
		assert.Equal(t, fixedNow.AddDate(0, 0, -90), f.market.from)
		assert.Equal(t, reportSystemPrompt, f.llm.system)
		assert.Contains(t, f.llm.user, "Prepare a comprehensive investment analysis report for TSLA addressing: Long-term outlook")
	})

	t.Run("error: report failure uses report apology", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.llm.GenerateFunc = func(context.Context, string, string) (string, error) {
			return "", errors.New("quota exceeded")
		}

		res := f.advisor().GenerateDetailedReport(context.Background(), "TSLA", "outlook")
		assert.False(t, res.Success)
		assert.Equal(t, "Error generating report.", res.Answer)
		assert.Equal(t, "quota exceeded", res.Error)
	})
}

type recordingObserver struct {
	mu      sync.Mutex
	fetches map[string]bool
	queries []bool
}

func (o *recordingObserver) ObserveFetch(source string, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fetches[source] = err == nil
}

func (o *recordingObserver) ObserveQuery(_ entity.QueryKind, success bool, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.queries = append(o.queries, success)
}

func TestAdvisor_Observer(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.market.SearchNewsFunc = func(context.Context, string, int) ([]entity.NewsItem, error) {
		return nil, errors.New("down")
	}
	obs := &recordingObserver{fetches: map[string]bool{}}

	res := f.advisor(WithObserver(obs)).AnalyzeInvestmentQuery(context.Background(), "TSLA", "q")

	require.True(t, res.Success)
	assert.Equal(t, map[string]bool{"quote": true, "company": true, "history": true, "news": false, "retrieval": true}, obs.fetches)
	assert.Equal(t, []bool{true}, obs.queries)
}
