// Package usecase は投資クエリのオーケストレーション（銘柄解決、並行データ取得、
// 類似文書検索、コンテキスト組み立て、回答生成、リスクスコア算出）を実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stock_advisor/internal/feature/advisor/domain/entity"
	kentity "stock_advisor/internal/feature/knowledge/domain/entity"
)

const (
	// DefaultFetchTimeout はデータ取得フェーズ全体の既定の期限です。
	DefaultFetchTimeout = 20 * time.Second

	analysisHistoryDays = 30
	analysisNewsCount   = 5
	analysisTopK        = 3
	reportHistoryDays   = 90
	reportNewsCount     = 7
	reportTopK          = 5

	analysisFailureAnswer = "I apologize, but I encountered an error processing your request."
	reportFailureAnswer   = "Error generating report."
)

var (
	// ErrEmptyQuery は会社名・ティッカーが空の場合に返されます。
	ErrEmptyQuery = errors.New("company or ticker is required")
	// ErrEmptyAnswer は言語モデルが空の回答を返した場合に使われます。
	ErrEmptyAnswer = errors.New("language model returned an empty answer")
)

// TickerResolver は会社名やティッカー文字列をシンボルに解決します。
// 見つからない場合は (nil, nil) を返します。
type TickerResolver interface {
	Resolve(ctx context.Context, query string) (*entity.TickerResolution, error)
}

// QuoteFetcher は現在値を取得します。
type QuoteFetcher interface {
	GetQuote(ctx context.Context, symbol string) (entity.Quote, error)
}

// CompanyFetcher は企業情報を取得します。
type CompanyFetcher interface {
	GetCompanyInfo(ctx context.Context, symbol string) (entity.CompanyInfo, error)
}

// HistoryFetcher は [from, to] の日足を日付昇順で取得します。
type HistoryFetcher interface {
	GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]entity.HistoricalBar, error)
}

// NewsSearcher はクエリに関するニュースを最大 count 件取得します。
type NewsSearcher interface {
	SearchNews(ctx context.Context, query string, count int) ([]entity.NewsItem, error)
}

// DocumentSearcher は埋め込みインデックスから類似文書を検索します。
type DocumentSearcher interface {
	Search(ctx context.Context, query string, k int) ([]kentity.SearchResult, error)
}

// LanguageModel はシステムプロンプトとユーザープロンプトから回答を生成します。
type LanguageModel interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Observer は取得とクエリの結果を計測します。
type Observer interface {
	ObserveFetch(source string, err error, elapsed time.Duration)
	ObserveQuery(kind entity.QueryKind, success bool, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveFetch(string, error, time.Duration)          {}
func (nopObserver) ObserveQuery(entity.QueryKind, bool, time.Duration) {}

// Deps はAdvisorが利用する外部依存の集合です。
type Deps struct {
	Resolver  TickerResolver
	Quotes    QuoteFetcher
	Companies CompanyFetcher
	History   HistoryFetcher
	News      NewsSearcher
	Documents DocumentSearcher
	LLM       LanguageModel
}

// Option はAdvisorの任意設定です。
type Option func(*Advisor)

// WithFetchTimeout はデータ取得フェーズの期限を設定します。0 以下は期限なしです。
func WithFetchTimeout(d time.Duration) Option {
	return func(a *Advisor) { a.fetchTimeout = d }
}

// WithObserver は計測先を設定します。
func WithObserver(o Observer) Option {
	return func(a *Advisor) {
		if o != nil {
			a.obs = o
		}
	}
}

// WithClock は現在時刻の取得方法を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(a *Advisor) { a.now = now }
}

// Advisor は投資クエリを処理するオーケストレーターです。
// リクエスト間で状態を共有しないため、複数のゴルーチンから同時に利用できます。
type Advisor struct {
	deps         Deps
	fetchTimeout time.Duration
	obs          Observer
	now          func() time.Time
}

// NewAdvisor は新しいAdvisorを生成します。
func NewAdvisor(deps Deps, opts ...Option) *Advisor {
	a := &Advisor{
		deps:         deps,
		fetchTimeout: DefaultFetchTimeout,
		obs:          nopObserver{},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// queryPlan はクエリ種別ごとのパラメータです。
type queryPlan struct {
	kind          entity.QueryKind
	historyDays   int
	newsCount     int
	topK          int
	searchQuery   func(ticker, question string) string
	systemPrompt  string
	userPrompt    func(ticker, question, context string) string
	fullHistory   bool
	failureAnswer string
}

var analysisPlan = queryPlan{
	kind:        entity.KindAnalysis,
	historyDays: analysisHistoryDays,
	newsCount:   analysisNewsCount,
	topK:        analysisTopK,
	searchQuery: func(ticker, question string) string {
		return ticker + " " + question
	},
	systemPrompt:  analysisSystemPrompt,
	userPrompt:    analysisUserPrompt,
	failureAnswer: analysisFailureAnswer,
}

var reportPlan = queryPlan{
	kind:        entity.KindReport,
	historyDays: reportHistoryDays,
	newsCount:   reportNewsCount,
	topK:        reportTopK,
	searchQuery: func(ticker, _ string) string {
		return ticker + " financial analysis investment outlook"
	},
	systemPrompt:  reportSystemPrompt,
	userPrompt:    reportUserPrompt,
	fullHistory:   true,
	failureAnswer: reportFailureAnswer,
}

// AnalyzeInvestmentQuery は簡潔な投資分析を生成します。
// 直近30日の日足、上位3件の文書、5件のニュースを使い、結果には直近5日分の日足を含めます。
func (a *Advisor) AnalyzeInvestmentQuery(ctx context.Context, companyOrTicker, question string) entity.QueryResult {
	return a.run(ctx, analysisPlan, companyOrTicker, question)
}

// GenerateDetailedReport は構成化された詳細レポートを生成します。
// 直近90日の日足、上位5件の文書、7件のニュースを使い、結果には全期間の日足を含めます。
func (a *Advisor) GenerateDetailedReport(ctx context.Context, companyOrTicker, question string) entity.QueryResult {
	return a.run(ctx, reportPlan, companyOrTicker, question)
}

func (a *Advisor) run(ctx context.Context, plan queryPlan, input, question string) (res entity.QueryResult) {
	start := time.Now()
	res = entity.QueryResult{
		Kind:     plan.kind,
		Question: question,
		History:  []entity.HistoricalBar{},
		News:     []entity.NewsItem{},
		Sources:  []map[string]string{},
	}
	defer func() {
		if p := recover(); p != nil {
			slog.Error("investment query panicked", "kind", plan.kind, "ticker", res.Ticker, "panic", p)
			a.fail(&res, plan, fmt.Errorf("internal error: %v", p))
		}
		a.obs.ObserveQuery(plan.kind, res.Success, time.Since(start))
	}()

	input = strings.TrimSpace(input)
	if input == "" {
		a.fail(&res, plan, ErrEmptyQuery)
		return res
	}

	// RESOLVE_TICKER
	resolved := a.resolve(ctx, input)
	ticker := strings.ToUpper(input)
	newsQuery := ticker
	if resolved != nil {
		ticker = strings.ToUpper(resolved.Symbol)
		if resolved.DisplayName != "" {
			newsQuery = resolved.DisplayName
		}
	}
	res.Ticker = ticker
	res.Resolved = resolved

	// FETCH / RETRIEVE_CONTEXT
	f := a.fetch(ctx, plan, ticker, question, newsQuery)
	res.Quote = &f.quote
	res.Company = &f.company
	res.News = f.news
	res.History = f.history
	if !plan.fullHistory {
		res.History = lastBars(f.history, RecentBarsInContext)
	}
	for _, d := range f.docs {
		res.Sources = append(res.Sources, d.Metadata)
	}
	res.ContextUsed = len(f.docs)

	// ASSEMBLE
	contextText := BuildContext(ContextInput{
		Documents:   f.docs,
		Quote:       &f.quote,
		Company:     &f.company,
		History:     f.history,
		News:        f.news,
		IncludeNews: true,
	})

	// GENERATE_ANSWER
	answer, err := a.deps.LLM.Generate(ctx, plan.systemPrompt, plan.userPrompt(ticker, question, contextText))
	if err == nil && strings.TrimSpace(answer) == "" {
		err = ErrEmptyAnswer
	}
	if err != nil {
		slog.Error("failed to generate answer", "kind", plan.kind, "ticker", ticker, "error", err)
		a.fail(&res, plan, err)
		return res
	}
	res.Answer = answer

	// SCORE_RISK
	score := RiskScore(f.company, f.history)
	res.RiskScore = &score
	res.Success = true
	return res
}

func (a *Advisor) fail(res *entity.QueryResult, plan queryPlan, err error) {
	res.Success = false
	res.Error = err.Error()
	res.Answer = plan.failureAnswer
	res.RiskScore = nil
}

// resolve は解決失敗を「未解決」として扱います。
func (a *Advisor) resolve(ctx context.Context, input string) *entity.TickerResolution {
	r, err := a.deps.Resolver.Resolve(ctx, input)
	if err != nil {
		slog.Warn("ticker resolution failed, using raw input", "input", input, "error", err)
		return nil
	}
	if r == nil || strings.TrimSpace(r.Symbol) == "" {
		return nil
	}
	return r
}

type fetched struct {
	quote   entity.Quote
	company entity.CompanyInfo
	history []entity.HistoricalBar
	news    []entity.NewsItem
	docs    []kentity.SearchResult
}

// fetch は4つの取得元と文書検索を並行に実行し、全て揃うまで待ちます。
// 失敗した取得元はエラーレコードまたは空スライスになり、他の取得元には影響しません。
func (a *Advisor) fetch(ctx context.Context, plan queryPlan, ticker, question, newsQuery string) fetched {
	phaseCtx, cancel := ctx, context.CancelFunc(func() {})
	if a.fetchTimeout > 0 {
		phaseCtx, cancel = context.WithTimeout(ctx, a.fetchTimeout)
	}
	defer cancel()

	to := a.now()
	from := to.AddDate(0, 0, -plan.historyDays)

	sources := newFetchGroup(phaseCtx, MaxConcurrentFetches, a.obs)
	quote := submit(sources, "quote", func(ctx context.Context) (entity.Quote, error) {
		return a.deps.Quotes.GetQuote(ctx, ticker)
	})
	company := submit(sources, "company", func(ctx context.Context) (entity.CompanyInfo, error) {
		return a.deps.Companies.GetCompanyInfo(ctx, ticker)
	})
	history := submit(sources, "history", func(ctx context.Context) ([]entity.HistoricalBar, error) {
		return a.deps.History.GetHistory(ctx, ticker, from, to)
	})
	news := submit(sources, "news", func(ctx context.Context) ([]entity.NewsItem, error) {
		return a.deps.News.SearchNews(ctx, newsQuery, plan.newsCount)
	})

	retrieval := newFetchGroup(phaseCtx, 1, a.obs)
	docs := submit(retrieval, "retrieval", func(ctx context.Context) ([]kentity.SearchResult, error) {
		return a.deps.Documents.Search(ctx, plan.searchQuery(ticker, question), plan.topK)
	})

	sources.wait()
	retrieval.wait()

	out := fetched{
		quote:   quote.Value,
		company: company.Value,
		history: history.Value,
		news:    news.Value,
		docs:    docs.Value,
	}
	if quote.Err != nil {
		out.quote = entity.QuoteError(ticker, quote.Err)
	}
	if company.Err != nil {
		out.company = entity.CompanyError(ticker, company.Err)
	}
	if history.Err != nil || out.history == nil {
		out.history = []entity.HistoricalBar{}
	}
	if news.Err != nil || out.news == nil {
		out.news = []entity.NewsItem{}
	}
	if docs.Err != nil {
		out.docs = nil
	}
	if len(out.news) > plan.newsCount {
		out.news = out.news[:plan.newsCount]
	}
	return out
}
