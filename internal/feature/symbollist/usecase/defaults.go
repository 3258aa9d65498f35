package usecase

import "stock_advisor/internal/feature/symbollist/domain/entity"

// DefaultSymbols is the initial symbol master.
var DefaultSymbols = []entity.Symbol{
	{Code: "AAPL", Name: "Apple Inc.", Market: "NASDAQ", Kind: "Equity", IsActive: true, SortKey: 1},
	{Code: "MSFT", Name: "Microsoft Corporation", Market: "NASDAQ", Kind: "Equity", IsActive: true, SortKey: 2},
	{Code: "NVDA", Name: "NVIDIA Corporation", Market: "NASDAQ", Kind: "Equity", IsActive: true, SortKey: 3},
	{Code: "AMZN", Name: "Amazon.com, Inc.", Market: "NASDAQ", Kind: "Equity", IsActive: true, SortKey: 4},
	{Code: "GOOGL", Name: "Alphabet Inc.", Market: "NASDAQ", Kind: "Equity", IsActive: true, SortKey: 5},
	{Code: "META", Name: "Meta Platforms, Inc.", Market: "NASDAQ", Kind: "Equity", IsActive: true, SortKey: 6},
	{Code: "TSLA", Name: "Tesla, Inc.", Market: "NASDAQ", Kind: "Equity", IsActive: true, SortKey: 7},
	{Code: "NFLX", Name: "Netflix, Inc.", Market: "NASDAQ", Kind: "Equity", IsActive: true, SortKey: 8},
	{Code: "AMD", Name: "Advanced Micro Devices, Inc.", Market: "NASDAQ", Kind: "Equity", IsActive: true, SortKey: 9},
	{Code: "INTC", Name: "Intel Corporation", Market: "NASDAQ", Kind: "Equity", IsActive: true, SortKey: 10},
	{Code: "JPM", Name: "JPMorgan Chase & Co.", Market: "NYSE", Kind: "Equity", IsActive: true, SortKey: 11},
	{Code: "V", Name: "Visa Inc.", Market: "NYSE", Kind: "Equity", IsActive: true, SortKey: 12},
	{Code: "WMT", Name: "Walmart Inc.", Market: "NYSE", Kind: "Equity", IsActive: true, SortKey: 13},
	{Code: "KO", Name: "The Coca-Cola Company", Market: "NYSE", Kind: "Equity", IsActive: true, SortKey: 14},
	{Code: "DIS", Name: "The Walt Disney Company", Market: "NYSE", Kind: "Equity", IsActive: true, SortKey: 15},
	{Code: "NKE", Name: "NIKE, Inc.", Market: "NYSE", Kind: "Equity", IsActive: true, SortKey: 16},
	{Code: "F", Name: "Ford Motor Company", Market: "NYSE", Kind: "Equity", IsActive: true, SortKey: 17},
	{Code: "GM", Name: "General Motors Company", Market: "NYSE", Kind: "Equity", IsActive: true, SortKey: 18},
	{Code: "RIVN", Name: "Rivian Automotive, Inc.", Market: "NASDAQ", Kind: "Equity", IsActive: true, SortKey: 19},
	{Code: "SPY", Name: "SPDR S&P 500 ETF Trust", Market: "NYSE Arca", Kind: "ETF", IsActive: true, SortKey: 20},
	{Code: "QQQ", Name: "Invesco QQQ Trust", Market: "NASDAQ", Kind: "ETF", IsActive: true, SortKey: 21},
}
