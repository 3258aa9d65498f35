// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"stock_advisor/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for the symbol master.
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	Count(ctx context.Context) (int64, error)
	UpsertBatch(ctx context.Context, symbols []entity.Symbol) error
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns all active symbols from the repository.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// SeedDefaults stores DefaultSymbols when the master is empty.
// It returns the number of inserted symbols.
func (u *SymbolUsecase) SeedDefaults(ctx context.Context) (int, error) {
	n, err := u.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count symbols: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	seed := make([]entity.Symbol, len(DefaultSymbols))
	copy(seed, DefaultSymbols)
	if err := u.repo.UpsertBatch(ctx, seed); err != nil {
		return 0, fmt.Errorf("seed symbols: %w", err)
	}
	slog.Info("symbol master seeded", "count", len(seed))
	return len(seed), nil
}
