package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"stock_advisor/internal/app/di"
	"stock_advisor/internal/feature/knowledge/usecase"
	"stock_advisor/internal/feature/knowledge/vectorindex"
)

// env はサブコマンドが共有するインデックスとユースケースです。
type env struct {
	index *vectorindex.Index
	uc    *usecase.KnowledgeUsecase
}

func loadEnv(ctx context.Context, dir string) (*env, error) {
	cfg, err := di.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if dir != "" {
		cfg.IndexDir = dir
	}
	ix, uc, err := di.NewKnowledge(ctx, cfg, di.NewModels(cfg))
	if err != nil {
		return nil, err
	}
	return &env{index: ix, uc: uc}, nil
}

func newRootCmd() *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:           "indexer",
		Short:         "Manage the research document embedding index",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dir, "dir", "", "index directory (defaults to INDEX_DIR)")

	root.AddCommand(
		newPopulateCmd(&dir),
		newAddCmd(&dir),
		newAddPDFCmd(&dir),
		newSearchCmd(&dir),
	)
	return root
}

func newPopulateCmd(dir *string) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Add the default financial notes to the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd.Context(), *dir)
			if err != nil {
				return err
			}
			if !e.index.IsEmpty() && !force {
				cmd.Printf("index already has %d documents; use --force to append defaults\n", e.index.Len())
				return nil
			}
			if err := e.index.PopulateDefaults(cmd.Context()); err != nil {
				return err
			}
			if err := e.index.Save(); err != nil {
				return err
			}
			cmd.Printf("index now has %d documents\n", e.index.Len())
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "append defaults even when the index is not empty")
	return cmd
}

func newAddCmd(dir *string) *cobra.Command {
	var ticker, docType, date string
	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Add one document to the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context(), *dir)
			if err != nil {
				return err
			}
			meta := metadata(ticker, docType, date)
			if err := e.uc.AddDocument(cmd.Context(), strings.Join(args, " "), meta); err != nil {
				return err
			}
			cmd.Printf("added; index now has %d documents\n", e.index.Len())
			return nil
		},
	}
	addMetadataFlags(cmd, &ticker, &docType, &date)
	return cmd
}

func newAddPDFCmd(dir *string) *cobra.Command {
	var ticker, docType, date string
	cmd := &cobra.Command{
		Use:   "add-pdf <file.pdf>",
		Short: "Extract, chunk and add a PDF research report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context(), *dir)
			if err != nil {
				return err
			}
			n, err := e.uc.IngestPDF(cmd.Context(), args[0], metadata(ticker, docType, date))
			if err != nil {
				return err
			}
			cmd.Printf("added %d chunks from %s; index now has %d documents\n", n, args[0], e.index.Len())
			return nil
		},
	}
	addMetadataFlags(cmd, &ticker, &docType, &date)
	return cmd
}

func newSearchCmd(dir *string) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Print the documents closest to a query as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context(), *dir)
			if err != nil {
				return err
			}
			results, err := e.uc.Search(cmd.Context(), strings.Join(args, " "), k)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}
	cmd.Flags().IntVar(&k, "k", usecase.DefaultSearchK, "number of results")
	return cmd
}

func addMetadataFlags(cmd *cobra.Command, ticker, docType, date *string) {
	cmd.Flags().StringVar(ticker, "ticker", "", "ticker metadata")
	cmd.Flags().StringVar(docType, "type", "", "document type metadata (e.g. earnings_report)")
	cmd.Flags().StringVar(date, "date", "", "document date metadata")
}

func metadata(ticker, docType, date string) map[string]string {
	meta := map[string]string{}
	if ticker != "" {
		meta["ticker"] = strings.ToUpper(ticker)
	}
	if docType != "" {
		meta["type"] = docType
	}
	if date != "" {
		meta["date"] = date
	}
	return meta
}
