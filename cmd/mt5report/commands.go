package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-report/internal/config"
	"github.com/rxtech-lab/argo-report/internal/logger"
	"github.com/rxtech-lab/argo-report/internal/parser"
	"github.com/rxtech-lab/argo-report/internal/parser/extract"
	"github.com/rxtech-lab/argo-report/internal/service"
	"github.com/rxtech-lab/argo-report/internal/store"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// app is everything a command needs, built from the flags and the configuration file.
type app struct {
	cfg     config.Config
	logger  *logger.Logger
	store   *store.DuckDBStore
	service *service.ReportService
}

func openApp(cmd *cli.Command) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if v := cmd.String("log-level"); v != "" {
		cfg.LogLevel = v
	}

	if v := cmd.String("store"); v != "" {
		cfg.StorePath = v
	}

	if v := cmd.String("user"); v != "" {
		cfg.DefaultUserID = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	reports, err := store.NewDuckDBStore(cfg.StorePath, log)
	if err != nil {
		return nil, err
	}

	dispatcher := parser.NewDispatcher(cfg.ParserSlots(), extract.Options{Logger: log})

	return &app{
		cfg:     cfg,
		logger:  log,
		store:   reports,
		service: service.NewReportService(dispatcher, reports, log),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Failed to close report store", zap.Error(err))
	}

	_ = a.logger.Sync()
}

func parseAction(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return errors.New(errors.ErrCodeMissingParameter, "at least one report file is required")
	}

	kind := types.ReportType(cmd.String("kind"))
	output := cmd.String("output")

	if err := checkOutput(output); err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.Root().Writer
	save := cmd.Bool("save")
	outDir := cmd.String("out-dir")

	var bar *progressbar.ProgressBar
	if len(files) > 1 {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Parsing reports"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
	}

	var failed int

	for _, file := range files {
		result, saved, err := a.parseFile(ctx, file, kind, save)

		if bar != nil {
			_ = bar.Add(1)
		}

		if err != nil {
			failed++

			fmt.Fprintln(w, renderFailure(file, errors.UserMessage(err)))

			continue
		}

		if outDir != "" {
			path := filepath.Join(outDir, reportFileName(file))
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			if err := types.WriteReportYAML(path, result.Report); err != nil {
				return err
			}
		}

		if err := writeReport(w, output, result.Report, result.Diagnostics, saved); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be parsed", failed, len(files))
	}

	return nil
}

// parseFile parses one file and saves it when save is set. The returned id is empty when nothing was saved.
func (a *app) parseFile(ctx context.Context, file string, kind types.ReportType, save bool) (types.ParseResult, string, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return types.ParseResult{}, "", fmt.Errorf("failed to read %s: %w", file, err)
	}

	name := filepath.Base(file)

	if !save {
		result := a.service.Parse(name, content, kind)

		return result, "", result.Err()
	}

	ingested, err := a.service.Ingest(ctx, name, content, kind, a.cfg.DefaultUserID)
	if err != nil {
		return ingested.Result, "", err
	}

	return ingested.Result, ingested.Saved.ID, nil
}

func listAction(ctx context.Context, cmd *cli.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	reports, err := a.store.List(ctx, a.cfg.DefaultUserID)
	if err != nil {
		return err
	}

	var activeID string
	if active, err := a.store.GetActive(ctx, a.cfg.DefaultUserID); err == nil {
		activeID = active.ID
	}

	fmt.Fprintln(cmd.Root().Writer, renderList(reports, activeID))

	return nil
}

func showAction(ctx context.Context, cmd *cli.Command) error {
	output := cmd.String("output")
	if err := checkOutput(output); err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var saved store.SavedReport

	if id := cmd.Args().First(); id != "" {
		saved, err = a.store.Get(ctx, a.cfg.DefaultUserID, id)
	} else {
		saved, err = a.store.GetActive(ctx, a.cfg.DefaultUserID)
	}

	if err != nil {
		return err
	}

	w := cmd.Root().Writer

	if err := writeReport(w, output, saved.Report, nil, saved.ID); err != nil {
		return err
	}

	if cmd.Bool("analysis") {
		return writeAnalysis(w, output, service.Analyze(saved.Report))
	}

	return nil
}

func activateAction(ctx context.Context, cmd *cli.Command) error {
	id, err := requireID(cmd)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.SetActive(ctx, a.cfg.DefaultUserID, id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "Active report: %s\n", id)

	return nil
}

func deleteAction(ctx context.Context, cmd *cli.Command) error {
	id, err := requireID(cmd)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Delete(ctx, a.cfg.DefaultUserID, id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "Deleted report %s\n", id)

	return nil
}

func exportAction(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errors.New(errors.ErrCodeMissingParameter, "an export path is required")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Export(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "Exported reports to %s\n", path)

	return nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	cfg := config.DefaultConfig()

	schema, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().Writer, schema)

	return nil
}

func requireID(cmd *cli.Command) (string, error) {
	id := cmd.Args().First()
	if id == "" {
		return "", errors.New(errors.ErrCodeMissingParameter, "a report id is required")
	}

	return id, nil
}

// reportFileName turns "ReportHistory-123.html" into "ReportHistory-123.yaml".
func reportFileName(file string) string {
	base := filepath.Base(file)

	return strings.TrimSuffix(base, filepath.Ext(base)) + ".yaml"
}
