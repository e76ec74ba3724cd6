package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docneat/statement-converter/internal/api"
	"github.com/docneat/statement-converter/internal/convert"
	"github.com/docneat/statement-converter/internal/jobs"
	"github.com/docneat/statement-converter/internal/logger"
	"github.com/docneat/statement-converter/internal/storage"
	"github.com/docneat/statement-converter/internal/textract"
	"github.com/docneat/statement-converter/internal/writer"
)

const version = "1.0.0"

func main() {
	serveFlag := flag.Bool("serve", false, "Run the HTTP conversion service instead of converting files")
	addrFlag := flag.String("addr", envDefault("ADDR", ":8080"), "Listen address for -serve")
	engineFlag := flag.String("engine-url", os.Getenv("ENGINE_URL"), "Table-detection engine analyze endpoint (optional)")
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with new extension)")
	formatFlag := flag.String("format", "csv", "Output format: csv, xlsx, or both")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Statement Converter

Converts bank statement documents into structured transaction tables.
Inputs are PDFs or raw table-detection (AnalyzeDocument) JSON dumps.

Usage:
  statement-converter [flags] <input.pdf|input.json> [input2 ...]
  statement-converter -serve [-addr :8080]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert a detection dump to CSV
  statement-converter statement.json

  # Convert a PDF through a detection engine
  statement-converter -engine-url=https://engine.internal/analyze statement.pdf

  # Emit both CSV and XLSX
  statement-converter -format=both statement.json

  # Run the HTTP service
  statement-converter -serve -addr :8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-converter v%s\n", version)
		os.Exit(0)
	}

	log := logger.New()

	if *serveFlag {
		if err := serve(*addrFlag, *engineFlag); err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	switch *formatFlag {
	case "csv", "xlsx", "both":
	default:
		fatalf("Unknown format %q. Supported: csv, xlsx, both\n", *formatFlag)
	}

	conv := &convert.Converter{Log: log}
	if *engineFlag != "" {
		conv.Engine = textract.NewHTTPEngine(*engineFlag)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(conv, inputPath, *outputFlag, *formatFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(conv *convert.Converter, inputPath, outputPath, format string) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".pdf" && ext != ".json" {
		return fmt.Errorf("expected .pdf or .json file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	res, err := conv.Document(context.Background(), inputPath, inputPath, data)
	if err != nil {
		return err
	}

	fmt.Printf("  Found %d transaction(s)\n", len(res.Transactions))
	if !res.TableDetected && res.TablesSeen > 0 {
		fmt.Println("  Warning: tables were detected but none looked like a transaction table.")
	}

	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if outputPath != "" {
		base = strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	}

	if format == "csv" || format == "both" {
		w := &writer.CSVWriter{}
		if err := w.WriteToFile(base+".csv", res.Transactions); err != nil {
			return fmt.Errorf("csv write failed: %w", err)
		}
		fmt.Printf("  Output: %s.csv\n", base)
	}
	if format == "xlsx" || format == "both" {
		w := &writer.XLSXWriter{}
		if err := w.WriteToFile(base+".xlsx", res.Transactions); err != nil {
			return fmt.Errorf("xlsx write failed: %w", err)
		}
		fmt.Printf("  Output: %s.xlsx\n", base)
	}

	fmt.Println("  Done.")
	return nil
}

func serve(addr, engineURL string) error {
	log := logger.New()

	store, err := storage.New(
		envDefault("UPLOAD_DIR", filepath.Join(os.TempDir(), "uploads")),
		envDefault("OUTPUT_DIR", filepath.Join(os.TempDir(), "outputs")),
	)
	if err != nil {
		return err
	}

	conv := &convert.Converter{Log: log}
	if engineURL != "" {
		conv.Engine = textract.NewHTTPEngine(engineURL)
	}

	jobStore := jobs.NewStore()
	queue := jobs.NewQueue(64, jobStore)
	defer queue.Close()

	srv := &api.Server{
		Store:    store,
		Conv:     conv,
		Queue:    queue,
		JobStore: jobStore,
		Log:      log,
		Version:  version,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx, 4, srv.JobHandler)

	// Outputs are temporary; sweep anything older than a day.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := store.Sweep(24 * time.Hour); err != nil {
					log.Warn().Err(err).Msg("storage sweep failed")
				} else if n > 0 {
					log.Info().Int("removed", n).Msg("swept expired files")
				}
			}
		}
	}()

	log.Info().Str("addr", addr).Bool("engine", engineURL != "").Msg("listening")
	return srv.App().Listen(addr)
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
