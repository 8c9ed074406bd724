package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/claim-extract/internal/cloud"
	"github.com/gyeh/claim-extract/internal/config"
	"github.com/gyeh/claim-extract/internal/output"
	"github.com/gyeh/claim-extract/internal/progress"
	"github.com/gyeh/claim-extract/internal/worker"
	"github.com/gyeh/claim-extract/internal/x12"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "claim-extract",
		Short: "Convert X12 837 healthcare claim files into structured JSON records",
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newFetchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newParseCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a single claim file and print or write its JSON records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]

			src, closer, err := x12.Open(inputPath)
			if err != nil {
				return fmt.Errorf("opening %s: %w", inputPath, err)
			}
			defer closer.Close()

			result, err := x12.Run(src, worker.FileName(inputPath))
			if err != nil {
				return fmt.Errorf("interpreting %s: %w", inputPath, err)
			}

			if ok, msg := x12.Validate(result); !ok {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
			}

			if err := output.WriteResult(outputPath, result); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			if outputPath != "-" {
				fmt.Fprintf(os.Stderr, "%d segment(s), %d claim(s), %d service line(s) -> %s\n",
					result.Summary.Segments, result.Summary.Claims, result.Summary.ServiceLines, outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Output file path (use '-' for stdout)")

	return cmd
}

func newFetchCmd() *cobra.Command {
	var (
		bucket     string
		region     string
		prefix     string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "fetch <name>",
		Short: "Download an archived result from S3 and print or write it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bucket == "" {
				return fmt.Errorf("no S3 bucket specified")
			}

			ctx := context.Background()
			client, err := cloud.NewS3Client(ctx, bucket, region, prefix)
			if err != nil {
				return err
			}

			result, err := client.DownloadResult(ctx, args[0])
			if err != nil {
				return fmt.Errorf("fetching %s: %w", args[0], err)
			}

			if err := output.WriteResult(outputPath, result); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			if outputPath != "-" {
				fmt.Fprintf(os.Stderr, "%s: %d claim(s) -> %s\n",
					args[0], result.Summary.Claims, outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "s3-bucket", "", "S3 bucket holding archived outputs")
	cmd.Flags().StringVar(&region, "s3-region", "us-east-1", "AWS region for the archive bucket")
	cmd.Flags().StringVar(&prefix, "s3-prefix", "", "Key prefix the outputs were archived under")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Output file path (use '-' for stdout)")

	return cmd
}

func newBatchCmd() *cobra.Command {
	var (
		cfgFile    string
		inputDir   string
		outputDir  string
		workers    int
		extensions []string
		noProgress bool
		s3Bucket   string
		s3Region   string
		s3Prefix   string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Convert every claim file in a directory, continuing past failures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if cfgFile != "" {
				loaded, err := config.Load(cfgFile)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			// Flags override config file values.
			if cmd.Flags().Changed("input") {
				cfg.InputDir = inputDir
			}
			if cmd.Flags().Changed("output") {
				cfg.OutputDir = outputDir
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("ext") {
				cfg.Extensions = extensions
			}
			if cmd.Flags().Changed("s3-bucket") {
				cfg.S3Bucket = s3Bucket
			}
			if cmd.Flags().Changed("s3-region") {
				cfg.S3Region = s3Region
			}
			if cmd.Flags().Changed("s3-prefix") {
				cfg.S3Prefix = s3Prefix
			}

			return runBatch(cfg, noProgress)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "YAML config file with batch defaults")
	cmd.Flags().StringVarP(&inputDir, "input", "i", "input_files", "Directory containing claim files")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "output_files", "Directory for JSON output")
	cmd.Flags().IntVar(&workers, "workers", 3, "Number of concurrent file workers")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "Claim file extensions to discover (default .txt,.edi,.x12,.837)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable progress bars")
	cmd.Flags().StringVar(&s3Bucket, "s3-bucket", "", "Upload outputs to this S3 bucket")
	cmd.Flags().StringVar(&s3Region, "s3-region", "us-east-1", "AWS region for the archive bucket")
	cmd.Flags().StringVar(&s3Prefix, "s3-prefix", "", "Key prefix for uploaded outputs")

	return cmd
}

func runBatch(cfg *config.Config, noProgress bool) error {
	files, err := worker.Discover(cfg.InputDir, cfg.Extensions)
	if err != nil {
		return fmt.Errorf("discovering input files: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No claim files found in %s\n", cfg.InputDir)
		return nil
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Found %d file(s) to process\n", len(files))

	var mgr progress.Manager
	if noProgress {
		mgr = progress.NewLogManager()
	} else {
		mgr = progress.NewMPBManager()
	}

	// Handle signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, finishing in-flight files...")
		cancel()
	}()

	startTime := time.Now()

	pool := &worker.Pool{
		Workers:   cfg.Workers,
		OutputDir: cfg.OutputDir,
		Progress:  mgr,
	}
	results := pool.Run(ctx, files)
	mgr.Wait()

	report := output.NewBatchReport(startTime)
	for _, r := range results {
		fr := output.FileReport{
			Input:  worker.FileName(r.Input),
			Status: "SUCCESS",
		}
		if r.Err != nil {
			fr.Status = "FAILED"
			fr.Error = r.Err.Error()
			fmt.Fprintf(os.Stderr, "  FAILED %s: %v\n", fr.Input, r.Err)
		} else {
			fr.Output = worker.FileName(r.OutputFile)
			fr.Summary = r.Result.Summary
			fr.Validation = "VALID"
			if r.Warning != "" {
				fr.Validation = "WARNING: " + r.Warning
			}
			fmt.Fprintf(os.Stderr, "  %s -> %s (%d claim(s), %s)\n",
				fr.Input, fr.Output, fr.Summary.Claims, fr.Validation)
		}
		report.Add(fr)
	}
	report.DurationSeconds = time.Since(startTime).Seconds()

	reportPath, err := report.Write(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("writing batch report: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d succeeded, %d failed, %d claim(s), %d service line(s) in %.1fs\n",
		report.Succeeded, report.Failed, report.TotalClaims, report.TotalLines, report.DurationSeconds)
	fmt.Fprintf(os.Stderr, "Report written to %s\n", reportPath)

	if cfg.S3Bucket != "" {
		if err := uploadOutputs(ctx, cfg, results); err != nil {
			return fmt.Errorf("uploading to S3: %w", err)
		}
	}

	return nil
}

func uploadOutputs(ctx context.Context, cfg *config.Config, results []worker.PipelineResult) error {
	client, err := cloud.NewS3Client(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix)
	if err != nil {
		return err
	}

	uploaded := 0
	for _, r := range results {
		if r.Err != nil || r.OutputFile == "" {
			continue
		}
		if err := client.UploadOutput(ctx, r.OutputFile); err != nil {
			return err
		}
		uploaded++
	}

	fmt.Fprintf(os.Stderr, "Uploaded %d output file(s) to s3://%s/%s\n", uploaded, cfg.S3Bucket, cfg.S3Prefix)
	return nil
}
