package main

// Run one screening against the configured stores and print the ranking:
//   go run ./cmd/screen [-job <jobId>]

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"resume-screener/internal/bootstrap"
	"resume-screener/internal/screening"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/telemetry"
)

func main() {
	jobID := flag.String("job", "", "screen applications for this job posting only")
	quiet := flag.Bool("quiet", true, "suppress structured logs")
	flag.Parse()

	if *quiet {
		telemetry.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, config.Load())
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	run, err := app.ScreeningService.Screen(ctx, *jobID, "")
	if err != nil {
		log.Fatalf("screening failed: %v", err)
	}
	if err := printRun(os.Stdout, run); err != nil {
		log.Fatalf("print results: %v", err)
	}
}

func printRun(out io.Writer, run *screening.Run) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tEMAIL\tSCORE\tFILE\tFLAG")
	for i, r := range run.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%s\t%s\n", i+1, r.CandidateName, r.CandidateEmail, r.Score, r.FileName, r.Flag)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if run.ExportKey != "" {
		fmt.Fprintf(out, "\nexport: %s\n", run.ExportKey)
	}
	for _, w := range run.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	return nil
}
