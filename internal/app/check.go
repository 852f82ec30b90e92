package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"orderbook-alerts/internal/alerting"
)

// CheckOptions configure the check command.
type CheckOptions struct {
	DryRun bool
	Out    io.Writer
}

// Check runs exactly one monitoring cycle and prints the resulting events.
func (a *App) Check(ctx context.Context, opts CheckOptions) error {
	wallet, err := a.resolveWallet()
	if err != nil {
		return err
	}

	var notifier alerting.Notifier
	if !opts.DryRun {
		notifier = a.newNotifier()
	}

	svc := a.newService(nil, notifier, nil, wallet)
	a.logBanner(wallet, svc.Pairs())

	events := svc.RunCycle(ctx, time.Now().UTC())
	writeEvents(opts.Out, events)
	return nil
}

func writeEvents(out io.Writer, events []alerting.Event) {
	if len(events) == 0 {
		fmt.Fprintln(out, "no alerts raised")
		return
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC)\tKind\tPair\tFindings\tMessage")
	for _, ev := range events {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%d\t%s\n",
			ev.Timestamp.UTC().Format(time.RFC3339),
			ev.Kind,
			ev.Pair,
			len(ev.Findings),
			sanitizeInline(alerting.RenderMessage(ev)),
		)
	}
	writer.Flush()
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " | ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
