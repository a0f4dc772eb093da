// Command loudness-wav measures EBU R128 loudness of WAV files.
//
// Usage:
//
//	loudness-wav track.wav
//	loudness-wav --mode I,LRA,TP album/*.wav        # Per-track and album readings
//	loudness-wav --jobs 4 --tui album/*.wav          # Measure four files at a time
//	loudness-wav --no-parallel --chunk 4800 in.wav   # Sequential channels, 100 ms chunks
//
// Each file gets its own meter. With more than one file, album integrated
// loudness and range are computed over the union of all files' blocks.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	loudness "github.com/tphakala/go-audio-loudness"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Version  bool     `short:"v" help:"Show version information"`
	Mode     string   `short:"m" default:"all" help:"Measurements: comma-separated M, S, I, LRA, SP, TP, or all"`
	Parallel bool     `default:"true" negatable:"" help:"Filter channels of a file concurrently"`
	Jobs     int      `short:"j" default:"1" help:"Number of files measured concurrently"`
	Chunk    int      `default:"65536" help:"Frames decoded per chunk"`
	TUI      bool     `name:"tui" help:"Show an interactive progress view"`
	Verbose  bool     `short:"V" help:"Log format details and progress"`
	Files    []string `arg:"" name:"files" help:"WAV files to measure" type:"existingfile" optional:""`
}

func main() {
	if err := run(); err != nil {
		PrintError(err.Error())
		os.Exit(1)
	}
}

func run() error {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("loudness-wav"),
		kong.Description("EBU R128 loudness meter for WAV files"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(styledHelpPrinter),
	)

	if cliArgs.Version {
		PrintVersion(version)
		return nil
	}

	if len(cliArgs.Files) == 0 {
		_ = ctx.PrintUsage(false)
		return errors.New("no input files specified")
	}

	mode, err := loudness.ParseMode(cliArgs.Mode)
	if err != nil {
		return err
	}
	if cliArgs.Chunk <= 0 {
		return fmt.Errorf("chunk must be positive, got %d", cliArgs.Chunk)
	}

	opts := measureOptions{
		mode:     mode,
		parallel: cliArgs.Parallel,
		chunk:    cliArgs.Chunk,
		// Log lines would corrupt the TUI.
		verbose: cliArgs.Verbose && !cliArgs.TUI,
	}

	if opts.verbose {
		log.Printf("Files: %d", len(cliArgs.Files))
		log.Printf("Mode: %s", mode)
		log.Printf("Jobs: %d", cliArgs.Jobs)
		if opts.parallel {
			log.Printf("Parallel: enabled (concurrent channel filtering)")
		} else {
			log.Printf("Parallel: disabled (sequential processing)")
		}
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var outcomes []fileOutcome
	if cliArgs.TUI {
		outcomes, err = runWithTUI(sigCtx, cliArgs.Files, cliArgs.Jobs, opts)
		if err != nil {
			return err
		}
	} else {
		outcomes = measureAll(sigCtx, cliArgs.Files, cliArgs.Jobs, opts, batchEvents{})
	}

	if err := sigCtx.Err(); err != nil {
		return fmt.Errorf("measurement cancelled: %w", err)
	}

	album, err := measureAlbum(outcomes, mode)
	if err != nil {
		return err
	}

	if failed := printReport(os.Stdout, outcomes, album, mode); failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(outcomes))
	}

	return nil
}

// runWithTUI measures files in the background while a Bubbletea program shows
// their progress.
func runWithTUI(parent context.Context, files []string, jobs int, opts measureOptions) ([]fileOutcome, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	p := tea.NewProgram(NewModel(files, cancel))

	var outcomes []fileOutcome
	done := make(chan struct{})
	go func() {
		defer close(done)
		outcomes = measureAll(ctx, files, jobs, opts, tuiEvents(p))
		p.Send(AllCompleteMsg{})
	}()

	final, err := p.Run()
	cancel()
	<-done
	if err != nil {
		return nil, fmt.Errorf("progress view failed: %w", err)
	}

	if m, ok := final.(Model); ok && m.Cancelled {
		return nil, context.Canceled
	}

	return outcomes, nil
}

// tuiEvents forwards batch events to the progress view.
func tuiEvents(p *tea.Program) batchEvents {
	return batchEvents{
		start: func(index int, path string) {
			p.Send(FileStartMsg{FileIndex: index, FileName: path})
		},
		progress: func(index int, fp fileProgress) {
			var progress float64
			if fp.total > 0 {
				progress = float64(fp.frames) / float64(fp.total)
			}
			p.Send(ProgressMsg{FileIndex: index, Progress: progress, ShortTerm: fp.shortTerm})
		},
		complete: func(index int, res *fileResult, err error) {
			p.Send(completeMsg(index, res, err))
		},
	}
}

// completeMsg summarizes a finished file for the progress view.
func completeMsg(index int, res *fileResult, err error) FileCompleteMsg {
	msg := FileCompleteMsg{FileIndex: index, Error: err}
	if err == nil && res != nil {
		msg.Integrated = res.result.Integrated
		msg.TruePeak = loudness.AmplitudeToDB(res.result.MaxTruePeak())
	}
	return msg
}

// styledHelpPrinter prints a styled title above kong's default help.
func styledHelpPrinter(options kong.HelpOptions, ctx *kong.Context) error {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("loudness-wav"))
	sb.WriteString("\n")
	fmt.Fprint(ctx.Stdout, sb.String())

	options.Compact = true
	return kong.DefaultHelpPrinter(options, ctx)
}
