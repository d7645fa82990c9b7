package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/tropelink"
	"github.com/aretw0/tropelink/internal/presentation/format"
	"github.com/aretw0/tropelink/internal/presentation/graph"
	"github.com/aretw0/tropelink/internal/presentation/tui"
	"github.com/aretw0/tropelink/pkg/domain"
)

const (
	promptSource = "TV Tropes URL of the initial work: "
	promptTarget = "TV Tropes URL of the final work: "
)

// ErrUsage is returned when find receives a wrong number of arguments.
var ErrUsage = errors.New("invalid usage: expected a source and a target work")

// ErrPromptClosed is returned when input ends before a work was entered.
var ErrPromptClosed = errors.New("input closed")

// IO groups the streams used by an interactive run.
// Prompts and the banner go to Err so Out only carries the report.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// RunFind resolves the two works (from args or prompts), searches the connection and prints it.
func RunFind(ctx context.Context, opts Options, args []string, streams IO) error {
	if len(args) != 0 && len(args) != 2 {
		return ErrUsage
	}

	outFormat, err := format.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	opts.Quiet = true
	stack, _, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer stack.Close()

	var source, target string
	if len(args) == 2 {
		source, target = args[0], args[1]
	} else {
		if isTerminal(streams.Err) {
			tui.PrintBanner(streams.Err)
		}
		reader := bufio.NewReader(streams.In)
		if source, err = prompt(reader, streams.Err, promptSource); err != nil {
			return err
		}
		if target, err = prompt(reader, streams.Err, promptTarget); err != nil {
			return err
		}
	}

	path, err := stack.Connector.Connect(ctx, source, target)
	if err != nil {
		return err
	}

	view := format.Resolve(ctx, path, stack.Connector.Names())
	return render(streams.Out, outFormat, view)
}

func prompt(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && line == "":
		return "", ErrPromptClosed
	case err != nil && !errors.Is(err, io.EOF):
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func render(w io.Writer, f format.Format, v *format.View) error {
	switch f {
	case format.FormatJSON:
		return format.JSON(w, v)
	case format.FormatMermaid:
		_, err := io.WriteString(w, graph.GenerateMermaid(v))
		return err
	case format.FormatMarkdown:
		md := format.Markdown(v)
		if isTerminal(w) {
			out, err := tui.NewRenderer()(md)
			if err == nil {
				md = out
			}
		}
		_, err := io.WriteString(w, md)
		return err
	default:
		return format.Text(w, v)
	}
}

// Message turns a find error into the one-line message printed before exiting.
// Interruptions yield an empty message.
func Message(err error) string {
	if err == nil || isInterrupted(err) {
		return ""
	}

	var endpoint *domain.EndpointError
	if errors.As(err, &endpoint) {
		if endpoint.Role == tropelink.RoleTarget {
			return "Final work not found."
		}
		return "Initial work not found."
	}
	switch {
	case errors.Is(err, ErrUsage):
		return "Invalid usage."
	case errors.Is(err, domain.ErrSearchLimit):
		return "Search stopped: expansion limit reached."
	case errors.Is(err, domain.ErrLookupFailure):
		return fmt.Sprintf("Lookup failed: %v", err)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Exit prints the outcome of a find run and returns the process exit code.
func Exit(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if isInterrupted(err) {
		printSystemMessage(w, "Interrupted.")
		return 0
	}
	fmt.Fprintln(w, Message(err))
	return 1
}
