package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/basel-ax/dreamator/internal/app"
	"github.com/basel-ax/dreamator/internal/domain"
)

const sessionHelp = `Commands:
  generate [-m style] <prompt>   generate a new batch of images
  edit <n> <changes>             refine result n, keeping its seed
  download <n> [file]            save result n to the download directory
  share <n>                      share result n
  results                        show the current results
  gallery                        show the gallery
  styles                         list styles
  help                           show this help
  quit                           leave the session`

func runSession(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	rt, err := newRuntime(ctx, cfg, writerSharer{w: out})
	if err != nil {
		return err
	}
	defer rt.Close()

	s := &session{
		ctl:          rt.controller,
		catalog:      rt.catalog,
		defaultModel: cfg.DefaultModel,
		out:          out,
	}
	unsubscribe := rt.controller.Subscribe(s.onState)
	defer unsubscribe()

	fmt.Fprintln(out, "Dreamator - type 'help' for commands.")
	return s.run(ctx, cmd.InOrStdin())
}

// session is the interactive front end; it only reads controller state.
type session struct {
	ctl          *app.Controller
	catalog      *domain.Catalog
	defaultModel string
	out          io.Writer

	generating bool
}

func (s *session) onState(st app.State) {
	if st.IsGenerating && !s.generating {
		fmt.Fprintln(s.out, "Generating...")
	}
	s.generating = st.IsGenerating
}

func (s *session) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if done := s.exec(ctx, line); done {
			return nil
		}
	}
}

// exec runs one command line and reports whether the session should end.
func (s *session) exec(ctx context.Context, line string) bool {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(s.out, sessionHelp)
	case "styles":
		printStyles(s.out, s.catalog.List())
	case "gallery":
		s.ctl.Navigate(app.PageGallery)
		printGallery(s.out, s.ctl.State().Gallery)
	case "results":
		s.ctl.Navigate(app.PageHome)
		s.printResults()
	case "generate":
		s.generate(ctx, rest)
	case "edit":
		s.edit(ctx, rest)
	case "download":
		s.download(ctx, rest)
	case "share":
		s.share(ctx, rest)
	default:
		fmt.Fprintf(s.out, "Unknown command %q, type 'help' for commands.\n", name)
	}
	return false
}

func (s *session) generate(ctx context.Context, args string) {
	model := s.defaultModel
	if strings.HasPrefix(args, "-m ") {
		args = strings.TrimSpace(strings.TrimPrefix(args, "-m "))
		model, args, _ = strings.Cut(args, " ")
		if !s.catalog.Has(model) {
			fmt.Fprintf(s.out, "Unknown style %q, using %s.\n", model, domain.DefaultStyleID)
		}
	}

	s.ctl.Navigate(app.PageHome)
	if _, err := s.ctl.Generate(ctx, args, model); err != nil {
		s.printMessage(err)
		return
	}
	s.printMessage(nil)
	s.printResults()
}

func (s *session) edit(ctx context.Context, args string) {
	n, text, err := parseIndexArg(args)
	if err != nil {
		fmt.Fprintln(s.out, "Usage: edit <n> <changes>")
		return
	}
	img, err := s.ctl.Edit(ctx, n-1, text)
	if err != nil {
		s.printMessage(err)
		return
	}
	if img == nil {
		return
	}
	fmt.Fprintf(s.out, "[%d] %s\n    %s\n", n, img.Prompt, img.URL)
}

func (s *session) download(ctx context.Context, args string) {
	n, file, err := parseIndexArg(args)
	if err != nil {
		fmt.Fprintln(s.out, "Usage: download <n> [file]")
		return
	}
	if file == "" {
		file = fmt.Sprintf("dreamator-%d", n)
	}
	path, err := s.ctl.Download(ctx, n-1, file)
	if err != nil {
		s.printMessage(err)
		return
	}
	fmt.Fprintf(s.out, "%s (%s)\n", s.ctl.State().Message, path)
}

func (s *session) share(ctx context.Context, args string) {
	n, _, err := parseIndexArg(args)
	if err != nil {
		fmt.Fprintln(s.out, "Usage: share <n>")
		return
	}
	if _, err := s.ctl.Share(ctx, n-1); err != nil {
		s.printMessage(err)
	}
}

func (s *session) printResults() {
	results := s.ctl.State().Results
	if len(results) == 0 {
		fmt.Fprintln(s.out, "No results yet.")
		return
	}
	for i, r := range results {
		fmt.Fprintf(s.out, "[%d] %s (seed=%d, %s)\n    %s\n", i+1, r.Prompt, r.Settings.Seed, r.Settings.Model, r.URL)
	}
}

func (s *session) printMessage(err error) {
	if err != nil && errors.Is(err, domain.ErrInvalidIndex) {
		fmt.Fprintln(s.out, domain.UserMessage(err))
		return
	}
	if msg := s.ctl.State().Message; msg != "" {
		fmt.Fprintln(s.out, msg)
	} else if err != nil {
		fmt.Fprintln(s.out, domain.UserMessage(err))
	}
}

// parseIndexArg splits "<n> rest" into a 1-based index and the remainder.
func parseIndexArg(args string) (int, string, error) {
	head, rest, _ := strings.Cut(args, " ")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, "", err
	}
	if n < 1 {
		return 0, "", fmt.Errorf("index must be at least 1")
	}
	return n, strings.TrimSpace(rest), nil
}
