package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"screen-ocr-translate/capture"
	"screen-ocr-translate/clipboard"
	"screen-ocr-translate/config"
	"screen-ocr-translate/logutil"
	"screen-ocr-translate/ocr"
	"screen-ocr-translate/pipeline"
	"screen-ocr-translate/postprocess"
)

type cliOptions struct {
	rect        string
	languages   string
	mode        string
	translateTo string
	copyResult  bool
	jsonOutput  bool
	verbose     bool
	endpoint    string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(os.Args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "screen-ocr-translate",
		Short:         "Capture a screen region, recognize its text, optionally translate",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().StringVar(&opts.rect, "rect", "", "Selection rectangle as x,y,w,h in logical coordinates")
	cmd.Flags().StringVar(&opts.languages, "lang", "", "Language preference (eng, hin, eng+hin)")
	cmd.Flags().StringVar(&opts.mode, "mode", "text", "Content mode: text or table")
	cmd.Flags().StringVar(&opts.translateTo, "translate-to", "", "Destination language code (empty disables translation)")
	cmd.Flags().BoolVar(&opts.copyResult, "copy", false, "Copy recognized text to the clipboard")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.Flags().StringVar(&opts.endpoint, "ocr-endpoint", "", "Recognition service URL (highest precedence)")
	_ = cmd.MarkFlagRequired("rect")

	return cmd
}

func runWithOptions(opts cliOptions) error {
	// Configure logging BEFORE any other operations.
	if opts.verbose {
		log.SetOutput(os.Stderr)
		fmt.Fprintf(os.Stderr, "[verbose] Starting capture\n")
	} else {
		log.SetOutput(io.Discard)
	}

	region, err := parseRect(opts.rect)
	if err != nil {
		return err
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		LanguagesOverride:   opts.languages,
		OCREndpointOverride: opts.endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if !opts.verbose {
		logutil.Setup(cfg.EnableFileLogging)
	}

	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Config loaded: Languages=%s Endpoint=%s\n", cfg.Languages, cfg.OCREndpoint)
	}

	req := pipeline.Request{
		Region:    region,
		Profile:   ocr.ParseProfile(cfg.Languages),
		Mode:      postprocess.ParseMode(opts.mode),
		Translate: opts.translateTo != "",
		DestLang:  opts.translateTo,
	}
	if req.Translate && cfg.TranslateEndpoint == "" {
		return fmt.Errorf("TRANSLATE_ENDPOINT is required for --translate-to")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.OCRDeadlineSec)*time.Second)
	defer cancel()

	res, err := pipeline.New(cfg).Run(ctx, req)
	if err != nil {
		return err
	}

	if opts.copyResult && res.Outcome.Text != "" {
		if err := clipboard.Init(); err != nil {
			log.Printf("Clipboard unavailable: %v", err)
		} else if err := clipboard.Write(res.Outcome.Text); err != nil {
			log.Printf("Clipboard write failed: %v", err)
		}
	}

	return printResult(res, opts.jsonOutput)
}

func parseRect(s string) (capture.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return capture.Region{}, fmt.Errorf("--rect wants x,y,w,h, got %q", s)
	}

	vals := make([]int, 4)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return capture.Region{}, fmt.Errorf("--rect component %q is not an integer", part)
		}
		vals[i] = n
	}

	return capture.Region{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

func printResult(res *pipeline.Result, asJSON bool) error {
	if asJSON {
		out := struct {
			Text       string  `json:"text"`
			Confidence float32 `json:"confidence"`
			Backend    string  `json:"backend"`
			Translated string  `json:"translated,omitempty"`
		}{
			Text:       res.Outcome.Text,
			Confidence: res.Outcome.Confidence,
			Backend:    res.Backend,
			Translated: res.Translated,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println(res.Outcome.Text)
	if res.Translated != "" {
		fmt.Println("---")
		fmt.Println(res.Translated)
	}
	return nil
}
