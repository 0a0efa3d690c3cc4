package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/goldmark"
	campusjson "github.com/fwojciec/campus/json"
	"github.com/fwojciec/campus/markdown"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var (
		format    string
		width     int
		streaming bool
		premium   bool
	)
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Format markdown the way answers are displayed",
		Long:  "Render reads markdown from file, or stdin when no file is given, and prints its display form.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			data, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			blocks := markdown.Format(string(data), streaming)
			cfg := campus.RenderConfig{PremiumTheme: premium}

			out := cmd.OutOrStdout()
			switch format {
			case "ansi":
				_, err = fmt.Fprintln(out, goldmark.Render(blocks, width, cfg.Theme()))
			case "html":
				var html string
				html, err = goldmark.RenderHTML(blocks, cfg)
				if err == nil {
					_, err = fmt.Fprintln(out, html)
				}
			case "json":
				var js []byte
				js, err = campusjson.MarshalBlocks(blocks)
				if err == nil {
					_, err = fmt.Fprintln(out, string(js))
				}
			default:
				return fmt.Errorf("unknown format %q: must be ansi, html or json", format)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "ansi", "Output format: ansi, html, json")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for ansi output")
	cmd.Flags().BoolVar(&streaming, "streaming", false, "Format as a partial answer with a caret")
	cmd.Flags().BoolVar(&premium, "premium", false, "Use the premium theme")
	return cmd
}
