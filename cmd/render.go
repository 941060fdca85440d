package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"daytiles/internal/timeutil"
	"daytiles/render"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderSource      daySource
	renderFormat      string
	renderOutput      string
	renderWidth       int
	renderRowsPerHour int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Draw the tile layout of one day as SVG or in the terminal.",
	Long: `Compute the layout of one day and draw it.

Format "svg" writes an SVG document to --output (or stdout). Format "term" prints
a colored character grid, one row per half hour by default.`,
	Example: `
  # SVG of a stored day
  daytiles render --date 2026-03-02 --output day.svg

  # Terminal view of a CSV file
  daytiles render -i meetings.csv --date 2026-03-02 --format term --width 100
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		window, err := renderSource.window(cfg)
		if err != nil {
			return err
		}
		day, entries, err := renderSource.load(cfg)
		if err != nil {
			return err
		}
		sorted, result, err := computeDay(entries, window, colorsFromConfig(cfg))
		if err != nil {
			return err
		}

		switch strings.ToLower(strings.TrimSpace(renderFormat)) {
		case "", "svg":
			return writeRenderOutput(cmd.OutOrStdout(), renderOutput, logger, func(w io.Writer) error {
				return render.SVG(w, sorted, result, render.SVGOptions{
					Window: window,
					Width:  renderWidth,
					Title:  timeutil.FormatDay(day),
				})
			})
		case "term", "terminal":
			text, err := render.Terminal(sorted, result, render.TerminalOptions{
				Window:      window,
				Width:       renderWidth,
				RowsPerHour: renderRowsPerHour,
				Renderer:    lipgloss.NewRenderer(cmd.OutOrStdout()),
			})
			if err != nil {
				return err
			}
			return writeRenderOutput(cmd.OutOrStdout(), renderOutput, logger, func(w io.Writer) error {
				_, err := io.WriteString(w, text)
				return err
			})
		default:
			return fmt.Errorf("unsupported render format %q (supported: svg|term)", renderFormat)
		}
	},
}

// writeRenderOutput runs write against the output file, or stdout when path
// is empty or "-".
func writeRenderOutput(stdout io.Writer, path string, logger *zap.Logger, write func(io.Writer) error) error {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		return write(stdout)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	buffered := bufio.NewWriter(file)
	if err := write(buffered); err != nil {
		_ = file.Close()
		return err
	}
	if err := buffered.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("write output file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	logger.Info("wrote render output", zap.String("path", path))
	return nil
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderSource.bindFlags(renderCmd)
	renderCmd.Flags().StringVar(&renderFormat, "format", "svg", "Output format: svg|term")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file path (default: stdout)")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "Width in pixels for svg or in characters for term (default: 800 / 60)")
	renderCmd.Flags().IntVar(&renderRowsPerHour, "rows-per-hour", 2, "Terminal rows per hour (term only)")
}
