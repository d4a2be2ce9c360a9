package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/qrchat/internal/config"
	"github.com/ziadkadry99/qrchat/internal/page"
	"github.com/ziadkadry99/qrchat/internal/progress"
	"github.com/ziadkadry99/qrchat/internal/surface"
	"github.com/ziadkadry99/qrchat/internal/walker"
	"github.com/ziadkadry99/qrchat/internal/widget"
)

var renderCmd = &cobra.Command{
	Use:   "render [pages or globs...]",
	Short: "Inject the widget loader into HTML pages",
	Long: `Adds the loader snippet for the configured widget to each page and writes
the result to the output directory, keeping relative paths. Arguments may
be files, directories or globs such as "site/**/*.html". With no
arguments a blank index.html is written.

With --static the widget markup and stylesheet are also prerendered into
the page, so it shows before the WebAssembly bundle has loaded.

With --snippet only the loader markup is printed, for pasting into a
template by hand.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("out", "o", "dist", "output directory")
	renderCmd.Flags().String("assets-base", page.DefaultAssetsBase, "URL prefix of qrchat.wasm and wasm_exec.js")
	renderCmd.Flags().Bool("static", false, "prerender the widget markup into each page")
	renderCmd.Flags().Bool("snippet", false, "print the loader snippet and exit")
	renderCmd.Flags().StringSlice("exclude", nil, "glob patterns of pages to skip")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out")
	assetsBase, _ := cmd.Flags().GetString("assets-base")
	static, _ := cmd.Flags().GetBool("static")
	snippet, _ := cmd.Flags().GetBool("snippet")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	opts := page.Options{AssetsBase: assetsBase}

	if snippet {
		out, err := page.Loader(cfg, opts)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}

	if len(args) == 0 {
		t := surface.NewTree()
		dest := filepath.Join(outDir, "index.html")
		if err := renderTree(t, cfg, opts, static); err != nil {
			return err
		}
		if err := writeTree(t, dest); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", dest)
		return nil
	}

	pages, err := walker.Expand(args, exclude)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return errors.New("no HTML pages matched")
	}

	reporter := progress.NewReporter("Rendering pages")
	reporter.Start(len(pages))

	var failed int
	for i, p := range pages {
		reporter.Update(i+1, p.RelPath)
		if err := renderPage(p, filepath.Join(outDir, filepath.FromSlash(p.RelPath)), cfg, opts, static); err != nil {
			failed++
			logger.Error("render failed", "page", p.Path, "err", err)
			continue
		}
		logger.Debug("rendered", "page", p.Path)
	}
	reporter.Finish()

	fmt.Fprintf(os.Stderr, "Rendered %d of %d pages into %s\n", len(pages)-failed, len(pages), outDir)
	if failed > 0 {
		return fmt.Errorf("%d pages failed", failed)
	}
	return nil
}

func renderPage(p walker.Page, dest string, cfg config.Config, opts page.Options, static bool) error {
	f, err := os.Open(p.Path)
	if err != nil {
		return err
	}
	t, err := surface.ParseTree(f)
	f.Close()
	if err != nil {
		return err
	}
	if err := renderTree(t, cfg, opts, static); err != nil {
		return err
	}
	return writeTree(t, dest)
}

// renderTree adds the loader and, when static, the prerendered widget. A
// page that already carries this instance is left as it is.
func renderTree(t *surface.Tree, cfg config.Config, opts page.Options, static bool) error {
	if static {
		if _, err := page.Prerender(t, cfg, false); err != nil && !errors.Is(err, widget.ErrAlreadyMounted) {
			return fmt.Errorf("prerendering widget: %w", err)
		}
	}
	if _, err := page.Inject(t, cfg, opts); err != nil {
		return err
	}
	return nil
}

func writeTree(t *surface.Tree, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if err := t.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return f.Close()
}
