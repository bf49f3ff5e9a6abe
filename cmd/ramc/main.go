// Command ramc is a thin driver binary: it loads a JSON-encoded AST +
// analysis fixture and a YAML configuration, runs the translator core, and
// prints the resulting RAM program. It exercises internal/translate's
// configuration surface end to end without reimplementing the (out of
// scope) Datalog parser or its upstream analyses.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ramlang/ramc/internal/config"
	"github.com/ramlang/ramc/internal/translate"
	"github.com/ramlang/ramc/pkg/ram"
)

var (
	configPath string
	provenance string
	profile    bool
	compile    bool
	dlProgram  bool
	generate   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ramc <fixture.json>",
		Short: "Lower a Datalog AST fixture into a RAM program",
		Args:  cobra.ExactArgs(1),
		RunE:  runTranslate,
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	root.Flags().StringVar(&provenance, "provenance", "", "provenance mode: explain or subtreeHeights")
	root.Flags().BoolVar(&profile, "profile", false, "insert log-timer/log-relation wrappers")
	root.Flags().BoolVar(&compile, "compile", false, "suppress interpreter-specific provenance guards")
	root.Flags().BoolVar(&dlProgram, "dl-program", false, "suppress interpreter-specific provenance guards")
	root.Flags().BoolVar(&generate, "generate", false, "suppress interpreter-specific provenance guards")
	return root
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg := config.New(cmd.ErrOrStderr())
	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return err
		}
	}
	if provenance != "" {
		cfg.Provenance = config.ProvenanceMode(provenance)
	}
	if profile {
		cfg.Profile = true
	}
	if compile {
		cfg.Compile = true
	}
	if dlProgram {
		cfg.DlProgram = true
	}
	if generate {
		cfg.Generate = true
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	program, analyses, err := loadFixture(f)
	if err != nil {
		return err
	}

	rp, err := translate.Translate(program, analyses, cfg)
	if err != nil {
		cfg.Logger.Warn("translation completed with recoverable IO-directive issues", "error", err)
	}
	if rp == nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), ram.Print(rp))
	return nil
}

func loadConfigFile(path string, cfg *config.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
