package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zboralski/shade/internal/classfile"
	"github.com/zboralski/shade/internal/config"
	"github.com/zboralski/shade/internal/invoke"
	glog "github.com/zboralski/shade/internal/log"
	"github.com/zboralski/shade/internal/script"
	"github.com/zboralski/shade/internal/shadow"
	"github.com/zboralski/shade/internal/shadow/android"
	_ "github.com/zboralski/shade/internal/shadow/all"
	"github.com/zboralski/shade/internal/trace"
	"github.com/zboralski/shade/internal/translator"
	"github.com/zboralski/shade/internal/ui/colorize"
)

var (
	verbose    bool
	configPath string
	prefixes   []string
	abstract   string
	classes    []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shade",
		Short: "Rewrite SDK classes so their members forward to shadows",
		Long: `Shade loads SDK class manifests and rewrites every matched class as it is
first loaded. Constructors and methods are replaced with bodies that forward
the call to a dispatcher, final modifiers are cleared, and native and
abstract methods get zero-value stubs.

Dispatchers are shadow handlers registered from Go packages, JavaScript
shadows loaded from scripts, or both.

Examples:
  shade rewrite sdk.yaml                       # Print rewritten bodies
  shade rewrite sdk.yaml --class android.view.View
  shade run sdk.yaml shadows.js 'android.util.Log.d("tag", "hi")'
  shade info                                   # Show shadows and config`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			glog.Init(verbose)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose debug output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./shade.yaml when present)")
	rootCmd.PersistentFlags().StringSliceVarP(&prefixes, "prefix", "p", nil, "class name prefix to rewrite (repeatable)")
	rootCmd.PersistentFlags().StringVar(&abstract, "abstract", "", "abstract method policy: clear or skip")

	rewriteCmd := &cobra.Command{
		Use:   "rewrite [manifest.yaml...]",
		Short: "Load classes and print their rewritten bodies",
		RunE:  runRewrite,
	}
	rewriteCmd.Flags().StringSliceVar(&classes, "class", nil, "only load these classes")
	rootCmd.AddCommand(rewriteCmd)

	runCmd := &cobra.Command{
		Use:   "run <manifest.yaml> <script.js> [call...]",
		Short: "Run member calls against rewritten classes with script shadows",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runScript,
	}
	rootCmd.AddCommand(runCmd)

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show configuration and registered shadows",
		Args:  cobra.NoArgs,
		RunE:  showInfo,
	}
	rootCmd.AddCommand(infoCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if len(prefixes) > 0 {
		cfg.Prefixes = prefixes
	}
	if abstract != "" {
		policy, err := translator.ParseAbstractPolicy(abstract)
		if err != nil {
			return nil, err
		}
		cfg.Abstract = policy
	}
	if !cfg.Color || config.ColorDisabled() {
		colorize.Disable()
	}
	return cfg, nil
}

func newPool(manifests []string) (*classfile.Pool, error) {
	if len(manifests) == 0 {
		return nil, fmt.Errorf("no manifests given")
	}
	pool := classfile.NewPool()
	pool.SetLogger(glog.Get())
	for _, path := range manifests {
		defs, err := classfile.LoadManifest(path)
		if err != nil {
			return nil, err
		}
		if err := pool.DefineAll(defs); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return pool, nil
}

func installEngine(cfg *config.Config, pool *classfile.Pool, d translator.Dispatcher) *translator.Engine {
	engine := translator.New(d,
		translator.WithPredicate(translator.NewPrefixPredicate(cfg.Prefixes...)),
		translator.WithAbstractPolicy(cfg.Abstract),
		translator.WithLogger(glog.Get()),
	)
	pool.AddTranslator(engine)
	return engine
}

func printHeader(title string, cfg *config.Config, engine *translator.Engine, numClasses int) {
	fmt.Println()
	fmt.Printf("%s shade ─ %s\n", colorize.Header("▶"), title)
	fmt.Printf("  %s %s\n", colorize.Detail("Prefixes:"), strings.Join(cfg.Prefixes, " "))
	fmt.Printf("  %s %s  %s %s  %s %s\n",
		colorize.Detail("Classes:"), colorize.Number(numClasses),
		colorize.Detail("Engine:"), colorize.Number(engine.Index()),
		colorize.Detail("Abstract:"), cfg.Abstract)
	fmt.Println()
}

func printStats(parts ...string) {
	fmt.Println()
	fmt.Print(colorize.Border("───────────────────────────────────────── "))
	fmt.Println(strings.Join(parts, "  "))
}

func runRewrite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pool, err := newPool(append(cfg.Manifests, args...))
	if err != nil {
		return err
	}
	engine := installEngine(cfg, pool, shadow.DefaultRegistry)

	names := classes
	if len(names) == 0 {
		names = pool.Classes()
	}
	printHeader("load-time rewrite", cfg, engine, len(names))

	rewritten, failed := 0, 0
	for _, name := range names {
		c, err := pool.Load(name)
		if err != nil {
			failed++
			fmt.Printf("%s  %s\n\n", colorize.Class(name), colorize.Error(err.Error()))
			continue
		}
		if _, ok := c.RewrittenBy(); !ok {
			fmt.Printf("%s  %s\n\n", colorize.Class(name), colorize.Tag("#unchanged"))
			continue
		}
		rewritten++
		printClass(c)
	}

	printStats(
		fmt.Sprintf("%s rewritten", colorize.Number(rewritten)),
		fmt.Sprintf("%s failed", colorize.Number(failed)),
	)
	if failed > 0 {
		return fmt.Errorf("%d classes failed to load", failed)
	}
	return nil
}

func printClass(c *classfile.ClassDescriptor) {
	fmt.Printf("%s  %s\n", colorize.Class(c.Name), colorize.Detail(c.Modifiers.String()))
	members := append(append([]*classfile.Member{}, c.Constructors...), c.Methods...)
	for _, m := range members {
		fmt.Printf("  %s  %s\n", colorize.Member(m.Signature()), colorize.Detail(m.Modifiers.String()))
		if m.Body == nil {
			fmt.Printf("    %s\n", colorize.Detail("(no body)"))
			continue
		}
		for _, line := range strings.Split(colorize.Listing(m.Body.Source), "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
	fmt.Println()
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pool, err := newPool(append(cfg.Manifests, args[0]))
	if err != nil {
		return err
	}

	sd := script.New(pool,
		script.WithFallback(shadow.DefaultRegistry),
		script.WithLogger(glog.Get()),
	)
	for _, path := range append(cfg.Scripts, args[1]) {
		if err := sd.LoadFile(path); err != nil {
			return err
		}
	}

	rec := shadow.NewRecorder(sd)
	rec.SetOnEvent(func(e *trace.Event) {
		fmt.Println("  " + formatEvent(e))
	})
	engine := installEngine(cfg, pool, rec)
	printHeader("script shadows", cfg, engine, len(pool.Classes()))
	fmt.Printf("  %s %s\n\n", colorize.Detail("Script handlers:"), colorize.Number(sd.Handlers()))

	session := invoke.NewSession(pool)
	failed := 0
	for _, src := range args[2:] {
		expr, err := invoke.Parse(src)
		if err != nil {
			return err
		}
		fmt.Println(colorize.Header("▶") + " " + expr.String())
		v, err := session.Run(expr)
		if err != nil {
			failed++
			fmt.Printf("  %s\n\n", colorize.Error(err.Error()))
			continue
		}
		fmt.Printf("  %s %s\n\n", colorize.Detail("="), formatValue(v))
	}

	if lines := android.Logcat.Entries(); len(lines) > 0 {
		fmt.Println(colorize.Header("logcat"))
		for _, l := range lines {
			fmt.Println("  " + colorize.Detail(l.String()))
		}
	}

	events := rec.Events()
	shadowed := 0
	for _, e := range events {
		if e.Tags.Has(trace.Shadowed) {
			shadowed++
		}
	}
	printStats(
		fmt.Sprintf("%s calls", colorize.Number(len(events))),
		fmt.Sprintf("%s shadowed", colorize.Number(shadowed)),
		fmt.Sprintf("%s failed", colorize.Number(failed)),
	)
	if failed > 0 {
		return fmt.Errorf("%d calls failed", failed)
	}
	return nil
}

func formatEvent(e *trace.Event) string {
	var b strings.Builder
	b.WriteString(colorize.Class(e.Class))
	b.WriteByte('.')
	b.WriteString(colorize.Member(e.Method))
	b.WriteByte('(')
	for i, a := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatValue(a))
	}
	b.WriteByte(')')
	switch {
	case e.Err != nil:
		b.WriteString(" " + colorize.Error(e.Err.Error()))
	case e.Result != nil:
		b.WriteString(" -> " + formatValue(e.Result))
	}
	b.WriteString("  " + colorize.Tag(strings.Join(e.Tags.Strings(), " ")))
	return b.String()
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return colorize.String(fmt.Sprintf("%q", s))
	}
	return fmt.Sprintf("%v", v)
}

func showInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println(colorize.Box(
		colorize.Header("shade"),
		fmt.Sprintf("%s %s", colorize.Detail("Prefixes:"), strings.Join(cfg.Prefixes, " ")),
		fmt.Sprintf("%s %s", colorize.Detail("Abstract:"), cfg.Abstract),
		fmt.Sprintf("%s %s", colorize.Detail("Manifests:"), strings.Join(cfg.Manifests, " ")),
		fmt.Sprintf("%s %s", colorize.Detail("Scripts:"), strings.Join(cfg.Scripts, " ")),
	))

	fmt.Printf("\nShadows: %s\n", colorize.Number(shadow.DefaultRegistry.Count()))
	for _, key := range shadow.DefaultRegistry.List() {
		fmt.Printf("  %s\n", colorize.Member(key))
	}
	return nil
}
