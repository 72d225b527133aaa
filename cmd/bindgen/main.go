package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/gdnative-go/gdnative/api"
	"github.com/gdnative-go/gdnative/codegen"
)

func main() {
	var (
		apiFile     = flag.String("api", "", "Path to the engine class manifest (api.json)")
		docsDir     = flag.String("docs", "", "Directory with the engine XML class docs (optional)")
		outDir      = flag.String("out", "classes", "Output directory for generated bindings")
		pkgName     = flag.String("package", "classes", "Package name of the generated files")
		modulePath  = flag.String("module", "", "Module path the generated imports resolve against")
		list        = flag.Bool("list", false, "List manifest classes and exit")
		interactive = flag.Bool("i", false, "Interactive class browser")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *apiFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: bindgen -api <api.json> [-docs dir] [-out dir] [-package name]")
		fmt.Fprintln(os.Stderr, "       bindgen -api <api.json> -list")
		fmt.Fprintln(os.Stderr, "       bindgen -api <api.json> -i  (interactive class browser)")
		os.Exit(1)
	}

	log := zap.NewNop()
	if *verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log = dev
		defer log.Sync()
	}

	if err := run(*apiFile, *docsDir, *outDir, *pkgName, *modulePath, *list, *interactive, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(apiFile, docsDir, outDir, pkgName, modulePath string, listOnly, interactive bool, log *zap.Logger) error {
	data, err := os.ReadFile(apiFile)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	model, err := api.Load(data)
	if err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}

	var docs *api.Docs
	if docsDir != "" {
		docs, err = api.LoadDocs(docsDir)
		if err != nil {
			return fmt.Errorf("load docs: %w", err)
		}
	}

	if interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(apiFile, model, docs)
	}

	fmt.Printf("Manifest: %s\n", apiFile)
	fmt.Printf("Classes: %d\n", len(model.Classes))
	if docs != nil {
		fmt.Printf("Doc entries: %d\n", docs.Len())
	}

	if listOnly {
		classes := append([]*api.Class(nil), model.Classes...)
		sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
		fmt.Printf("\n")
		for _, c := range classes {
			mark := " "
			if c.Singleton {
				mark = "S"
			}
			base := c.BaseClass
			if base == "" {
				base = "(root)"
			}
			fmt.Printf("  %s %-32s %-24s %3d methods, %d enums\n",
				mark, c.GoName(), base, len(c.Methods), len(c.Enums))
		}
		return nil
	}

	emitter := codegen.New(model, docs, codegen.Config{
		Package: pkgName,
		Module:  modulePath,
		Logger:  log,
	})
	if err := emitter.Generate(outDir); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	fmt.Printf("\nGenerated bindings for %d classes in %s\n", len(model.Classes), outDir)
	return nil
}

func formatMethod(m api.Method) string {
	var params []string
	for _, a := range m.Arguments {
		params = append(params, a.Name+": "+api.ParseType(a.Type).GoSpelling())
	}
	if m.HasVarargs {
		params = append(params, "...")
	}
	out := m.Name + "(" + strings.Join(params, ", ") + ")"
	if rt := api.ParseType(m.ReturnType); rt.Kind != api.KindVoid {
		out += " -> " + rt.GoSpelling()
	}
	return out
}
