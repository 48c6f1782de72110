//go:build mage

// Package main contains Mage build targets for qaextract developer tooling.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir     = "bin"
	binName    = "qaextract"
	cmdPkg     = "./cmd/qaextract"
	corpusDir  = "corpus"
	configFile = "qaextract.yaml"
)

// starterConfig is written by Init when no config file exists.
const starterConfig = `# qaextract configuration. Flags and QAEXTRACT_* variables override it.
# preset: qf
corpus:
  dir: corpus
  max_results: 20
# presets:
#   mine:
#     grammar: marker-pair
#     preprocess: true
#     input: mine.txt
#     jsonl: mine.jsonl
#     markdown: mine.md
#     source: mine-qa-dataset
`

// Init creates the corpus directory and a starter config file.
func Init() error {
	if err := os.MkdirAll(corpusDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", corpusDir, err)
	}
	fmt.Println("  ", corpusDir)

	if _, err := os.Stat(configFile); err == nil {
		fmt.Println("  ", configFile, "(exists)")
	} else {
		if err := os.WriteFile(configFile, []byte(starterConfig), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", configFile, err)
		}
		fmt.Println("  ", configFile)
	}
	fmt.Println("Project initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + version()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Datasets builds the CLI and runs every built-in preset whose input file
// is present, then indexes the generated datasets into the corpus.
func Datasets() error {
	mg.Deps(Build)
	bin := filepath.Join(binDir, binName)
	presets := map[string][2]string{
		"jushe": {"jushe.txt", "gemma3_finetune_data.jsonl"},
		"qf":    {"qf.txt", "gemma3_finetune_data_qf.jsonl"},
	}

	var generated []string
	for _, name := range []string{"jushe", "qf"} {
		files := presets[name]
		if _, err := os.Stat(files[0]); err != nil {
			fmt.Printf("[datasets] %s: %s not found, skipping\n", name, files[0])
			continue
		}
		if err := sh.RunV(bin, "run", "--preset", name); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		generated = append(generated, files[1])
	}
	if len(generated) == 0 {
		fmt.Println("[datasets] No transcripts found.")
		return nil
	}
	return sh.RunV(bin, append([]string{"corpus", "ingest"}, generated...)...)
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	docWords, err := countDocWords(".")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	return nil
}

// version describes the working tree for the binary's version string.
func version() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return v
}

// skipDir reports whether a directory holds vendored or generated files.
func skipDir(name string) bool {
	return name != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == binDir)
}

// countGoLines counts non-blank lines in Go files, split into production and test.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}

// countDocWords counts words in Markdown and YAML files.
func countDocWords(root string) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".md", ".yaml", ".yml":
		default:
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(bytes.Fields(data))
		return nil
	})
	return total, err
}
