//go:build ignore

// build.go - mentions build script
// Usage: go run build.go [-target=TARGET]
// Targets: build, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	module   = "mentionscli"
	mainPkg  = "./cmd/mentions"
	exeName  = "mentions"
	distName = "dist"
)

// releaseTargets are the GOOS/GOARCH pairs built by the release target
var releaseTargets = []string{
	"linux/amd64",
	"linux/arm64",
	"darwin/arm64",
	"windows/amd64",
}

var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
)

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	rootDir, err := os.Getwd()
	if err != nil {
		printError(fmt.Sprintf("Failed to get current directory: %v", err))
		os.Exit(1)
	}
	distDir := filepath.Join(rootDir, distName)

	start := time.Now()
	switch *target {
	case "build":
		err = build(distDir, "", "", *verbose)
	case "test":
		err = run(*verbose, "go", "test", "./...")
	case "clean":
		err = clean(distDir)
	case "release":
		err = release(distDir, *verbose)
	default:
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Target %s completed in %s", *target, time.Since(start).Round(time.Millisecond)))
}

// ldflags stamps the build time and commit into pkg/contracts
func ldflags() string {
	commit := "unknown"
	if out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output(); err == nil {
		commit = strings.TrimSpace(string(out))
	}
	buildTime := time.Now().UTC().Format(time.RFC3339)

	return fmt.Sprintf("-s -w -X %[1]s/pkg/contracts.BuildTime=%[2]s -X %[1]s/pkg/contracts.GitCommit=%[3]s",
		module, buildTime, commit)
}

func build(distDir, goos, goarch string, verbose bool) error {
	name := exeName
	if goos == "windows" {
		name += ".exe"
	}
	out := filepath.Join(distDir, name)
	if goos != "" {
		out = filepath.Join(distDir, goos+"_"+goarch, name)
	}

	printInfo(fmt.Sprintf("Building %s", out))

	cmd := exec.Command("go", "build", "-trimpath", "-ldflags", ldflags(), "-o", out, mainPkg)
	cmd.Env = os.Environ()
	if goos != "" {
		cmd.Env = append(cmd.Env, "GOOS="+goos, "GOARCH="+goarch, "CGO_ENABLED=0")
	}
	return runCmd(cmd, verbose)
}

func release(distDir string, verbose bool) error {
	if err := clean(distDir); err != nil {
		return err
	}
	for _, t := range releaseTargets {
		goos, goarch, _ := strings.Cut(t, "/")
		if err := build(distDir, goos, goarch, verbose); err != nil {
			return fmt.Errorf("release %s: %w", t, err)
		}
	}
	return nil
}

func clean(distDir string) error {
	printInfo(fmt.Sprintf("Removing %s", distDir))
	if err := os.RemoveAll(distDir); err != nil {
		return fmt.Errorf("failed to clean: %w", err)
	}
	return nil
}

func run(verbose bool, name string, args ...string) error {
	return runCmd(exec.Command(name, args...), verbose)
}

func runCmd(cmd *exec.Cmd, verbose bool) error {
	if verbose {
		printInfo(strings.Join(cmd.Args, " "))
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", cmd.Args[0], err)
	}
	return nil
}

func showHelp() {
	printWarning("Unknown target")
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("  build    build dist/mentions for this platform")
	fmt.Println("  test     run all tests")
	fmt.Println("  clean    remove dist/")
	fmt.Println("  release  cross-compile for", strings.Join(releaseTargets, ", "))
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}
