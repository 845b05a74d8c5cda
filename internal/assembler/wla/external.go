package wla

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	assemblerName = "wla-6502"
	linkerName    = "wlalink"

	objectFile = "main.o"
	linkFile   = "linkfile"
)

// AssembleUsingExternalApp calls the external assembler and linker to generate a .nes
// ROM from the main file in the given directory. The object and link files are
// created inside the directory and removed afterwards.
func AssembleUsingExternalApp(ctx context.Context, dir, outputFile string) error {
	assembler := assemblerName
	linker := linkerName
	if runtime.GOOS == "windows" {
		assembler += ".exe"
		linker += ".exe"
	}

	if _, err := exec.LookPath(assembler); err != nil {
		return fmt.Errorf("%s is not installed", assembler)
	}
	if _, err := exec.LookPath(linker); err != nil {
		return fmt.Errorf("%s is not installed", linker)
	}

	outputFile, err := filepath.Abs(outputFile)
	if err != nil {
		return fmt.Errorf("resolving output file path: %w", err)
	}

	defer func() {
		_ = os.Remove(filepath.Join(dir, objectFile))
		_ = os.Remove(filepath.Join(dir, linkFile))
	}()

	cmd := exec.CommandContext(ctx, assembler, "-o", objectFile, MainFile)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("assembling file: %s: %w", strings.TrimSpace(string(out)), err)
	}

	if err := os.WriteFile(filepath.Join(dir, linkFile), []byte(linkerConfig()), 0666); err != nil {
		return fmt.Errorf("writing linker config: %w", err)
	}

	cmd = exec.CommandContext(ctx, linker, linkFile, outputFile)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("linking file: %s: %w", strings.TrimSpace(string(out)), err)
	}

	return nil
}

// linkerConfig returns the wlalink configuration that links the main object file.
func linkerConfig() string {
	return fmt.Sprintf("[objects]\n%s\n", objectFile)
}
