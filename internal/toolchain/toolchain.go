package toolchain

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/casperkit/casperkit/internal/versions"
)

// WasmTarget is the compilation target of Casper contracts.
const WasmTarget = "wasm32-unknown-unknown"

// Status is the outcome of a single check.
type Status int

const (
	StatusOK Status = iota
	StatusMissing
	StatusWarn
)

func (s Status) label() string {
	switch s {
	case StatusOK:
		return "[ OK ]"
	case StatusMissing:
		return "[MISS]"
	default:
		return "[WARN]"
	}
}

// Check is one line of a doctor report.
type Check struct {
	Name   string
	Status Status
	Detail string
	// Hint tells the user how to fix a failed check.
	Hint string
}

// Checker runs the toolchain checks. The zero value inspects the real system.
type Checker struct {
	// Toolchain is the rustup channel generated projects pin.
	Toolchain string
	// LookPath defaults to exec.LookPath.
	LookPath func(file string) (string, error)
	// Output runs a command and returns its stdout. Defaults to exec.CommandContext.
	Output func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func (c *Checker) lookPath(file string) (string, error) {
	if c.LookPath != nil {
		return c.LookPath(file)
	}
	return exec.LookPath(file)
}

func (c *Checker) output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if c.Output != nil {
		return c.Output(ctx, name, args...)
	}
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	err := cmd.Run()
	return stdout.Bytes(), err
}

var binaries = []struct {
	name string
	hint string
}{
	{"cargo", "install Rust from https://rustup.rs"},
	{"rustup", "install Rust from https://rustup.rs"},
	{"wasm-strip", "install wabt (wasm-strip is used to shrink contract Wasm)"},
}

// Run performs every local check: required binaries, then the Wasm target
// of the configured toolchain.
func (c *Checker) Run(ctx context.Context) []Check {
	checks := make([]Check, 0, len(binaries)+1)
	haveRustup := false
	for _, b := range binaries {
		check := c.binary(b.name, b.hint)
		if b.name == "rustup" && check.Status == StatusOK {
			haveRustup = true
		}
		checks = append(checks, check)
	}
	if haveRustup {
		checks = append(checks, c.wasmTarget(ctx))
	} else {
		checks = append(checks, Check{
			Name:   WasmTarget,
			Status: StatusMissing,
			Detail: "cannot inspect targets without rustup",
			Hint:   "install rustup, then run `make prepare` in the project",
		})
	}
	return checks
}

func (c *Checker) binary(name, hint string) Check {
	path, err := c.lookPath(name)
	if err != nil {
		return Check{Name: name, Status: StatusMissing, Detail: "not found", Hint: hint}
	}
	return Check{Name: name, Status: StatusOK, Detail: "found at " + path}
}

func (c *Checker) wasmTarget(ctx context.Context) Check {
	args := []string{"target", "list", "--installed"}
	if c.Toolchain != "" {
		args = append(args, "--toolchain", c.Toolchain)
	}
	hint := fmt.Sprintf("rustup target add %s", WasmTarget)
	if c.Toolchain != "" {
		hint = fmt.Sprintf("rustup target add --toolchain %s %s", c.Toolchain, WasmTarget)
	}

	out, err := c.output(ctx, "rustup", args...)
	if err != nil {
		detail := fmt.Sprintf("listing installed targets: %v", err)
		if c.Toolchain != "" {
			detail = fmt.Sprintf("toolchain %s may not be installed (%v)", c.Toolchain, err)
			hint = fmt.Sprintf("rustup toolchain install %s && %s", c.Toolchain, hint)
		}
		return Check{Name: WasmTarget, Status: StatusMissing, Detail: detail, Hint: hint}
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == WasmTarget {
			detail := "installed"
			if c.Toolchain != "" {
				detail = "installed for " + c.Toolchain
			}
			return Check{Name: WasmTarget, Status: StatusOK, Detail: detail}
		}
	}
	return Check{Name: WasmTarget, Status: StatusMissing, Detail: "target not installed", Hint: hint}
}

// CheckRegistry reports whether the package index answers for a known crate.
// A failure is only a warning: generation still works from bundled versions.
func CheckRegistry(ctx context.Context, r *versions.Registry, baseURL string) Check {
	dep := versions.CasperTypes
	candidates, err := r.Versions(ctx, dep.Name)
	if err != nil {
		return Check{
			Name:   "registry",
			Status: StatusWarn,
			Detail: fmt.Sprintf("%s unreachable: %v", baseURL, err),
			Hint:   "new projects will use bundled dependency versions",
		}
	}
	return Check{
		Name:   "registry",
		Status: StatusOK,
		Detail: fmt.Sprintf("%s lists %d %s versions", baseURL, len(candidates), dep.Name),
	}
}

// Report writes checks under title and returns how many are missing.
func Report(w io.Writer, title string, checks []Check) int {
	fmt.Fprintf(w, "%s:\n", title)
	missing := 0
	for _, c := range checks {
		if c.Status == StatusMissing {
			missing++
		}
		fmt.Fprintf(w, "  %s %s %s\n", c.Status.label(), c.Name, c.Detail)
		if c.Status != StatusOK && c.Hint != "" {
			fmt.Fprintf(w, "         %s\n", c.Hint)
		}
	}
	return missing
}
