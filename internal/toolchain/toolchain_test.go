package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/casperkit/casperkit/internal/versions"
)

func fakeLookPath(present ...string) func(string) (string, error) {
	return func(file string) (string, error) {
		for _, p := range present {
			if p == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
	}
}

func fakeOutput(out string, err error, gotArgs *[]string) func(context.Context, string, ...string) ([]byte, error) {
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		if gotArgs != nil {
			*gotArgs = append([]string{name}, args...)
		}
		return []byte(out), err
	}
}

func statusOf(t *testing.T, checks []Check, name string) Status {
	t.Helper()
	for _, c := range checks {
		if c.Name == name {
			return c.Status
		}
	}
	t.Fatalf("no check named %s", name)
	return 0
}

func TestRun_AllPresent(t *testing.T) {
	var args []string
	c := &Checker{
		Toolchain: "nightly-2023-03-25",
		LookPath:  fakeLookPath("cargo", "rustup", "wasm-strip"),
		Output:    fakeOutput("x86_64-unknown-linux-gnu\nwasm32-unknown-unknown\n", nil, &args),
	}

	checks := c.Run(context.Background())
	for _, check := range checks {
		if check.Status != StatusOK {
			t.Errorf("%s: status %v (%s), want OK", check.Name, check.Status, check.Detail)
		}
	}
	want := "rustup target list --installed --toolchain nightly-2023-03-25"
	if got := strings.Join(args, " "); got != want {
		t.Errorf("ran %q, want %q", got, want)
	}
}

func TestRun_MissingBinaries(t *testing.T) {
	c := &Checker{LookPath: fakeLookPath("cargo")}
	checks := c.Run(context.Background())

	if statusOf(t, checks, "cargo") != StatusOK {
		t.Error("cargo should be OK")
	}
	for _, name := range []string{"rustup", "wasm-strip", WasmTarget} {
		if statusOf(t, checks, name) != StatusMissing {
			t.Errorf("%s should be missing", name)
		}
	}
}

func TestRun_TargetNotInstalled(t *testing.T) {
	c := &Checker{
		Toolchain: "nightly-2023-03-25",
		LookPath:  fakeLookPath("cargo", "rustup", "wasm-strip"),
		Output:    fakeOutput("x86_64-unknown-linux-gnu\n", nil, nil),
	}
	checks := c.Run(context.Background())
	if statusOf(t, checks, WasmTarget) != StatusMissing {
		t.Fatal("wasm target should be missing")
	}
	last := checks[len(checks)-1]
	if !strings.Contains(last.Hint, "rustup target add --toolchain nightly-2023-03-25 wasm32-unknown-unknown") {
		t.Errorf("hint = %q", last.Hint)
	}
}

func TestRun_ToolchainNotInstalled(t *testing.T) {
	c := &Checker{
		Toolchain: "nightly-2023-03-25",
		LookPath:  fakeLookPath("cargo", "rustup", "wasm-strip"),
		Output:    fakeOutput("", errors.New("exit status 1"), nil),
	}
	checks := c.Run(context.Background())
	last := checks[len(checks)-1]
	if last.Status != StatusMissing {
		t.Fatalf("status = %v, want missing", last.Status)
	}
	if !strings.Contains(last.Hint, "rustup toolchain install nightly-2023-03-25") {
		t.Errorf("hint = %q", last.Hint)
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	missing := Report(&buf, "Toolchain check", []Check{
		{Name: "cargo", Status: StatusOK, Detail: "found at /usr/bin/cargo"},
		{Name: "wasm-strip", Status: StatusMissing, Detail: "not found", Hint: "install wabt"},
		{Name: "registry", Status: StatusWarn, Detail: "unreachable"},
	})

	if missing != 1 {
		t.Errorf("missing = %d, want 1", missing)
	}
	out := buf.String()
	for _, want := range []string{
		"Toolchain check:",
		"[ OK ] cargo found at /usr/bin/cargo",
		"[MISS] wasm-strip not found",
		"install wabt",
		"[WARN] registry unreachable",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestCheckRegistry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"name":"casper-types","vers":"3.0.0","yanked":false}`)
		fmt.Fprintln(w, `{"name":"casper-types","vers":"3.0.1","yanked":false}`)
	}))
	defer server.Close()

	r := versions.NewRegistry(server.URL, "test", versions.WithHTTPClient(server.Client()))
	check := CheckRegistry(context.Background(), r, server.URL)
	if check.Status != StatusOK {
		t.Fatalf("status = %v (%s), want OK", check.Status, check.Detail)
	}
	if !strings.Contains(check.Detail, "2 casper-types versions") {
		t.Errorf("detail = %q", check.Detail)
	}
}

func TestCheckRegistry_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := versions.NewRegistry(server.URL, "test", versions.WithHTTPClient(server.Client()))
	if check := CheckRegistry(context.Background(), r, server.URL); check.Status != StatusWarn {
		t.Errorf("status = %v, want warn", check.Status)
	}
}
