// Package branding holds the tool's identity: its command name, the
// directory it keeps state in, its environment prefix and the addresses it
// announces to the package registry. Values come from the embedded
// branding.yaml; any key missing there keeps its built-in value.
package branding

import (
	_ "embed"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

// Identity is the decoded branding.yaml.
type Identity struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	Homepage    string `yaml:"homepage"`
	RegistryURL string `yaml:"registry_url"`
}

var builtin = Identity{
	CLIName:     "casperkit",
	DisplayName: "CasperKit",
	Description: "Scaffold Casper smart-contract projects",
	HomeDir:     ".casperkit",
	EnvPrefix:   "CASPERKIT",
	Homepage:    "https://github.com/casperkit/casperkit",
	RegistryURL: "https://index.crates.io",
}

var current = sync.OnceValue(func() Identity {
	return decode(rawBranding)
})

func decode(data []byte) Identity {
	id := builtin
	_ = yaml.Unmarshal(data, &id)
	return id
}

// Get returns the tool identity.
func Get() Identity { return current() }

func CLIName() string     { return current().CLIName }
func DisplayName() string { return current().DisplayName }
func Description() string { return current().Description }

// HomeDir is the directory under $HOME holding config and the registry cache.
func HomeDir() string { return current().HomeDir }

// EnvPrefix prefixes every environment override of a config key.
func EnvPrefix() string { return current().EnvPrefix }

// RegistryURL is the default sparse index base URL.
func RegistryURL() string { return current().RegistryURL }

// UserAgent identifies this release of the tool to the registry, in the
// "name/version (+homepage)" form crates.io asks crawlers to send.
func UserAgent(version string) string {
	id := current()
	return id.CLIName + "/" + version + " (+" + id.Homepage + ")"
}
