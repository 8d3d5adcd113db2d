package versions

// Dependency is a crate that generated manifests pin.
type Dependency struct {
	Name string
	// Fallback is the known-good version shipped with this tool release.
	Fallback string
}

// Crates pinned by the contract and tests packages. The fallback versions are
// bumped together with tool releases.
var (
	CasperContract          = Dependency{Name: "casper-contract", Fallback: "3.0.0"}
	CasperTypes             = Dependency{Name: "casper-types", Fallback: "3.0.0"}
	CasperEngineTestSupport = Dependency{Name: "casper-engine-test-support", Fallback: "5.0.0"}
	CasperExecutionEngine   = Dependency{Name: "casper-execution-engine", Fallback: "5.0.0"}
)

// Required returns every dependency a generated project pins, in stable order.
func Required() []Dependency {
	return []Dependency{
		CasperContract,
		CasperTypes,
		CasperEngineTestSupport,
		CasperExecutionEngine,
	}
}
