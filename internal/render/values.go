package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casperkit/casperkit/internal/catalog"
	"github.com/casperkit/casperkit/internal/project"
	"github.com/casperkit/casperkit/internal/versions"
)

// ContractBinary is the contract's [[bin]] name. The Makefile's build-contract
// target produces <ContractBinary>.wasm, so this name is fixed.
const ContractBinary = "contract"

// Errors reported for catalog/engine mismatches.
var (
	ErrUnknownSlot  = errors.New("template references an unknown slot")
	ErrMissingValue = errors.New("no value for slot")
)

// Values maps every slot to its rendered text.
type Values map[catalog.Slot]string

// versionSlots binds each pinned crate to the slot carrying its version.
var versionSlots = []struct {
	crate string
	slot  catalog.Slot
}{
	{versions.CasperContract.Name, catalog.SlotCasperContractVersion},
	{versions.CasperTypes.Name, catalog.SlotCasperTypesVersion},
	{versions.CasperEngineTestSupport.Name, catalog.SlotCasperEngineTestSupportVersion},
	{versions.CasperExecutionEngine.Name, catalog.SlotCasperExecutionEngineVersion},
}

// Options carries the non-name inputs of rendering.
type Options struct {
	// Toolchain is written to rust-toolchain.
	Toolchain string
	// Overrides, when set, adds a [patch.crates-io] section.
	Overrides *Overrides
}

// NewValues builds the slot values for spec and pins.
func NewValues(spec project.Spec, pins versions.PinSet, opts Options) (Values, error) {
	toolchain := strings.TrimSpace(opts.Toolchain)
	if toolchain == "" {
		return nil, fmt.Errorf("%w %s", ErrMissingValue, catalog.SlotToolchainChannel)
	}

	v := Values{
		catalog.SlotProjectName:      spec.Name,
		catalog.SlotProjectPackage:   spec.Package(),
		catalog.SlotProjectSlug:      spec.Slug(),
		catalog.SlotContractBinary:   ContractBinary,
		catalog.SlotToolchainChannel: toolchain,
		catalog.SlotPatchSection:     "",
	}
	if opts.Overrides != nil {
		if err := opts.Overrides.Validate(); err != nil {
			return nil, err
		}
		patch, err := opts.Overrides.PatchSection()
		if err != nil {
			return nil, err
		}
		v[catalog.SlotPatchSection] = patch
	}

	for _, vs := range versionSlots {
		pin, ok := pins.Get(vs.crate)
		if !ok || pin.Version == "" {
			return nil, fmt.Errorf("%w %s: %s was not resolved", ErrMissingValue, vs.slot, vs.crate)
		}
		v[vs.slot] = pin.Version
	}
	return v, nil
}

// data converts v into the map text/template executes against.
func (v Values) data() map[string]string {
	m := make(map[string]string, len(v))
	for k, val := range v {
		m[string(k)] = val
	}
	return m
}
