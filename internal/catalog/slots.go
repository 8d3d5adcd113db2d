package catalog

import (
	"fmt"
	"text/template"
	"text/template/parse"
)

// Slot names a placeholder a template body may reference as {{.Slot}}.
type Slot string

// The closed set of slots.
const (
	SlotProjectName                    Slot = "ProjectName"
	SlotProjectPackage                 Slot = "ProjectPackage"
	SlotProjectSlug                    Slot = "ProjectSlug"
	SlotContractBinary                 Slot = "ContractBinary"
	SlotToolchainChannel               Slot = "ToolchainChannel"
	SlotPatchSection                   Slot = "PatchSection"
	SlotCasperContractVersion          Slot = "CasperContractVersion"
	SlotCasperTypesVersion             Slot = "CasperTypesVersion"
	SlotCasperEngineTestSupportVersion Slot = "CasperEngineTestSupportVersion"
	SlotCasperExecutionEngineVersion   Slot = "CasperExecutionEngineVersion"
)

var knownSlots = []Slot{
	SlotProjectName,
	SlotProjectPackage,
	SlotProjectSlug,
	SlotContractBinary,
	SlotToolchainChannel,
	SlotPatchSection,
	SlotCasperContractVersion,
	SlotCasperTypesVersion,
	SlotCasperEngineTestSupportVersion,
	SlotCasperExecutionEngineVersion,
}

// KnownSlots returns every slot in declaration order.
func KnownSlots() []Slot {
	out := make([]Slot, len(knownSlots))
	copy(out, knownSlots)
	return out
}

// IsKnown reports whether s belongs to the closed slot set.
func IsKnown(s Slot) bool {
	for _, k := range knownSlots {
		if k == s {
			return true
		}
	}
	return false
}

// Parse compiles the template body. Executing it against a map with a missing
// key is an error rather than "<no value>".
func (t Template) Parse() (*template.Template, error) {
	tmpl, err := template.New(t.Path).Option("missingkey=error").Parse(t.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", t.Path, err)
	}
	return tmpl, nil
}

// Slots returns the distinct slots referenced by t, in order of first use.
// Unknown names are returned too; callers check them with IsKnown.
func Slots(t Template) ([]Slot, error) {
	tmpl, err := t.Parse()
	if err != nil {
		return nil, err
	}
	w := &slotWalker{seen: make(map[Slot]bool)}
	for _, tt := range tmpl.Templates() {
		if tt.Tree != nil {
			w.node(tt.Tree.Root)
		}
	}
	return w.slots, nil
}

type slotWalker struct {
	seen  map[Slot]bool
	slots []Slot
}

func (w *slotWalker) add(name string) {
	s := Slot(name)
	if !w.seen[s] {
		w.seen[s] = true
		w.slots = append(w.slots, s)
	}
}

func (w *slotWalker) node(n parse.Node) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			w.node(c)
		}
	case *parse.ActionNode:
		w.pipe(n.Pipe)
	case *parse.IfNode:
		w.branch(&n.BranchNode)
	case *parse.RangeNode:
		w.branch(&n.BranchNode)
	case *parse.WithNode:
		w.branch(&n.BranchNode)
	case *parse.TemplateNode:
		w.pipe(n.Pipe)
	}
}

func (w *slotWalker) branch(b *parse.BranchNode) {
	w.pipe(b.Pipe)
	w.node(b.List)
	if b.ElseList != nil {
		w.node(b.ElseList)
	}
}

func (w *slotWalker) pipe(p *parse.PipeNode) {
	if p == nil {
		return
	}
	for _, cmd := range p.Cmds {
		for _, arg := range cmd.Args {
			w.arg(arg)
		}
	}
}

func (w *slotWalker) arg(n parse.Node) {
	switch a := n.(type) {
	case *parse.FieldNode:
		if len(a.Ident) > 0 {
			w.add(a.Ident[0])
		}
	case *parse.ChainNode:
		w.arg(a.Node)
	case *parse.PipeNode:
		w.pipe(a)
	}
}
