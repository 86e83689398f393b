package policy

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// NamespaceFederatedCompute holds the rules the router enforces.
const (
	NamespaceFederatedCompute = "federatedCompute"
	KeyMinSecAggRoundSize     = "minSecAggRoundSize"
)

// Policy is a named set of namespaced rules governing whether and how a query
// may be served. The same shape describes both the descriptor embedded in a
// query and an installed policy; configs map namespace to key/value rules.
type Policy struct {
	Name    string                       `json:"name"                toml:"name"`
	Configs map[string]map[string]string `json:"configs,omitempty"   toml:"configs"`
}

// Page is one page of installed policies.
type Page struct {
	Offset   uint64   `json:"offset"`
	Limit    uint64   `json:"limit"`
	Total    uint64   `json:"total"`
	Policies []Policy `json:"policies"`
}

// Index is the installed-policy repository: a multi-valued mapping from
// policy name to every installed version of that policy. It is populated at
// construction and never mutated by the router.
type Index struct {
	byName map[string][]Policy
	names  []string
	total  uint64
}

func NewIndex(policies ...Policy) *Index {
	ix := &Index{byName: make(map[string][]Policy)}
	for _, p := range policies {
		if _, ok := ix.byName[p.Name]; !ok {
			ix.names = append(ix.names, p.Name)
		}
		ix.byName[p.Name] = append(ix.byName[p.Name], p)
		ix.total++
	}

	return ix
}

// Lookup returns every installed policy registered under name, in
// installation order.
func (ix *Index) Lookup(name string) []Policy {
	return ix.byName[name]
}

// List returns one page of installed policies in installation order.
func (ix *Index) List(offset, limit uint64) Page {
	all := make([]Policy, 0, ix.total)
	for _, name := range ix.names {
		all = append(all, ix.byName[name]...)
	}

	if offset >= ix.total {
		return Page{Offset: offset, Limit: limit, Total: ix.total}
	}
	// Guard the addition: offset+limit may wrap around.
	end := ix.total
	if limit < ix.total-offset {
		end = offset + limit
	}

	return Page{
		Offset:   offset,
		Limit:    limit,
		Total:    ix.total,
		Policies: all[offset:end],
	}
}

type indexFile struct {
	Policies []Policy `toml:"policies"`
}

// LoadIndex reads installed policies from a TOML file.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading policy file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing policy file: %w", err)
	}

	var f indexFile
	if err := tree.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("error unmarshaling policy file: %w", err)
	}

	return NewIndex(f.Policies...), nil
}
