package connection

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

type routesFile struct {
	Clients []Client `toml:"clients"`
}

// LoadRoutes reads the routing table from a TOML file. Each [[clients]]
// entry maps a backend client name to its endpoint.
func LoadRoutes(path string) (map[string]Endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading routes file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing routes file: %w", err)
	}

	var f routesFile
	if err := tree.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("error unmarshaling routes file: %w", err)
	}

	routes := make(map[string]Endpoint, len(f.Clients))
	for _, c := range f.Clients {
		routes[c.Name] = c.Endpoint
	}

	return routes, nil
}
