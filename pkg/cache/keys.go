package cache

// Keyer builds cache keys. Implementations must produce the same key for
// equal inputs and different keys whenever an option changes the result.
type Keyer interface {
	// SolveKey identifies the tower solved from a box list (by its hash)
	// under the given options.
	SolveKey(boxesHash string, opts SolveKeyOpts) string

	// ArtifactKey identifies a rendering of a solution (by its hash).
	ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string
}

// SolveKeyOpts lists every option that can change a solved tower.
// Tabu fields are ignored by the exact and greedy solvers, so callers
// should zero them for those algorithms to share entries.
type SolveKeyOpts struct {
	Algorithm     string `json:"algorithm"`
	MaxIterations int    `json:"max_iterations,omitempty"`
	Capacities    []int  `json:"capacities,omitempty"`
	Seed          uint64 `json:"seed,omitempty"`
	Selection     string `json:"selection,omitempty"`
	Policy        string `json:"policy,omitempty"`
	Initial       string `json:"initial,omitempty"`
}

// ArtifactKeyOpts lists the options of a rendering.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Labels   bool    `json:"labels"`
	MaxWidth float64 `json:"max_width,omitempty"`
}

// DefaultKeyer hashes inputs and options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey implements Keyer.
func (DefaultKeyer) SolveKey(boxesHash string, opts SolveKeyOpts) string {
	return hashKey("solve", boxesHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", solutionHash, opts)
}
