package catalog

// MergePolicy controls how a batch folds into the catalog.
type MergePolicy int

const (
	// Overlay merges field-by-field: non-empty incoming fields replace
	// existing ones, names not seen before are added.
	Overlay MergePolicy = iota
	// AddIfAbsent only adds records whose name is not already present.
	AddIfAbsent
)

// Batch is one collector's output together with its merge policy.
type Batch struct {
	Games  []Game
	Policy MergePolicy
}

// Merge folds collector batches into a name-keyed catalog.
//
// The caller passes batches in precedence order: earlier batches are
// baseline, later batches win on field conflicts. The result depends
// only on batch order, never on map iteration or collector internals.
func Merge(batches []Batch) map[string]*Game {
	merged := make(map[string]*Game)

	for _, batch := range batches {
		for _, in := range batch.Games {
			if in.Name == "" {
				continue
			}

			existing, ok := merged[in.Name]
			if !ok {
				g := in
				merged[in.Name] = &g
				continue
			}

			if batch.Policy == AddIfAbsent {
				continue
			}
			existing.overlay(in)
		}
	}

	return merged
}
