package s1

// StepNames returns the names of the preprocessing steps selected by the
// options, in application order
func StepNames(opts CollectionOptions) []string {
	steps := preprocessSteps(opts)
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.name
	}
	return names
}
