package detection

// Analyze runs every registry pattern against body and returns the labels
// that matched with their unique values. It has no side effects.
func Analyze(body string) Finding {
	var f Finding
	for _, p := range registry {
		f.Add(p.Label, p.FindAll(body)...)
	}
	return f
}
