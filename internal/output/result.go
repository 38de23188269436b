package output

// Result is the rendered outcome of searching one input.
type Result struct {
	Path    string
	SeqNum  int
	Out     []byte
	Matched bool
	Err     error
}
