package input

import "os"

// StdinName is how standard input is reported in output.
const StdinName = "<stdin>"

// stdin streams standard input. It is never closed by the searcher.
func (o *Opener) stdin() Source {
	r := o.opts.Stdin
	if r == nil {
		r = os.Stdin
	}
	return Source{Name: StdinName, Reader: r, closer: noopCloser}
}
