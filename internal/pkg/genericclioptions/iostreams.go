package genericclioptions

import (
	"bytes"
	"io"
)

// IOStreams provides the three standard streams of a command invocation.
// Passing this around instead of touching os.Stdin/os.Stdout directly
// lets tests script console input and capture output.
type IOStreams struct {
	// In think, os.Stdin
	In io.Reader
	// Out think, os.Stdout
	Out io.Writer
	// ErrOut think, os.Stderr
	ErrOut io.Writer
}

// NewTestIOStreams returns streams backed by buffers, along with the
// output and error buffers for assertions. A nil in reader yields an
// empty input stream.
func NewTestIOStreams(in io.Reader) (IOStreams, *bytes.Buffer, *bytes.Buffer) {
	if in == nil {
		in = &bytes.Buffer{}
	}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return IOStreams{In: in, Out: out, ErrOut: errOut}, out, errOut
}
