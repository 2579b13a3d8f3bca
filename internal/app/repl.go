package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	apperrors "github.com/howto-cli/howto/internal/pkg/errors"
)

type lineResult struct {
	text string
	err  error
}

// LineReader reads input lines on a helper goroutine so a read can be
// abandoned when the context is cancelled.
type LineReader struct {
	out   io.Writer
	lines chan lineResult
	done  chan struct{}
	once  sync.Once
}

// NewLineReader starts reading lines from in. Prompts are written to out.
func NewLineReader(in io.Reader, out io.Writer) *LineReader {
	r := &LineReader{
		out:   out,
		lines: make(chan lineResult),
		done:  make(chan struct{}),
	}
	go r.scan(bufio.NewScanner(in))
	return r
}

func (r *LineReader) scan(sc *bufio.Scanner) {
	defer close(r.lines)
	for sc.Scan() {
		select {
		case r.lines <- lineResult{text: sc.Text()}:
		case <-r.done:
			return
		}
	}
	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	select {
	case r.lines <- lineResult{err: err}:
	case <-r.done:
	}
}

// ReadLine prints prompt and waits for the next line.
// It returns io.EOF at end of input and an interrupted error when ctx is cancelled.
func (r *LineReader) ReadLine(ctx context.Context, prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(r.out, prompt)
	}
	select {
	case <-ctx.Done():
		return "", apperrors.NewInterruptedError(ctx.Err())
	case res, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}

// Close stops the helper goroutine once its pending read returns.
func (r *LineReader) Close() {
	r.once.Do(func() { close(r.done) })
}
