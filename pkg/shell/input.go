package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// line is one scanned input line, or the scanner's terminal error.
type line struct {
	text string
	err  error
}

// tokens splits line-oriented input into whitespace separated words, so a
// prompt for nine integers accepts them on one line or spread over several.
//
// Lines are scanned on a separate goroutine so a blocked read can be
// abandoned when ctx is done.
type tokens struct {
	ctx     context.Context
	lines   <-chan line
	pending []string
	err     error // first read failure other than end of input
}

func newTokens(r io.Reader) *tokens {
	ch := make(chan line)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			ch <- line{text: sc.Text()}
		}
		if err := sc.Err(); err != nil {
			ch <- line{err: err}
		}
	}()
	return &tokens{ctx: context.Background(), lines: ch}
}

// readLine waits for the next input line. It returns io.EOF once input is
// exhausted and ctx.Err() once ctx is done.
func (t *tokens) readLine() (string, error) {
	select {
	case <-t.ctx.Done():
		return "", t.ctx.Err()
	case l, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		if l.err != nil {
			t.err = l.err
			return "", l.err
		}
		return l.text, nil
	}
}

// next returns the next word, reading more lines as needed.
func (t *tokens) next() (string, error) {
	for len(t.pending) == 0 {
		s, err := t.readLine()
		if err != nil {
			return "", err
		}
		t.pending = strings.Fields(s)
	}
	tok := t.pending[0]
	t.pending = t.pending[1:]
	return tok, nil
}

// rest returns whatever is left on the current line, or the next non-blank
// line if nothing is pending. Used for file names, which may hold spaces.
func (t *tokens) rest() (string, error) {
	if len(t.pending) > 0 {
		s := strings.Join(t.pending, " ")
		t.pending = nil
		return s, nil
	}
	for {
		s, err := t.readLine()
		if err != nil {
			return "", err
		}
		if s = strings.TrimSpace(s); s != "" {
			return s, nil
		}
	}
}

// discard drops the remainder of the current line after a bad entry.
func (t *tokens) discard() {
	t.pending = nil
}

// int32s reads n 32-bit integers. A bad word does not end the entry early:
// all n words are consumed before the first parse error is returned, so the
// tail of a multi-line entry is never read as a menu choice.
func (t *tokens) int32s(n int) ([]int32, error) {
	out := make([]int32, 0, n)
	var bad error
	for i := 0; i < n; i++ {
		tok, err := t.next()
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			if bad == nil {
				bad = fmt.Errorf("%w: %q is not a 32-bit integer", ErrBadInput, tok)
			}
			continue
		}
		out = append(out, int32(v))
	}
	if bad != nil {
		return nil, bad
	}
	return out, nil
}
