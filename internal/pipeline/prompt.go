package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Prompter decides whether a paused run continues. Implementations must
// honor the timeout; the engine blocks on this call and nothing else runs
// during the pause.
type Prompter interface {
	// Continue presents the pause reason and returns true to keep running
	// or false to abort. No decision within the timeout means continue, so
	// unattended runs never hang.
	Continue(ctx context.Context, reason string, timeout time.Duration) bool
}

// ConsolePrompter asks the operator on the terminal. One reader goroutine
// serves every pause of the run; input typed after a pause timed out is
// delivered to the next pause instead of being lost in an abandoned buffer.
type ConsolePrompter struct {
	In  io.Reader
	Out io.Writer

	once    sync.Once
	answers chan string
}

// Continue implements Prompter. Answering "y" or "yes" continues, any other
// answer aborts, and silence until the timeout auto-continues.
func (p *ConsolePrompter) Continue(ctx context.Context, reason string, timeout time.Duration) bool {
	p.once.Do(func() {
		p.answers = make(chan string)
		go func() {
			reader := bufio.NewReader(p.In)
			for {
				line, err := reader.ReadString('\n')
				if line != "" {
					p.answers <- strings.ToLower(strings.TrimSpace(line))
				}
				if err != nil {
					return
				}
			}
		}()
	})

	fmt.Fprintf(p.Out, "\n%s\nContinue pipeline? (y/n) - auto-continue in %s: ", reason, timeout)

	select {
	case answer := <-p.answers:
		fmt.Fprintln(p.Out)
		return answer == "y" || answer == "yes"
	case <-time.After(timeout):
		fmt.Fprintf(p.Out, "\ntimeout reached (%s), continuing automatically\n", timeout)
		return true
	case <-ctx.Done():
		fmt.Fprintln(p.Out)
		return false
	}
}
