package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// fakeRunner scripts daemon responses by argument prefix and records every
// invocation, letting tests assert exact argument sequences without a
// daemon binary
type fakeRunner struct {
	byPrefix    map[string]string // joined-args prefix -> JSON stdout
	rawResponse string            // response for RunRaw calls
	calls       [][]string
	rawCalls    [][]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{byPrefix: make(map[string]string)}
}

func (f *fakeRunner) respond(prefix, jsonOut string) {
	f.byPrefix[prefix] = jsonOut
}

func (f *fakeRunner) Run(_ context.Context, args []string) (json.RawMessage, error) {
	f.calls = append(f.calls, args)
	joined := strings.Join(args, " ")
	for prefix, out := range f.byPrefix {
		if strings.HasPrefix(joined, prefix) {
			return json.RawMessage(out), nil
		}
	}
	return nil, fmt.Errorf("fake runner: no scripted response for %q", joined)
}

func (f *fakeRunner) RunRaw(_ context.Context, args []string) (string, error) {
	f.rawCalls = append(f.rawCalls, args)
	return f.rawResponse, nil
}

// lastCall returns the most recent Run invocation's arguments
func (f *fakeRunner) lastCall() []string {
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}
