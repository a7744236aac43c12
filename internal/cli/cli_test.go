package cli

import (
	"bytes"
	"testing"
)

func TestRootCommand_hasExpectedSubcommands(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{"optimize": false, "serve": false, "tui": false, "completion": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.SetLogLevel(LogDebug)
	if c.logger == nil {
		t.Fatal("logger should not be nil after SetLogLevel")
	}
}
