package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCommands(t *testing.T) {
	want := []string{
		"server",
		"migrate",
		"create-account",
		"rotate-server-secret",
		"create-domain",
		"grant",
		"revoke",
		"issue-token",
		"revoke-token",
		"clean-expired-tokens",
	}

	names := make([]string, 0, len(want))
	for _, cmd := range getCommands("test") {
		names = append(names, cmd.Name)
		assert.NotEmpty(t, cmd.Usage, cmd.Name)
		assert.NotNil(t, cmd.Action, cmd.Name)
	}

	assert.ElementsMatch(t, want, names)
}
