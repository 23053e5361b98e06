package cmd

import (
	"testing"

	"github.com/poldracklab/tacc-software/internal/utils"
	"github.com/spf13/cobra"
)

func TestConfigKeysCompletion(t *testing.T) {
	keys, directive := configKeysCompletion(nil, nil, "")
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", directive)
	}
	if len(keys) != len(configKeys) {
		t.Fatalf("got %d keys, expected %d", len(keys), len(configKeys))
	}

	want := map[string]bool{
		"sbatch_bin":   true,
		"queue":        true,
		"runtime":      true,
		"project":      true,
		"workdir":      true,
		"keep_scripts": true,
		"hosts":        true,
	}
	for _, k := range keys {
		if !want[k] {
			t.Errorf("unexpected completion key %q", k)
		}
	}
}

func TestConfigValueCompletion(t *testing.T) {
	queues := configValueCompletion("queue")
	if len(queues) == 0 {
		t.Fatal("expected queue value suggestions")
	}
	found := false
	for _, q := range queues {
		if q == "normal" {
			found = true
		}
	}
	if !found {
		t.Error("queue suggestions should include \"normal\"")
	}

	if vals := configValueCompletion("project"); vals != nil {
		t.Errorf("project should have no value suggestions, got %v", vals)
	}
}

func TestRuntimeCompletionValuesParse(t *testing.T) {
	// every suggested runtime must be accepted by the duration parser
	for _, v := range configValueCompletion("runtime") {
		if _, err := utils.ParseDuration(v); err != nil {
			t.Errorf("suggested runtime %q does not parse: %v", v, err)
		}
	}
}
