package cmd

import (
	"testing"

	"github.com/apex/log"
)

func TestVerboseFlagSetsDebugLevel(t *testing.T) {
	defer func() {
		verbose = false
		log.SetLevel(log.InfoLevel)
	}()

	verbose = true
	rootCmd.PersistentPreRun(rootCmd, nil)
	if log.Log.(*log.Logger).Level != log.DebugLevel {
		t.Error("verbose should enable debug logging")
	}

	verbose = false
	rootCmd.PersistentPreRun(rootCmd, nil)
	if log.Log.(*log.Logger).Level != log.InfoLevel {
		t.Error("default level should be info")
	}
}
