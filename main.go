// Command farol classifies school indicator records as green, yellow or red.
package main

import (
	"github.com/farolescolar/farol/cmd"
	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/internal/store"
)

func main() {
	cmd.SetStoreManager(store.Manager)
	defer store.CloseStore()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		store.CloseStore()
		contract.LogFatal("Command failed", err)
	}
}
