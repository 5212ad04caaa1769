package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/kingdom-core/internal/kingdom"
	"github.com/napolitain/kingdom-core/internal/logger"
	"github.com/napolitain/kingdom-core/internal/savegame"
)

var (
	dataDir  string
	saveFile string
	dbPath   string
	quiet    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var verr *savegame.VersionError
		if errors.As(err, &verr) {
			color.Red("%v", verr)
		} else {
			color.Red("Error: %v", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kingdom",
		Short: "Kingdom economy, diplomacy and research tool",
		Long: `Inspect and advance a kingdom save: buildings and daily production,
faction relations, the research tree and versioned save slots.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(os.Stderr)
			if quiet {
				logger.Quiet()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", "data", "Path to content directory")
	rootCmd.PersistentFlags().StringVarP(&saveFile, "save", "s", "kingdom.json", "Path to save file")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	rootCmd.AddCommand(
		newNewCmd(),
		newStatusCmd(),
		newEndDayCmd(),
		newWaveCmd(),
		newResearchCmd(),
		newRelationCmd(),
		newBuildCmd(),
		newSlotCmd(),
		newExportCmd(),
		newSchemaCmd(),
	)
	return rootCmd
}

// openSession loads the content pack and the save file
func openSession() (*kingdom.Session, error) {
	reg, err := kingdom.LoadRegistries(dataDir)
	if err != nil {
		return nil, err
	}
	state, err := savegame.LoadFromFile(saveFile)
	if err != nil {
		if errors.Is(err, savegame.ErrNotFound) {
			return nil, fmt.Errorf("%w (run \"kingdom new\" first)", err)
		}
		return nil, err
	}
	return kingdom.Resume(reg, state), nil
}

func saveSession(s *kingdom.Session) error {
	return savegame.SaveToFile(saveFile, s.State())
}

func printf(format string, a ...any) {
	if !quiet {
		fmt.Printf(format, a...)
	}
}
