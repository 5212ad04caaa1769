package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/kingdom-core/internal/diplomacy"
	"github.com/napolitain/kingdom-core/internal/kingdom"
	"github.com/napolitain/kingdom-core/internal/models"
)

func newNewCmd() *cobra.Command {
	var seed string
	var force bool
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(saveFile); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", saveFile)
			}
			reg, err := kingdom.LoadRegistries(dataDir)
			if err != nil {
				return err
			}
			s := kingdom.NewGame(reg, seed)
			if err := saveSession(s); err != nil {
				return err
			}
			if !quiet {
				color.New(color.FgGreen, color.Bold).Printf("✓ New kingdom saved to %s\n", saveFile)
				printf("   %d buildings, %d factions, %d research nodes\n",
					reg.Buildings.Len(), len(reg.Factions.IDs()), len(reg.Research.IDs()))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "RNG seed for the new world")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing save")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the kingdom summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			printStatus(s)
			return nil
		},
	}
}

func newEndDayCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "end-day",
		Short: "Close the day: production, relation decay, AP refill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}
			s, err := openSession()
			if err != nil {
				return err
			}
			for i := 0; i < days; i++ {
				report := s.EndDay()
				printf("☀️  Day %d begins, produced %s\n", report.Day, formatAmounts(report.Produced))
			}
			return saveSession(s)
		},
	}
	cmd.Flags().IntVarP(&days, "days", "n", 1, "Number of days to end")
	return cmd
}

func newWaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wave",
		Short: "Record a completed wave, advancing active research",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			active := s.State().Research.Active
			if s.AdvanceResearch() {
				color.New(color.FgGreen, color.Bold).Printf("✓ Research completed: %s\n", active)
			} else if active == "" {
				printf("No active research\n")
			} else {
				printf("🔬 %s: %d wave(s) remaining\n", active, s.Registries().Research.Remaining(s.State()))
			}
			return saveSession(s)
		},
	}
}

func newResearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research",
		Short: "Research tree commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "start <id>",
		Short: "Start researching a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			id := args[0]
			if !s.StartResearch(id) {
				return fmt.Errorf("cannot start %s (status %s, gold %d)", id, s.ResearchStatus(id), s.State().Gold)
			}
			printf("🔬 Started %s\n", id)
			return saveSession(s)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List research nodes and their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			tree := s.Registries().Research
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"ID", "Name", "Category", "Cost", "Waves", "Requires", "Status"}),
			)
			for _, id := range tree.IDs() {
				def, _ := tree.Get(id)
				_ = table.Append([]string{
					id, def.Name, def.Category,
					strconv.Itoa(def.GoldCost), strconv.Itoa(def.WavesRequired),
					def.Prerequisite, string(s.ResearchStatus(id)),
				})
			}
			return table.Render()
		},
	})
	return cmd
}

func newRelationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relation <faction> <trade|tribute|alliance|broken_pact|delta>",
		Short: "Change the relation with a faction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			faction := args[0]
			if _, ok := s.Registries().Factions.Get(faction); !ok {
				return fmt.Errorf("unknown faction %q", faction)
			}
			if delta, err := strconv.Atoi(args[1]); err == nil {
				s.ChangeRelation(faction, delta)
			} else if !s.ApplyRelationAction(faction, diplomacy.Action(args[1])) {
				return fmt.Errorf("unknown action %q", args[1])
			}
			printf("🤝 %s: %d (%s)\n", faction, s.Relation(faction), s.RelationStatus(faction))
			return saveSession(s)
		},
	}
}

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <id>",
		Short: "Construct a building",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			id := models.BuildingType(args[0])
			def, ok := s.Registries().Buildings.Get(id)
			if !ok {
				return fmt.Errorf("unknown building %q", id)
			}
			if !s.Build(id) {
				return fmt.Errorf("cannot afford %s (costs %s)", def.Name, formatAmounts(def.Cost))
			}
			printf("🏗️  Built %s (now %d)\n", def.Name, s.State().Buildings[id])
			return saveSession(s)
		},
	}
}

func printStatus(s *kingdom.Session) {
	titleColor := color.New(color.FgCyan, color.Bold)
	infoColor := color.New(color.FgYellow)
	sum := s.Summarize()
	state := s.State()

	titleColor.Printf("\n👑 Day %d (%s)  AP %d/%d  HP %d  Gold %d\n\n",
		sum.Day, state.Phase, state.AP, state.APMax, state.HP, sum.Gold)

	infoColor.Println("📦 Resources:")
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Resource", "Stock", "Per day"}),
	)
	for _, rt := range models.AllResourceTypes() {
		_ = table.Append([]string{string(rt), strconv.Itoa(sum.Resources[rt]), "+" + strconv.Itoa(sum.Production[rt])})
	}
	_ = table.Render()
	fmt.Printf("   Defense %d, worker slots %d\n\n", sum.Defense, sum.WorkerSlots)

	infoColor.Println("🤝 Relations:")
	relTable := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Faction", "Value", "Status"}),
	)
	for _, id := range s.Registries().Factions.IDs() {
		_ = relTable.Append([]string{id, strconv.Itoa(sum.Relations[id]), colorStatus(sum.Statuses[id])})
	}
	_ = relTable.Render()

	infoColor.Println("\n🔬 Research:")
	if sum.ActiveResearch != "" {
		fmt.Printf("   Active: %s (%d wave(s) remaining)\n", sum.ActiveResearch, sum.ResearchRemaining)
	} else {
		fmt.Println("   Active: none")
	}
	if len(sum.AvailableResearch) > 0 {
		fmt.Printf("   Available: %s\n", strings.Join(sum.AvailableResearch, ", "))
	}
	if len(sum.ResearchEffects) > 0 {
		keys := make([]string, 0, len(sum.ResearchEffects))
		for k := range sum.ResearchEffects {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("   • %s: %+g\n", k, sum.ResearchEffects[k])
		}
	}
	fmt.Println()
}

func colorStatus(st diplomacy.Status) string {
	switch st {
	case diplomacy.Hostile:
		return color.RedString(string(st))
	case diplomacy.Unfriendly:
		return color.YellowString(string(st))
	case diplomacy.Friendly, diplomacy.Allied:
		return color.GreenString(string(st))
	}
	return string(st)
}

func formatAmounts(amounts map[models.ResourceType]int) string {
	var parts []string
	for _, rt := range models.AllResourceTypes() {
		if amounts[rt] != 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", rt, amounts[rt]))
		}
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, " ")
}
