package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/napolitain/kingdom-core/internal/converter"
	"github.com/napolitain/kingdom-core/internal/kingdom"
	"github.com/napolitain/kingdom-core/internal/loader"
	"github.com/napolitain/kingdom-core/internal/savegame"
	"github.com/napolitain/kingdom-core/internal/store"
)

func newSlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Manage named save slots in the slot database",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "kingdom.db", "Path to slot database")

	withStore := func(fn func(cmd *cobra.Command, st *store.Store, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			return fn(cmd, st, args)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save <name>",
		Short: "Copy the save file into a slot",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, st *store.Store, args []string) error {
			state, err := savegame.LoadFromFile(saveFile)
			if err != nil {
				return err
			}
			slot, err := st.Save(cmd.Context(), args[0], state)
			if err != nil {
				return err
			}
			printf("💾 Saved day %d to slot %s (%s)\n", slot.Day, slot.Name, slot.ID)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "load <name>",
		Short: "Restore a slot into the save file",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, st *store.Store, args []string) error {
			state, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := savegame.SaveToFile(saveFile, state); err != nil {
				return err
			}
			printf("📂 Loaded slot %s (day %d) into %s\n", args[0], state.Day, saveFile)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List save slots",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, st *store.Store, args []string) error {
			slots, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				printf("No save slots\n")
				return nil
			}
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Name", "Day", "Version", "Size", "Saved", "Checksum"}),
			)
			for _, sl := range slots {
				_ = table.Append([]string{
					sl.Name,
					strconv.Itoa(sl.Day),
					strconv.Itoa(sl.Version),
					strconv.Itoa(sl.Size),
					sl.SavedAt.Local().Format(time.DateTime),
					sl.Checksum[:min(12, len(sl.Checksum))],
				})
			}
			return table.Render()
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a save slot",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, st *store.Store, args []string) error {
			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf("🗑️  Deleted slot %s\n", args[0])
			return nil
		}),
	})

	return cmd
}

func newExportCmd() *cobra.Command {
	var protoJSON bool
	var summary bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the save document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := savegame.LoadFromFile(saveFile)
			if err != nil {
				return err
			}

			msg := converter.GameStateToProto(state)
			if summary {
				reg, err := kingdom.LoadRegistries(dataDir)
				if err != nil {
					return err
				}
				msg = converter.MapToProto(kingdom.Resume(reg, state).Summarize().Document())
			}

			if !protoJSON && !summary {
				_, err := os.Stdout.Write(savegame.Encode(state))
				return err
			}
			out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
			if err != nil {
				return fmt.Errorf("marshal: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&protoJSON, "proto-json", false, "Print the wire form as protobuf JSON")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print the derived summary instead of the state")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of content pack files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := json.MarshalIndent(loader.ContentSchema(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
