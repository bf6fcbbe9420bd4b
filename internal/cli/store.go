package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/pipeline"
	"github.com/matzehuels/chartwire/pkg/store"
)

// storeCommand creates the store command group.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Keep chart specs in the chart store",
		Long: `Keep chart specs in the chart store.

The store is a directory (~/.config/chartwire/charts by default) or a MongoDB
collection when CHARTWIRE_STORE=mongo. Specs are stored by chart id.`,
	}

	cmd.AddCommand(c.storePutCommand())
	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeDeleteCommand())
	cmd.AddCommand(c.storePickCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func (c *CLI) storePutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put [spec files or directories...]",
		Short: "Add or replace specs in the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// Loading first checks every spec and that ids are unique.
			files, err := pipeline.LoadFiles(ctx, args)
			if err != nil {
				return err
			}
			return c.withStore(ctx, func(s store.Store) error {
				for _, f := range files {
					data, err := os.ReadFile(f.Path)
					if err != nil {
						return fmt.Errorf("read %s: %w", f.Path, err)
					}
					e, err := store.NewEntry(f.Path, data)
					if err != nil {
						return fmt.Errorf("%s: %w", f.Name(), err)
					}
					if err := s.Put(ctx, e); err != nil {
						return err
					}
					printSuccess("Stored %s", StyleHighlight.Render(e.ID))
					printDetail("from %s", f.Path)
				}
				return nil
			})
		},
	}
}

func (c *CLI) storeGetCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "get [chart id]",
		Short:             "Print a stored spec, or write it to a directory",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeChartIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(s store.Store) error {
				e, err := s.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return writeEntry(cmd, e, output)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "directory to write <id>.<format> into (default: stdout)")
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored specs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(s store.Store) error {
				entries, err := s.List(ctx)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					printInfo("The store is empty")
					printNextStep("Add specs", appName+" store put <spec dir>")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), entryTable(entries))
				return nil
			})
		},
	}
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete [chart id...]",
		Short:             "Remove specs from the store",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeChartIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(s store.Store) error {
				for _, id := range args {
					if err := errs.ValidateChartID(id); err != nil {
						return err
					}
					if err := s.Delete(ctx, id); err != nil {
						return err
					}
					printSuccess("Deleted %s", StyleHighlight.Render(id))
				}
				return nil
			})
		},
	}
}

func (c *CLI) storePickCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a stored spec interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(s store.Store) error {
				entries, err := s.List(ctx)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					printInfo("The store is empty")
					return nil
				}

				final, err := tea.NewProgram(NewChartListModel(entries), tea.WithContext(ctx)).Run()
				if err != nil {
					return fmt.Errorf("chart picker: %w", err)
				}
				m, ok := final.(ChartListModel)
				if !ok || m.Selected == nil {
					return nil
				}
				return writeEntry(cmd, m.Selected, output)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "directory to write the chosen spec into (default: stdout)")
	return cmd
}

// writeEntry prints the entry's source, or writes it into dir.
func writeEntry(cmd *cobra.Command, e *store.Entry, dir string) error {
	if dir == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), e.Source)
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "create %s", dir)
	}
	path := filepath.Join(dir, e.FileName())
	if err := os.WriteFile(path, []byte(e.Source), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Wrote %s", e.ID)
	printFile(path)
	return nil
}

// entryTable renders stored entries as a table.
func entryTable(entries []*store.Entry) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, len(entries))
	for i, e := range entries {
		title := e.Title
		if title == "" {
			title = "—"
		}
		rows[i] = []string{e.ID, e.Type, title, string(e.Format), e.UpdatedAt.Local().Format("2006-01-02 15:04")}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Type", "Title", "Format", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			default:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
		}).
		Render()
}
