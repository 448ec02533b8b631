package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

func newCapturesCommand(ctx *commandContext) *cobra.Command {
	capturesCmd := &cobra.Command{
		Use:   "captures",
		Short: "Inspect labelled sessions",
	}

	capturesCmd.AddCommand(newCapturesListCommand(ctx))
	capturesCmd.AddCommand(newCapturesDeleteCommand(ctx))

	return capturesCmd
}

func newCapturesListCommand(ctx *commandContext) *cobra.Command {
	var labelFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List captured sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				var (
					captures []*store.Capture
					err      error
				)
				if labelFlag != "" {
					label, perr := gesture.Parse(labelFlag)
					if perr != nil {
						return perr
					}
					captures, err = st.Captures().ListByLabel(label)
				} else {
					captures, err = st.Captures().List()
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(captures) == 0 {
					fmt.Fprintln(out, "No captures")
					return nil
				}

				rows := make([][]string, 0, len(captures))
				for _, c := range captures {
					rows = append(rows, []string{
						c.ID,
						c.Label.String(),
						strconv.Itoa(c.Frames),
						strconv.Itoa(c.Width),
						c.CreatedAt.Format("2006-01-02 15:04:05"),
						c.Path,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Label", "Frames", "Width", "Created", "Path"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&labelFlag, "label", "l", "", "Only list captures with this gesture label")
	return cmd
}

func newCapturesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a capture from the catalogue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				if err := st.Captures().Delete(args[0]); err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return fmt.Errorf("capture %s not found", args[0])
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted capture %s\n", args[0])
				return nil
			})
		},
	}
}
