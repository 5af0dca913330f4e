// Package inquiries reads the consultation requests stored in the local database.
package inquiries

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/myoungji/website/cmd/cli/store"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/models"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "inquiries",
	Title: "Inquiry operations",
}

// NewCommand returns the inquiries command with its subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inquiries",
		GroupID: Group.ID,
		Short:   "Read consultation requests",
	}
	cmd.AddCommand(newListCommand())
	return cmd
}

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inquiries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := store.Open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := s.Close(); closeErr != nil {
					s.Logger.LogAttrs(cmd.Context(), slog.LevelError, "close database", errors.SlogError(closeErr))
				}
			}()

			var list []models.Inquiry
			if list, err = s.Inquiries.List(cmd.Context()); err != nil {
				return errors.Wrap(err, "list inquiries")
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return WriteJSON(cmd.OutOrStdout(), list)
			}
			return WriteTable(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().Bool("json", false, "print the inquiries as a JSON array")
	return cmd
}

// WriteTable prints one line per inquiry.
func WriteTable(w io.Writer, list []models.Inquiry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd // column padding
	_, _ = fmt.Fprintln(tw, "RECEIVED\tCOMPANY\tNAME\tPHONE\tEMAIL\tEXISTING SYSTEM")
	for _, i := range list {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", i.CreatedAt.Local().Format(time.DateTime),
			i.Company, i.Name, i.Phone, i.Email, i.HasExistingSystem)
	}
	return errors.Wrap(tw.Flush(), "flush table")
}

// WriteJSON prints the inquiries with the field names of the remote inquiries table.
func WriteJSON(w io.Writer, list []models.Inquiry) error {
	if list == nil {
		list = []models.Inquiry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(list), "encode inquiries")
}
