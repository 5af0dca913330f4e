// Package cases manages the production cases from the command line.
package cases

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/myoungji/website/cmd/cli/store"
	"github.com/myoungji/website/internal/catalog"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var Group = &cobra.Group{
	ID:    "cases",
	Title: "Case operations",
}

var (
	ErrMissingID    = errors.NewSentinel("case without id")
	ErrDuplicateID  = errors.NewSentinel("duplicate case id")
	ErrMissingTitle = errors.NewSentinel("case without title")
	ErrBadCategory  = errors.NewSentinel("unknown category")
)

// NewCommand returns the cases command with its subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cases",
		GroupID: Group.ID,
		Short:   "Manage production cases",
	}
	cmd.AddCommand(newListCommand(), newExportCommand(), newImportCommand(), newResetCommand())
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cases in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := store.Open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeStore(cmd, s)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd // column padding
			_, _ = fmt.Fprintln(w, "ID\tCATEGORY\tTITLE\tIMAGES")
			for _, c := range s.Cases.List() {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", c.ID, c.Category, c.Title, len(c.Images))
			}
			return errors.Wrap(w.Flush(), "flush table")
		},
	}
}

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all cases as YAML",
		Long:  "Writes all cases as YAML to stdout or to the file given with --out. The output can be read back with import.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := store.Open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeStore(cmd, s)

			out := cmd.OutOrStdout()
			outPath, _ := cmd.Flags().GetString("out")
			if outPath != "" {
				var file *os.File
				if file, err = os.Create(outPath); err != nil {
					return errors.Wrap(err, "create output file", slog.String("path", outPath))
				}
				defer func() { _ = file.Close() }()
				out = file
			}
			return Encode(out, s.Cases.List())
		},
	}
	cmd.Flags().String("out", "", "path to the exported YAML file")
	return cmd
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace all cases with the ones in a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "open input file", slog.String("path", args[0]))
			}
			defer func() { _ = file.Close() }()

			var imported []models.Case
			if imported, err = Decode(file); err != nil {
				return err
			}

			var s *store.Store
			if s, err = store.Open(cmd.Context(), cmd); err != nil {
				return err
			}
			defer closeStore(cmd, s)
			if err = s.Cases.Replace(cmd.Context(), imported); err != nil {
				return errors.Wrap(err, "replace cases")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cases\n", len(imported))
			return nil
		},
	}
}

func newResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace all cases with the built-in examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, err := catalog.Seed()
			if err != nil {
				return err
			}
			var s *store.Store
			if s, err = store.Open(cmd.Context(), cmd); err != nil {
				return err
			}
			defer closeStore(cmd, s)
			if err = s.Cases.Replace(cmd.Context(), seed); err != nil {
				return errors.Wrap(err, "replace cases")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Restored %d example cases\n", len(seed))
			return nil
		},
	}
}

// Encode writes cases as a YAML sequence.
func Encode(w io.Writer, cases []models.Case) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2) //nolint:mnd // matches the embedded seed file
	if err := enc.Encode(cases); err != nil {
		return errors.Wrap(err, "encode cases")
	}
	return errors.Wrap(enc.Close(), "close encoder")
}

// Decode reads a YAML or JSON sequence of cases and checks that it can be published as is.
func Decode(r io.Reader) ([]models.Case, error) {
	var cases []models.Case
	if err := yaml.NewDecoder(r).Decode(&cases); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode cases")
	}

	seen := make(map[string]struct{}, len(cases))
	for i, c := range cases {
		position := slog.Int("position", i)
		switch {
		case c.ID == "":
			return nil, errors.Wrap(ErrMissingID, "validate case", position)
		case c.Title == "":
			return nil, errors.Wrap(ErrMissingTitle, "validate case", position, slog.String("id", c.ID))
		case !models.IsCategory(c.Category):
			return nil, errors.Wrap(ErrBadCategory, "validate case", position, slog.String("category", c.Category))
		}
		if _, ok := seen[c.ID]; ok {
			return nil, errors.Wrap(ErrDuplicateID, "validate case", position, slog.String("id", c.ID))
		}
		seen[c.ID] = struct{}{}
	}
	return cases, nil
}

func closeStore(cmd *cobra.Command, s *store.Store) {
	if err := s.Close(); err != nil {
		s.Logger.LogAttrs(cmd.Context(), slog.LevelError, "close database", errors.SlogError(err))
	}
}
