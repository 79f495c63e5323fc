package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/form"
)

var FieldsCmd = &cobra.Command{
	Use:   FieldsCmdName,
	Short: FieldsCmdShort,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		return printFields(cmd.OutOrStdout(), a.schema)
	},
}

func printFields(out io.Writer, schema form.Schema) error {
	fmt.Fprintf(out, "variant: %s\n\n", schema.Name)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tLABEL\tOPTIONS")
	for _, f := range schema.Fields {
		opts := make([]string, 0, len(f.Options))
		for _, o := range f.Options {
			opts = append(opts, fmt.Sprintf("%d=%s", o.Code, o.Label))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Name, f.Kind, f.Label, strings.Join(opts, ", "))
	}
	return tw.Flush()
}
