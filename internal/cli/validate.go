package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <definition>",
		Short: "Build a definition and summarize the timeboard",
		Long: "Build the timeboard of a definition, reporting any configuration\n" +
			"error. A definition is a YAML file path or a name looked up in the\n" +
			"definitions directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := a.loadBoard(args[0])
			if err != nil {
				return err
			}
			v := newBoardView(tb)
			return a.emit(cmd, v, tb.String()+"\n"+v.text())
		},
	}
}
