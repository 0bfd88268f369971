// Package cli is the terminal front end: one cobra command per screen action.
// Confirmation dialogs become y/N prompts.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinica-nutricion/turnos-client/internal/app"
)

// Builder assembles the application once per invocation.
type Builder func(ctx context.Context) (*app.App, error)

// Options wires the command tree to its environment.
type Options struct {
	Build Builder
	In    io.Reader
	Out   io.Writer
}

// runtime is shared by every command of one invocation.
type runtime struct {
	build Builder
	app   *app.App
	in    *bufio.Reader
	out   io.Writer
	yes   bool
}

// Execute runs one invocation and releases the application afterwards,
// whether or not the command succeeded.
func Execute(ctx context.Context, opts Options, args []string) error {
	root, rt := newRoot(opts)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if rt.app != nil {
		if cerr := rt.app.Close(context.WithoutCancel(ctx)); cerr != nil {
			rt.app.Log.Warn().Err(cerr).Msg("closing session backend")
		}
	}
	return err
}

// newRoot returns the turnos command tree and its shared runtime.
func newRoot(opts Options) (*cobra.Command, *runtime) {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	rt := &runtime{build: opts.Build, in: bufio.NewReader(in), out: out}

	root := &cobra.Command{
		Use:           "turnos",
		Short:         "Cliente de turnos de la clínica de nutrición",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.app != nil {
				return nil
			}
			a, err := rt.build(cmd.Context())
			if err != nil {
				return &setupError{err: err}
			}
			rt.app = a
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&rt.yes, "yes", "y", false, "confirmar sin preguntar")

	root.AddCommand(
		newLoginCmd(rt),
		newRegisterCmd(rt),
		newLogoutCmd(rt),
		newWhoamiCmd(rt),
		newNavCmd(rt),
		newProfileCmd(rt),
		newPersonCmd(rt),
		newDashboardCmd(rt),
		newHistoryCmd(rt),
		newProvidersCmd(rt),
		newSlotsCmd(rt),
		newBoardCmd(rt),
		newGenerateCmd(rt),
		newUsersCmd(rt),
		newRolesCmd(rt),
	)
	return root, rt
}

// confirm asks a y/N question. --yes answers for the user.
func (rt *runtime) confirm(question string) bool {
	if rt.yes {
		return true
	}
	fmt.Fprintf(rt.out, "%s [s/N]: ", question)
	line, err := rt.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}

// prompt reads one line, used when a required flag was left out.
func (rt *runtime) prompt(label string) string {
	fmt.Fprintf(rt.out, "%s: ", label)
	line, _ := rt.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (rt *runtime) valueOrPrompt(v, label string) string {
	if v != "" {
		return v
	}
	return rt.prompt(label)
}
