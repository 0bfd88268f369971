package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinica-nutricion/turnos-client/internal/core/service"
)

func newBoardCmd(rt *runtime) *cobra.Command {
	var (
		provider int64
		date     string
	)
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Administrar turnos (nutricionistas y administradores)",
	}
	cmd.PersistentFlags().Int64Var(&provider, "provider", 0, "id del nutricionista (solo administradores)")
	cmd.PersistentFlags().StringVar(&date, "date", "", "día (AAAA-MM-DD), hoy por defecto")

	open := func(ctx context.Context) error {
		board := rt.app.Slots
		if provider > 0 {
			if err := board.SelectProvider(ctx, provider); err != nil {
				return err
			}
		} else if err := board.Load(ctx); err != nil {
			return err
		}
		if date != "" {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			board.SetDate(day)
		}
		return nil
	}

	// confirmDialog asks about the open dialog and submits it.
	confirmDialog := func(ctx context.Context, question string) error {
		if !rt.confirm(question) {
			rt.app.Slots.Dismiss()
			fmt.Fprintln(rt.out, "Operación cancelada")
			return nil
		}
		msg, err := rt.app.Slots.Confirm(ctx)
		if err != nil {
			return err
		}
		printSuccess(rt.out, msg)
		return nil
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Turnos del día",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := open(cmd.Context()); err != nil {
				return err
			}
			printBoardView(rt.out, rt.app.Slots.View())
			return nil
		},
	}

	single := func(use, short, question string, request func(*service.SlotBoard, int64) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseSlotID(args[0])
				if err != nil {
					return err
				}
				ctx := cmd.Context()
				if err := open(ctx); err != nil {
					return err
				}
				if err := request(rt.app.Slots, id); err != nil {
					return err
				}
				return confirmDialog(ctx, fmt.Sprintf(question, id))
			},
		}
	}

	cancel := single("cancel", "Cancelar un turno reservado",
		"¿Cancelar el turno %d?", (*service.SlotBoard).RequestCancel)
	finalize := single("finalize", "Marcar un turno como finalizado",
		"¿Finalizar el turno %d?", (*service.SlotBoard).RequestFinalize)

	deleteDay := &cobra.Command{
		Use:   "delete-day",
		Short: "Eliminar todos los turnos del día",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := open(ctx); err != nil {
				return err
			}
			if err := rt.app.Slots.RequestDeleteDay(); err != nil {
				return err
			}
			return confirmDialog(ctx, fmt.Sprintf("¿Eliminar todos los turnos del %s?", rt.app.Slots.View().Date))
		},
	}

	deleteSelected := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Eliminar los turnos indicados",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := open(ctx); err != nil {
				return err
			}
			for _, arg := range args {
				id, err := parseSlotID(arg)
				if err != nil {
					return err
				}
				if err := selectSlot(rt.app.Slots, id); err != nil {
					return err
				}
			}
			if err := rt.app.Slots.RequestDeleteSelected(); err != nil {
				return err
			}
			n := len(rt.app.Slots.View().Selected)
			return confirmDialog(ctx, fmt.Sprintf("¿Eliminar %d turno(s)?", n))
		},
	}

	cmd.AddCommand(show, cancel, finalize, deleteDay, deleteSelected)
	return cmd
}

// selectSlot marks id for bulk deletion; repeating an id keeps it marked.
func selectSlot(board *service.SlotBoard, id int64) error {
	for _, sel := range board.View().Selected {
		if sel == id {
			return nil
		}
	}
	_, err := board.ToggleSelected(id)
	return err
}

func newGenerateCmd(rt *runtime) *cobra.Command {
	var form service.GenerationForm
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generar turnos para un rango de fechas (nutricionistas)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := rt.app.Generation.Generate(cmd.Context(), form)
			if err != nil {
				return err
			}
			printSuccess(rt.out, msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.StartDate, "from", "", "fecha de inicio (AAAA-MM-DD)")
	cmd.Flags().StringVar(&form.EndDate, "to", "", "fecha de fin (AAAA-MM-DD)")
	cmd.Flags().StringVar(&form.StartTime, "start", "", "hora de inicio (HH:MM)")
	cmd.Flags().StringVar(&form.EndTime, "end", "", "hora de fin (HH:MM)")
	cmd.Flags().StringVar(&form.BreakStart, "break-start", "", "inicio del descanso (HH:MM)")
	cmd.Flags().StringVar(&form.BreakEnd, "break-end", "", "fin del descanso (HH:MM)")
	return cmd
}
