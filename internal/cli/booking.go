package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
)

func newProvidersCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Nutricionistas disponibles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := rt.app.Reservations.Providers(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(rt.out, list)
			return nil
		},
	}
}

// openProvider loads the reservation board for one nutritionist.
func (rt *runtime) openProvider(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NewValidationError("provider", "Seleccione un nutricionista (--provider)")
	}
	list, err := rt.app.Reservations.Providers(ctx)
	if err != nil {
		return err
	}
	for _, p := range list {
		if p.ID == id {
			return rt.app.Reservations.SelectProvider(ctx, p)
		}
	}
	return domain.NewValidationError("provider", fmt.Sprintf("No existe el nutricionista %d", id))
}

func parseSlotID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", fmt.Sprintf("Identificador de turno inválido: %q", arg))
	}
	return id, nil
}

func newSlotsCmd(rt *runtime) *cobra.Command {
	var (
		provider int64
		date     string
	)
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Reservar o cancelar turnos (pacientes)",
	}
	cmd.PersistentFlags().Int64Var(&provider, "provider", 0, "id del nutricionista")
	cmd.PersistentFlags().StringVar(&date, "date", "", "día (AAAA-MM-DD), hoy por defecto")

	open := func(ctx context.Context) error {
		if err := rt.openProvider(ctx, provider); err != nil {
			return err
		}
		if date != "" {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			rt.app.Reservations.SetDate(day)
		}
		return nil
	}

	day := &cobra.Command{
		Use:   "day",
		Short: "Turnos del día, mañana y tarde",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := open(cmd.Context()); err != nil {
				return err
			}
			printReservationView(rt.out, rt.app.Reservations.View())
			return nil
		},
	}

	action := func(use, short, question string, request func(int64) error) *cobra.Command {
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
				if err := request(id); err != nil {
					return err
				}
				sel := rt.app.Reservations.View().Selected
				if !rt.confirm(fmt.Sprintf(question, sel.Date, slotHours(*sel))) {
					rt.app.Reservations.Dismiss()
					fmt.Fprintln(rt.out, "Operación cancelada")
					return nil
				}
				msg, err := rt.app.Reservations.Confirm(ctx)
				if err != nil {
					return err
				}
				printSuccess(rt.out, msg)
				return nil
			},
		}
	}

	reserve := action("reserve", "Reservar un turno",
		"¿Reservar el turno del %s a las %s?", rt.reserveRequest)
	cancel := action("cancel", "Cancelar un turno propio",
		"¿Cancelar el turno del %s a las %s?", rt.cancelRequest)

	cmd.AddCommand(day, reserve, cancel)
	return cmd
}

func (rt *runtime) reserveRequest(id int64) error {
	return rt.app.Reservations.RequestReservation(id)
}

func (rt *runtime) cancelRequest(id int64) error {
	return rt.app.Reservations.RequestCancellation(id)
}
