package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/service"
)

func newProfileCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Perfil de la cuenta",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Mostrar el perfil actualizado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := rt.app.Auth.RefreshProfile(cmd.Context())
			if err != nil {
				return err
			}
			printUser(rt.out, *u)
			return nil
		},
	}

	var form service.ProfileForm
	update := &cobra.Command{
		Use:   "update",
		Short: "Cambiar nombre, correo o contraseña",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := rt.app.Session.Current(cmd.Context())
			if err != nil {
				return err
			}
			if form.Name == "" {
				form.Name = sess.User.Name
			}
			if form.Email == "" {
				form.Email = sess.User.Email
			}
			u, err := rt.app.Profile.Update(cmd.Context(), form)
			if err != nil {
				return err
			}
			printSuccess(rt.out, "Perfil actualizado")
			printUser(rt.out, *u)
			return nil
		},
	}
	update.Flags().StringVar(&form.Name, "name", "", "nuevo nombre")
	update.Flags().StringVar(&form.Email, "email", "", "nuevo correo")
	update.Flags().StringVar(&form.Password, "password", "", "nueva contraseña")
	update.Flags().StringVar(&form.PasswordConfirmation, "confirm", "", "confirmación de la contraseña")

	cmd.AddCommand(show, update)
	return cmd
}

func newPersonCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Datos personales",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Mostrar los datos personales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := rt.app.Profile.Person(cmd.Context())
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintln(rt.out, "Aún no ha registrado sus datos personales")
				return nil
			}
			printPerson(rt.out, *p)
			return nil
		},
	}

	var form service.PersonForm
	save := &cobra.Command{
		Use:   "save",
		Short: "Registrar o actualizar los datos personales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := rt.app.Profile.SavePerson(cmd.Context(), form)
			if err != nil {
				return err
			}
			printSuccess(rt.out, "Datos guardados")
			printPerson(rt.out, *p)
			return nil
		},
	}
	save.Flags().StringVar(&form.Cedula, "cedula", "", "cédula")
	save.Flags().StringVar(&form.BirthDate, "birth-date", "", "fecha de nacimiento (AAAA-MM-DD)")
	save.Flags().StringVar(&form.Address, "address", "", "dirección")
	save.Flags().StringVar(&form.Phone, "phone", "", "teléfono")

	cmd.AddCommand(show, save)
	return cmd
}

func newDashboardCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Pantalla de inicio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d, err := rt.app.Dashboard.Overview(ctx)
			if err != nil {
				return err
			}
			headColor.Fprintf(rt.out, "Hola, %s\n", d.User.Name)
			if d.Reserved == nil {
				fmt.Fprintln(rt.out, "No tiene turnos reservados")
				return nil
			}
			n, err := rt.app.Dashboard.Nutritionist(ctx, d.Reserved.NutritionistID)
			if err != nil {
				if domain.IsAuthFailure(err) {
					return err
				}
				u := domain.UnknownUser(d.Reserved.NutritionistID)
				n = &u
			}
			fmt.Fprintf(rt.out, "Próximo turno: %s %s con %s (%s)\n",
				d.Reserved.Date, slotHours(*d.Reserved), n.Name, n.Email)
			return nil
		},
	}
}

func newHistoryCmd(rt *runtime) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Citas finalizadas de un día",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			h, err := rt.app.History.Finalized(cmd.Context(), day)
			if err != nil {
				return err
			}
			printHistory(rt.out, h)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "día (AAAA-MM-DD), hoy por defecto")
	return cmd
}

// parseDay reads an optional --date flag; empty means today.
func parseDay(s string) (domain.Date, error) {
	if s == "" {
		return domain.Date{}, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, domain.NewValidationError("date", "La fecha debe tener el formato AAAA-MM-DD")
	}
	return d, nil
}
