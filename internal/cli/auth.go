package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/service"
)

func newLoginCmd(rt *runtime) *cobra.Command {
	var form service.LoginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Iniciar sesión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.Email = rt.valueOrPrompt(form.Email, "Correo")
			form.Password = rt.valueOrPrompt(form.Password, "Contraseña")
			route, err := rt.app.Auth.Login(cmd.Context(), form)
			if err != nil {
				return err
			}
			return rt.landed(cmd, route)
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "correo electrónico")
	cmd.Flags().StringVar(&form.Password, "password", "", "contraseña")
	return cmd
}

func newRegisterCmd(rt *runtime) *cobra.Command {
	var form service.RegisterForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Crear una cuenta de paciente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.Name = rt.valueOrPrompt(form.Name, "Nombre")
			form.Email = rt.valueOrPrompt(form.Email, "Correo")
			form.Password = rt.valueOrPrompt(form.Password, "Contraseña")
			form.PasswordConfirmation = rt.valueOrPrompt(form.PasswordConfirmation, "Confirmar contraseña")
			route, err := rt.app.Auth.Register(cmd.Context(), form)
			if err != nil {
				return err
			}
			return rt.landed(cmd, route)
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "nombre completo")
	cmd.Flags().StringVar(&form.Email, "email", "", "correo electrónico")
	cmd.Flags().StringVar(&form.Password, "password", "", "contraseña")
	cmd.Flags().StringVar(&form.PasswordConfirmation, "confirm", "", "confirmación de la contraseña")
	return cmd
}

// landed reports the session that was just opened and where it lands.
func (rt *runtime) landed(cmd *cobra.Command, route domain.Route) error {
	sess, err := rt.app.Session.Current(cmd.Context())
	if err != nil {
		return err
	}
	printSuccess(rt.out, fmt.Sprintf("Bienvenido, %s", sess.User.Name))
	fmt.Fprintf(rt.out, "Rol: %s | Inicio: %s\n", sess.User.Role.DisplayName(), route)
	return nil
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cerrar sesión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			printSuccess(rt.out, "Sesión cerrada")
			return nil
		},
	}
}

func newWhoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Mostrar la sesión guardada",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, route := rt.app.Auth.Restore(cmd.Context())
			if sess.IsZero() {
				fmt.Fprintln(rt.out, "No hay una sesión activa")
				return nil
			}
			printUser(rt.out, sess.User)
			if exp, ok := sess.ExpiresAt(); ok {
				fmt.Fprintf(rt.out, "Expira:  %s\n", exp.In(rt.app.Clock.Location).Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(rt.out, "Inicio:  %s\n", route)
			return nil
		},
	}
}

func newNavCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "Pantallas disponibles para la sesión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printLayout(rt.out, rt.app.Session.Layout(cmd.Context()))
			return nil
		},
	}
}
