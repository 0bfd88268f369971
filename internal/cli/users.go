package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/service"
)

// roleFlag adapts domain.Role to a pflag value.
type roleFlag struct {
	role *domain.Role
}

func (f roleFlag) String() string {
	if f.role == nil || *f.role == domain.RoleUnknown {
		return ""
	}
	return f.role.String()
}

func (f roleFlag) Set(s string) error { return f.role.UnmarshalText([]byte(s)) }

func (f roleFlag) Type() string { return "role" }

func parseUserID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", fmt.Sprintf("Identificador de usuario inválido: %q", arg))
	}
	return id, nil
}

func newUsersCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administrar cuentas (administradores)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Listar pacientes y nutricionistas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := rt.app.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(rt.out, users)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Eliminar una cuenta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			if !rt.confirm(fmt.Sprintf("¿Eliminar el usuario %d?", id)) {
				fmt.Fprintln(rt.out, "Operación cancelada")
				return nil
			}
			if err := rt.app.Users.Delete(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess(rt.out, "Usuario eliminado")
			return nil
		},
	}

	var upd service.AdminUserForm
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Cambiar nombre, correo y rol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			if err := rt.app.Users.Update(cmd.Context(), id, upd); err != nil {
				return err
			}
			printSuccess(rt.out, "Usuario actualizado")
			return nil
		},
	}
	update.Flags().StringVar(&upd.Name, "name", "", "nombre")
	update.Flags().StringVar(&upd.Email, "email", "", "correo")
	update.Flags().Var(roleFlag{role: &upd.Role}, "role", "rol: paciente, nutricionista o administrador")

	var form service.CreateUserForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Registrar una cuenta con rol",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := rt.app.Users.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			printSuccess(rt.out, msg)
			return nil
		},
	}
	create.Flags().StringVar(&form.Name, "name", "", "nombre")
	create.Flags().StringVar(&form.Email, "email", "", "correo")
	create.Flags().StringVar(&form.Password, "password", "", "contraseña")
	create.Flags().StringVar(&form.PasswordConfirmation, "confirm", "", "confirmación de la contraseña")
	create.Flags().Var(roleFlag{role: &form.Role}, "role", "rol: paciente, nutricionista o administrador")

	cmd.AddCommand(list, del, update, create)
	return cmd
}

func newRolesCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "Catálogo de roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roles, err := rt.app.Users.Roles(cmd.Context())
			if err != nil {
				return err
			}
			t := newTable(rt.out, "ID", "Rol")
			for _, r := range roles {
				t.Append([]string{strconv.Itoa(r.ID), r.Name})
			}
			t.Render()
			return nil
		},
	}
}
