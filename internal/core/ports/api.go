package ports

import (
	"context"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
)

// LoginInput carries the credentials for POST /login.
type LoginInput struct {
	Email    string
	Password string
}

// RegisterInput carries the body for POST /register. Role is only sent
// when an administrator creates the account.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	Role                 domain.Role
}

// AuthResult is the {user, token} pair returned by login and register.
type AuthResult struct {
	Token string
	User  domain.User
}

// AuthAPI covers the unauthenticated account endpoints.
type AuthAPI interface {
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
}

// ProfileUpdate is the body for PUT /user. Empty passwords are omitted.
type ProfileUpdate struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// AdminUserUpdate is the body for PUT /user/admin/{id}.
type AdminUserUpdate struct {
	Name  string
	Email string
	Role  domain.Role
}

// UserAPI covers the profile and user administration endpoints.
type UserAPI interface {
	Profile(ctx context.Context, token string) (*domain.User, error)
	UpdateProfile(ctx context.Context, token string, in ProfileUpdate) (*domain.User, error)
	Get(ctx context.Context, token string, id int64) (*domain.User, error)
	List(ctx context.Context, token string) ([]domain.User, error)
	Delete(ctx context.Context, token string, id int64) error
	AdminUpdate(ctx context.Context, token string, id int64, in AdminUserUpdate) error
}

// RoleAPI lists the role catalog. It needs no token.
type RoleAPI interface {
	List(ctx context.Context) ([]domain.RoleOption, error)
}

// PersonInput is the body for POST /personas and PUT /personas/{id}.
type PersonInput struct {
	UserID    int64
	Cedula    string
	BirthDate domain.Date
	Address   string
	Phone     string
}

// PersonAPI covers the profile extension records. FindByUser returns nil
// when the user has no record yet.
type PersonAPI interface {
	FindByUser(ctx context.Context, token string, userID int64) (*domain.Person, error)
	Create(ctx context.Context, token string, in PersonInput) (*domain.Person, error)
	Update(ctx context.Context, token string, id int64, in PersonInput) (*domain.Person, error)
}

// GenerateInput is the body for POST /nutricionista/turnos/generar.
type GenerateInput struct {
	StartDate  domain.Date
	EndDate    domain.Date
	StartTime  domain.ClockTime
	EndTime    domain.ClockTime
	BreakStart domain.ClockTime
	BreakEnd   domain.ClockTime
}

// BulkResult is the {message, cantidad} reply of the bulk operations.
type BulkResult struct {
	Message string
	Count   int
}

// SlotAPI covers every slot endpoint.
type SlotAPI interface {
	Generate(ctx context.Context, token string, in GenerateInput) (*BulkResult, error)
	ListOwn(ctx context.Context, token string) ([]domain.Slot, error)
	ListByDate(ctx context.Context, token string, date domain.Date) ([]domain.Slot, error)
	ListByNutritionist(ctx context.Context, token string, nutritionistID int64) ([]domain.Slot, error)
	DeleteDay(ctx context.Context, token string, date domain.Date) (*BulkResult, error)
	DeleteMany(ctx context.Context, token string, ids []int64) (*BulkResult, error)
	Reserve(ctx context.Context, token string, id int64) (string, error)
	Cancel(ctx context.Context, token string, id int64) (string, error)
	Finalize(ctx context.Context, token string, id int64) (string, error)
	ListForPatient(ctx context.Context, token string) ([]domain.Slot, error)
	// ReservedForPatient returns nil, nil when the patient has no reservation.
	ReservedForPatient(ctx context.Context, token string) (*domain.Slot, error)
}

// UserDirectory resolves a batch of user ids. Failed lookups resolve to
// domain.UnknownUser rather than an error.
type UserDirectory interface {
	Resolve(ctx context.Context, token string, ids []int64) map[int64]domain.User
}
