package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

// PersonClient implements ports.PersonAPI.
type PersonClient struct {
	gw *Gateway
}

func NewPersonClient(gw *Gateway) *PersonClient {
	return &PersonClient{gw: gw}
}

func personBody(in ports.PersonInput) personDTO {
	return personDTO{
		Cedula:          in.Cedula,
		FechaNacimiento: in.BirthDate.String(),
		Direccion:       in.Address,
		Telefono:        in.Phone,
		UserID:          flexID(in.UserID),
	}
}

// FindByUser returns nil, nil when the server answers 404 or an empty list.
func (c *PersonClient) FindByUser(ctx context.Context, token string, userID int64) (*domain.Person, error) {
	raw, err := c.gw.doRaw(ctx, call{
		op:       "persons.find_by_user",
		method:   http.MethodGet,
		path:     "/personas",
		query:    url.Values{"user_id": {strconv.FormatInt(userID, 10)}},
		token:    token,
		auth:     true,
		fallback: "No se pudo obtener los datos personales",
	})
	if domain.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	dto, ok, err := decodeOne[personDTO](raw, "persona", "data")
	if err != nil {
		return nil, transportError(fmt.Errorf("persons.find_by_user: %w", err))
	}
	if !ok || dto.ID == 0 {
		return nil, nil
	}
	p := dto.toDomain()
	return &p, nil
}

func (c *PersonClient) Create(ctx context.Context, token string, in ports.PersonInput) (*domain.Person, error) {
	raw, err := c.gw.doRaw(ctx, call{
		op:       "persons.create",
		method:   http.MethodPost,
		path:     "/personas",
		token:    token,
		auth:     true,
		body:     personBody(in),
		fallback: "No se pudo guardar los datos personales",
	})
	if err != nil {
		return nil, err
	}
	return c.decode(raw, in, 0)
}

func (c *PersonClient) Update(ctx context.Context, token string, id int64, in ports.PersonInput) (*domain.Person, error) {
	raw, err := c.gw.doRaw(ctx, call{
		op:       "persons.update",
		method:   http.MethodPut,
		path:     "/personas/" + strconv.FormatInt(id, 10),
		token:    token,
		auth:     true,
		body:     personBody(in),
		fallback: "No se pudo actualizar los datos personales",
	})
	if err != nil {
		return nil, err
	}
	return c.decode(raw, in, id)
}

// decode falls back to echoing the submitted record when the server replies
// without one.
func (c *PersonClient) decode(raw []byte, in ports.PersonInput, id int64) (*domain.Person, error) {
	dto, ok, err := decodeOne[personDTO](raw, "persona", "data")
	if err == nil && ok && dto.ID != 0 {
		p := dto.toDomain()
		return &p, nil
	}
	return &domain.Person{
		ID:        id,
		UserID:    in.UserID,
		Cedula:    in.Cedula,
		BirthDate: in.BirthDate,
		Address:   in.Address,
		Phone:     in.Phone,
	}, nil
}

var _ ports.PersonAPI = (*PersonClient)(nil)
