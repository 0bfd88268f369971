package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

// SlotClient implements ports.SlotAPI.
type SlotClient struct {
	gw *Gateway
}

func NewSlotClient(gw *Gateway) *SlotClient {
	return &SlotClient{gw: gw}
}

type generateRequest struct {
	FechaInicio    string `json:"fecha_inicio"`
	FechaFin       string `json:"fecha_fin"`
	HoraInicio     string `json:"hora_inicio"`
	HoraFin        string `json:"hora_fin"`
	DescansoInicio string `json:"descanso_inicio"`
	DescansoFin    string `json:"descanso_fin"`
}

type deleteDayRequest struct {
	Fecha string `json:"fecha"`
}

type deleteManyRequest struct {
	IDs []int64 `json:"ids"`
}

func (c *SlotClient) Generate(ctx context.Context, token string, in ports.GenerateInput) (*ports.BulkResult, error) {
	var out bulkDTO
	err := c.gw.do(ctx, call{
		op:     "slots.generate",
		method: http.MethodPost,
		path:   "/nutricionista/turnos/generar",
		token:  token,
		auth:   true,
		body: generateRequest{
			FechaInicio:    in.StartDate.String(),
			FechaFin:       in.EndDate.String(),
			HoraInicio:     in.StartTime.String(),
			HoraFin:        in.EndTime.String(),
			DescansoInicio: in.BreakStart.String(),
			DescansoFin:    in.BreakEnd.String(),
		},
		fallback: "Error al generar turnos",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &ports.BulkResult{Message: out.Message, Count: out.Cantidad}, nil
}

func (c *SlotClient) list(ctx context.Context, cl call) ([]domain.Slot, error) {
	cl.method = http.MethodGet
	cl.auth = true
	if cl.fallback == "" {
		cl.fallback = "No se pudieron cargar los turnos"
	}
	raw, err := c.gw.doRaw(ctx, cl)
	if err != nil {
		return nil, err
	}
	dtos, err := decodeSlotListing(raw)
	if err != nil {
		return nil, transportError(fmt.Errorf("%s: %w", cl.op, err))
	}
	return mapSlots(dtos, c.gw.log), nil
}

func (c *SlotClient) ListOwn(ctx context.Context, token string) ([]domain.Slot, error) {
	return c.list(ctx, call{op: "slots.list_own", path: "/nutricionista/turnos", token: token})
}

func (c *SlotClient) ListByDate(ctx context.Context, token string, date domain.Date) ([]domain.Slot, error) {
	return c.list(ctx, call{
		op:    "slots.list_by_date",
		path:  "/nutricionista/turnos/fecha",
		query: url.Values{"fecha": {date.String()}},
		token: token,
	})
}

func (c *SlotClient) ListByNutritionist(ctx context.Context, token string, nutritionistID int64) ([]domain.Slot, error) {
	return c.list(ctx, call{
		op:    "slots.list_by_nutritionist",
		path:  "/nutricionista/" + strconv.FormatInt(nutritionistID, 10) + "/turnos",
		token: token,
	})
}

func (c *SlotClient) ListForPatient(ctx context.Context, token string) ([]domain.Slot, error) {
	return c.list(ctx, call{op: "slots.list_for_patient", path: "/turnos/paciente", token: token})
}

func (c *SlotClient) ReservedForPatient(ctx context.Context, token string) (*domain.Slot, error) {
	var out struct {
		Turno *slotDTO `json:"turno"`
	}
	err := c.gw.do(ctx, call{
		op:       "slots.reserved_for_patient",
		method:   http.MethodGet,
		path:     "/turnos/paciente/reservado",
		token:    token,
		auth:     true,
		fallback: "No se pudo obtener el turno reservado",
	}, &out)
	if domain.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if out.Turno == nil {
		return nil, nil
	}
	s, err := out.Turno.toDomain()
	if err != nil {
		return nil, transportError(fmt.Errorf("slots.reserved_for_patient: %w", err))
	}
	return &s, nil
}

func (c *SlotClient) bulkDelete(ctx context.Context, op, path string, token string, body any) (*ports.BulkResult, error) {
	var out bulkDTO
	err := c.gw.do(ctx, call{
		op:       op,
		method:   http.MethodDelete,
		path:     path,
		token:    token,
		auth:     true,
		body:     body,
		fallback: "No se pudieron eliminar los turnos",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &ports.BulkResult{Message: out.Message, Count: out.Cantidad}, nil
}

func (c *SlotClient) DeleteDay(ctx context.Context, token string, date domain.Date) (*ports.BulkResult, error) {
	return c.bulkDelete(ctx, "slots.delete_day", "/nutricionista/turnos/eliminar-dia", token,
		deleteDayRequest{Fecha: date.String()})
}

func (c *SlotClient) DeleteMany(ctx context.Context, token string, ids []int64) (*ports.BulkResult, error) {
	return c.bulkDelete(ctx, "slots.delete_many", "/nutricionista/turnos/eliminar-multiples", token,
		deleteManyRequest{IDs: ids})
}

func (c *SlotClient) transition(ctx context.Context, op string, id int64, action, token, fallback string) (string, error) {
	var out messageDTO
	err := c.gw.do(ctx, call{
		op:       op,
		method:   http.MethodPost,
		path:     "/turnos/" + strconv.FormatInt(id, 10) + "/" + action,
		token:    token,
		auth:     true,
		body:     json.RawMessage(`{}`),
		fallback: fallback,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *SlotClient) Reserve(ctx context.Context, token string, id int64) (string, error) {
	return c.transition(ctx, "slots.reserve", id, "reservar", token, "No se pudo reservar el turno")
}

func (c *SlotClient) Cancel(ctx context.Context, token string, id int64) (string, error) {
	return c.transition(ctx, "slots.cancel", id, "cancelar", token, "No se pudo cancelar el turno")
}

func (c *SlotClient) Finalize(ctx context.Context, token string, id int64) (string, error) {
	return c.transition(ctx, "slots.finalize", id, "finalizar-turno", token, "No se pudo finalizar el turno")
}

var _ ports.SlotAPI = (*SlotClient)(nil)
