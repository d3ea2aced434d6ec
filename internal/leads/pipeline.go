package leads

import (
	"strings"

	"crm-leads/internal/httpx"
	"crm-leads/internal/programs"
	"crm-leads/internal/validation"

	"github.com/go-playground/validator/v10"
)

const (
	msgMinLength      = "Mínimo 2 caracteres"
	msgInvalidEmail   = "Correo inválido"
	msgInvalidPhone   = "Teléfono inválido"
	msgSelectProgram  = "Selecciona un programa"
	msgUnknownProgram = "Programa desconocido"
	msgCampaign       = "Campaña es requerida"
	msgUser           = "Usuario es requerido"
)

var fieldMessages = map[string]string{
	"first_name":      msgMinLength,
	"last_name":       msgMinLength,
	"email":           msgInvalidEmail,
	"mobile_phone":    msgInvalidPhone,
	"interestProgram": msgSelectProgram,
	"campaign":        msgCampaign,
	"user":            msgUser,
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return msg
	}
	return fe.Tag()
}

// Pipeline validates drafts and maps them to CRM payloads.
type Pipeline struct {
	val *validation.Validator
	// strict rejects program ids missing from the catalog instead of sending an empty name.
	strict bool
}

type PipelineOption func(*Pipeline)

func WithStrictPrograms(strict bool) PipelineOption {
	return func(p *Pipeline) {
		p.strict = strict
	}
}

func NewPipeline(val *validation.Validator, opts ...PipelineOption) *Pipeline {
	if val == nil {
		val = validation.New()
	}
	p := &Pipeline{val: val}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ValidateAndBuildPayload returns either a payload or the field errors, never both.
func (p *Pipeline) ValidateAndBuildPayload(draft Draft, catalog *programs.Catalog) (Payload, ValidationErrors) {
	draft = normalize(draft)

	errs := ValidationErrors{}
	if err := p.val.Struct(draft); err != nil {
		ve := p.val.ValidationErrors(err)
		if ve == nil {
			// Only reachable with a broken validator setup.
			errs["_"] = err.Error()
			return Payload{}, errs
		}
		for field, msg := range httpx.ValidationDetails(ve, fieldMessage) {
			errs[field] = msg
		}
	}

	_, known := catalog.Lookup(draft.InterestProgram)
	if p.strict && !known && draft.InterestProgram != "" {
		if _, taken := errs["interestProgram"]; !taken {
			errs["interestProgram"] = msgUnknownProgram
		}
	}

	if len(errs) > 0 {
		return Payload{}, errs
	}

	return Payload{
		FirstName:       draft.FirstName,
		LastName:        draft.LastName,
		Email:           draft.Email,
		MobilePhone:     draft.MobilePhone,
		Number:          draft.MobilePhone,
		InterestProgram: catalog.NameFor(draft.InterestProgram),
		Campaign:        draft.Campaign,
		User:            draft.User,
		Status:          StatusActive,
		FullName:        draft.FirstName + " " + draft.LastName,
	}, nil
}

func normalize(d Draft) Draft {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	d.MobilePhone = strings.TrimSpace(d.MobilePhone)
	d.InterestProgram = strings.TrimSpace(d.InterestProgram)
	d.Campaign = strings.TrimSpace(d.Campaign)
	d.User = strings.TrimSpace(d.User)
	return d
}
