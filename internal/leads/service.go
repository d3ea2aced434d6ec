package leads

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"crm-leads/internal/programs"
)

// Submitter is the CRM side of a submission.
type Submitter interface {
	Create(ctx context.Context, p Payload) (Result, error)
	CreateExternal(ctx context.Context, p Payload) (Result, error)
	Get(ctx context.Context, id string) (Result, error)
}

// Defaults fill campaign and user for authenticated submissions that omit them.
type Defaults struct {
	CampaignID string
	UserID     string
}

type Service struct {
	pipeline *Pipeline
	gateway  Submitter
	programs programs.Source
	defaults Defaults
	metrics  *Metrics
	log      *slog.Logger
}

func NewService(pipeline *Pipeline, gateway Submitter, source programs.Source, defaults Defaults, metrics *Metrics, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		pipeline: pipeline,
		gateway:  gateway,
		programs: source,
		defaults: defaults,
		metrics:  metrics,
		log:      log,
	}
}

// Prepare runs the pipeline for a variant without touching the network.
func (s *Service) Prepare(ctx context.Context, variant Variant, draft Draft) (Payload, error) {
	switch variant {
	case VariantAuthenticated:
		if strings.TrimSpace(draft.Campaign) == "" {
			draft.Campaign = s.defaults.CampaignID
		}
		if strings.TrimSpace(draft.User) == "" {
			draft.User = s.defaults.UserID
		}
	case VariantExternal:
		// The gateway stamps the real placeholders; these only satisfy the shared rules.
		draft.Campaign = string(VariantExternal)
		draft.User = string(VariantExternal)
	default:
		return Payload{}, ErrUnknownVariant
	}

	payload, verrs := s.pipeline.ValidateAndBuildPayload(draft, s.programs.Catalog(ctx))
	if len(verrs) > 0 {
		return Payload{}, verrs
	}
	if payload.InterestProgram == "" {
		s.log.Warn("lead submit: unknown program id, sending empty name",
			slog.String("program_id", strings.TrimSpace(draft.InterestProgram)),
			slog.String("variant", string(variant)),
		)
	}
	return payload, nil
}

// Submit validates the draft and, only when it is valid, makes one CRM call.
// Validation failures come back as ValidationErrors; transport failures as
// errors matching ErrTransport. A CRM-side rejection is a Result with
// Success false and a nil error.
func (s *Service) Submit(ctx context.Context, variant Variant, draft Draft) (Result, error) {
	payload, err := s.Prepare(ctx, variant, draft)
	if err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			s.metrics.ObserveSubmission(variant, outcomeInvalid)
		}
		return Result{}, err
	}

	var res Result
	if variant == VariantExternal {
		res, err = s.gateway.CreateExternal(ctx, payload)
	} else {
		res, err = s.gateway.Create(ctx, payload)
	}
	if err != nil {
		s.metrics.ObserveSubmission(variant, outcomeTransport)
		return Result{}, err
	}
	if !res.Success {
		s.metrics.ObserveSubmission(variant, outcomeRejected)
		return res, nil
	}

	s.metrics.ObserveSubmission(variant, outcomeSuccess)
	leadID := ""
	if res.Object != nil {
		leadID = res.Object.ID
	}
	s.log.Info("lead submit: ok", slog.String("variant", string(variant)), slog.String("lead_id", leadID))
	return res, nil
}

func (s *Service) Get(ctx context.Context, id string) (Result, error) {
	return s.gateway.Get(ctx, id)
}
