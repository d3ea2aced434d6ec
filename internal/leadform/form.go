// Package leadform holds the state behind the lead screen: which view is
// showing, the draft being edited, inline field errors, the loading flag and
// the feedback toast.
package leadform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"crm-leads/internal/leads"
)

type Mode string

const (
	ModeList   Mode = "list"
	ModeCreate Mode = "create"

	DefaultToastDuration = 5 * time.Second

	titleSuccess       = "Éxito"
	titleError         = "Error"
	msgCreated         = "Lead creado correctamente"
	msgCreateFailed    = "Error al crear lead"
	msgConnectionError = "Error en la conexión con el servidor"
	msgNotConfigured   = "El sistema no está completamente configurado"
)

var (
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrNotCreating      = errors.New("form is not in create mode")
)

// Submitter validates and sends a draft. *leads.Service satisfies it.
type Submitter interface {
	Submit(ctx context.Context, variant leads.Variant, draft leads.Draft) (leads.Result, error)
}

type Options struct {
	// Mode is the initial view; the zero value means ModeList.
	Mode    Mode
	Variant leads.Variant
	// Defaults seed campaign and user into fresh drafts.
	Defaults      leads.Defaults
	Shell         Shell
	OnContext     func(AppContext)
	ToastDuration time.Duration
	Log           *slog.Logger
}

type Form struct {
	mu sync.Mutex

	submitter Submitter
	variant   leads.Variant
	defaults  leads.Defaults
	shell     Shell
	onContext func(AppContext)
	log       *slog.Logger

	mode    Mode
	draft   leads.Draft
	errors  leads.ValidationErrors
	loading bool

	toast         Toast
	toastSeq      uint64
	toastTimer    *time.Timer
	toastDuration time.Duration
	afterFunc     func(time.Duration, func()) *time.Timer
}

func New(submitter Submitter, opts Options) *Form {
	if opts.Mode != ModeCreate {
		opts.Mode = ModeList
	}
	if opts.Variant == "" {
		opts.Variant = leads.VariantAuthenticated
	}
	if opts.Shell == (Shell{}) {
		opts.Shell = DefaultShell()
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = DefaultToastDuration
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}

	f := &Form{
		submitter:     submitter,
		variant:       opts.Variant,
		defaults:      opts.Defaults,
		shell:         opts.Shell,
		onContext:     opts.OnContext,
		log:           opts.Log,
		mode:          opts.Mode,
		toastDuration: opts.ToastDuration,
		afterFunc:     time.AfterFunc,
	}
	f.draft = f.freshDraft()
	f.publish(f.mode)
	return f
}

func (f *Form) freshDraft() leads.Draft {
	return leads.Draft{
		Campaign: f.defaults.CampaignID,
		User:     f.defaults.UserID,
	}
}

func (f *Form) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// OpenCreate switches list -> create. It is a no-op in create mode.
func (f *Form) OpenCreate() {
	f.setMode(ModeCreate)
}

// Cancel switches create -> list and keeps the draft as typed.
func (f *Form) Cancel() {
	f.setMode(ModeList)
}

func (f *Form) setMode(m Mode) {
	f.mu.Lock()
	if f.mode == m {
		f.mu.Unlock()
		return
	}
	f.mode = m
	f.mu.Unlock()
	f.publish(m)
}

func (f *Form) publish(m Mode) {
	if f.onContext == nil {
		return
	}
	f.onContext(f.shell.contextFor(m, f.Cancel))
}

// AppContext returns the context for the current mode.
func (f *Form) AppContext() AppContext {
	return f.shell.contextFor(f.Mode(), f.Cancel)
}

func (f *Form) Draft() leads.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// SetDraft replaces the form values. Campaign and user fall back to the defaults.
func (f *Form) SetDraft(d leads.Draft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.Campaign == "" {
		d.Campaign = f.defaults.CampaignID
	}
	if d.User == "" {
		d.User = f.defaults.UserID
	}
	f.draft = d
}

// Errors returns the inline messages of the last submit, keyed by field.
func (f *Form) Errors() leads.ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(leads.ValidationErrors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

func (f *Form) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

func (f *Form) Toast() Toast {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.toast
}

func (f *Form) DismissToast() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeToastLocked()
}

func (f *Form) closeToastLocked() {
	if f.toastTimer != nil {
		f.toastTimer.Stop()
		f.toastTimer = nil
	}
	f.toast.Open = false
}

func (f *Form) showToastLocked(title, description string, variant ToastVariant) {
	if f.toastTimer != nil {
		f.toastTimer.Stop()
	}
	f.toastSeq++
	seq := f.toastSeq
	f.toast = newToast(title, description, variant)
	f.toastTimer = f.afterFunc(f.toastDuration, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.toastSeq == seq {
			f.toast.Open = false
			f.toastTimer = nil
		}
	})
}

// Submit sends the current draft. Only one submit runs at a time per form;
// a concurrent call gets ErrSubmitInProgress. Field errors come back as
// leads.ValidationErrors and show inline without a toast. Every other
// outcome raises a toast. The draft is cleared only on success.
func (f *Form) Submit(ctx context.Context) (leads.Result, error) {
	f.mu.Lock()
	if f.mode != ModeCreate {
		f.mu.Unlock()
		return leads.Result{}, ErrNotCreating
	}
	if f.loading {
		f.mu.Unlock()
		return leads.Result{}, ErrSubmitInProgress
	}
	f.loading = true
	draft := f.draft
	f.mu.Unlock()

	res, err := f.submitter.Submit(ctx, f.variant, draft)

	f.mu.Lock()
	f.loading = false

	var verrs leads.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		f.errors = verrs
		f.mu.Unlock()
		return leads.Result{}, err

	case err != nil:
		f.errors = nil
		f.showToastLocked(titleError, failureMessage(err), ToastDestructive)
		f.mu.Unlock()
		f.log.Error("lead form: submit failed", slog.String("error", err.Error()))
		return leads.Result{}, err

	case !res.Success:
		f.errors = nil
		msg := res.Error
		if msg == "" {
			msg = msgCreateFailed
		}
		f.showToastLocked(titleError, msg, ToastDestructive)
		f.mu.Unlock()
		return res, nil
	}

	f.errors = nil
	f.draft = f.freshDraft()
	f.showToastLocked(titleSuccess, msgCreated, ToastDefault)
	f.mu.Unlock()

	f.setMode(ModeList)
	return res, nil
}

func failureMessage(err error) string {
	if errors.Is(err, leads.ErrExternalUnavailable) {
		return msgNotConfigured
	}
	var te *leads.TransportError
	if errors.As(err, &te) {
		if te.StatusCode > 0 {
			return fmt.Sprintf("La solicitud falló con código %d", te.StatusCode)
		}
		if te.Err == nil {
			return msgConnectionError
		}
		// Drop the "Post <url>:" prefix net/http adds.
		cause := te.Err
		var ue *url.Error
		if errors.As(cause, &ue) && ue.Err != nil {
			cause = ue.Err
		}
		if msg := strings.TrimSpace(cause.Error()); msg != "" {
			return msg
		}
		return msgConnectionError
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgConnectionError
}
