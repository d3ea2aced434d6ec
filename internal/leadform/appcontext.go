package leadform

// Breadcrumb is one entry of the navigation trail.
type Breadcrumb struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// AppContext is what the surrounding shell needs to frame the leads view.
// The form rebuilds it on every mode transition and hands it to a sink.
type AppContext struct {
	App        string       `json:"app"`
	Module     string       `json:"module"`
	Window     string       `json:"window"`
	Accent     string       `json:"accent"`
	Breadcrumb []Breadcrumb `json:"breadcrumb"`
	// Back is set only while creating; it cancels back to the list.
	Back func() `json:"-"`
}

// Shell holds the fixed parts of the app context.
type Shell struct {
	App    string
	Module string
	Window string
	Accent string
}

func DefaultShell() Shell {
	return Shell{
		App:    "kuepa",
		Module: "leads",
		Window: "crm",
		Accent: "purple",
	}
}

func (s Shell) contextFor(mode Mode, back func()) AppContext {
	ctx := AppContext{
		App:        s.App,
		Module:     s.Module,
		Window:     s.Window,
		Accent:     s.Accent,
		Breadcrumb: []Breadcrumb{{Title: "Leads", URL: "/leads"}},
	}
	if mode == ModeCreate {
		ctx.Breadcrumb = append(ctx.Breadcrumb, Breadcrumb{Title: "Nuevo", URL: "/leads/new"})
		ctx.Back = back
	}
	return ctx
}
