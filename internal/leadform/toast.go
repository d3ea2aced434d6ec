package leadform

import "unicode/utf8"

type ToastVariant string

const (
	ToastDefault     ToastVariant = "default"
	ToastDestructive ToastVariant = "destructive"

	maxDescriptionRunes = 100
)

// Toast is the transient banner shown after a submission attempt.
type Toast struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Variant     ToastVariant `json:"variant"`
	Open        bool         `json:"open"`
}

func newToast(title, description string, variant ToastVariant) Toast {
	return Toast{
		Title:       title,
		Description: truncate(description, maxDescriptionRunes),
		Variant:     variant,
		Open:        true,
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
