package httpx

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

type body struct {
	Name string `json:"name" validate:"required,min=2"`
}

func TestDecodeJSON(t *testing.T) {
	var b body
	if err := DecodeJSON(strings.NewReader(`{"name":"Ana"}`), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Name != "Ana" {
		t.Fatalf("unexpected name %q", b.Name)
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var b body
	if err := DecodeJSON(strings.NewReader(`{"name":"Ana","admin":true}`), &b); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestDecodeJSONLenientIgnoresUnknownFields(t *testing.T) {
	var b body
	if err := DecodeJSONLenient(strings.NewReader(`{"name":"Ana","_id":"x","ignore_interaction":true}`), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Name != "Ana" {
		t.Fatalf("unexpected name %q", b.Name)
	}
	if err := DecodeJSONLenient(strings.NewReader(`{"name":"Ana"} {}`), &b); err == nil {
		t.Fatal("expected trailing data error")
	}
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	var b body
	if err := DecodeJSON(strings.NewReader(`{"name":"Ana"}{"name":"Bo"}`), &b); err == nil {
		t.Fatal("expected trailing data error")
	}
}

func TestValidationDetails(t *testing.T) {
	v := validator.New()
	err := v.Struct(body{Name: "A"})
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}

	details := ValidationDetails(errs, nil)
	if details["Name"] != "min" {
		t.Fatalf("expected tag fallback, got %v", details)
	}

	details = ValidationDetails(errs, func(fe validator.FieldError) string { return "too short" })
	if details["Name"] != "too short" {
		t.Fatalf("expected custom message, got %v", details)
	}

	if ValidationDetails(nil, nil) != nil {
		t.Fatal("expected nil for no errors")
	}
}
