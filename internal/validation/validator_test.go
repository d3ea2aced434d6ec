package validation

import (
	"testing"
)

type sample struct {
	Phone string `json:"mobile_phone" validate:"required,mobile"`
	Ref   string `json:"ref,omitempty" validate:"omitempty,objectid"`
}

func TestMobileTag(t *testing.T) {
	v := New()
	cases := map[string]bool{
		"3001234567":       true,
		"123456789012345":  true,
		"123":              false,
		"12345abc":         false,
		"+573001234567":    false,
		"1234567890123456": false,
		"300 123 4567":     false,
	}
	for phone, ok := range cases {
		err := v.Struct(sample{Phone: phone})
		if ok && err != nil {
			t.Fatalf("expected %q to be valid, got %v", phone, err)
		}
		if !ok && err == nil {
			t.Fatalf("expected %q to be invalid", phone)
		}
	}
}

func TestFieldNamesUseJSONTags(t *testing.T) {
	v := New()
	errs := v.ValidationErrors(v.Struct(sample{Phone: "1"}))
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Field() != "mobile_phone" {
		t.Fatalf("expected json field name, got %s", errs[0].Field())
	}
	if errs[0].Tag() != "mobile" {
		t.Fatalf("expected mobile tag, got %s", errs[0].Tag())
	}
}

func TestObjectIDTag(t *testing.T) {
	v := New()
	if err := v.Var("67e46027c13cec9e6b46b799", "required,objectid"); err != nil {
		t.Fatalf("expected valid object id, got %v", err)
	}
	if err := v.Var("temp_campaign_id", "required,objectid"); err == nil {
		t.Fatal("expected invalid object id")
	}
}

func TestValidationErrorsIgnoresOtherErrors(t *testing.T) {
	v := New()
	if errs := v.ValidationErrors(nil); errs != nil {
		t.Fatalf("expected nil, got %v", errs)
	}
}
