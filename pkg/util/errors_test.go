package util

import (
	"errors"
	"strings"
	"testing"
)

func TestUsageErrorf(t *testing.T) {
	err := UsageErrorf("missing argument %s", "GATEWAY")
	if !errors.Is(err, ErrUsage) {
		t.Errorf("UsageErrorf result should unwrap to ErrUsage")
	}
	if !strings.Contains(err.Error(), "GATEWAY") {
		t.Errorf("error message %q missing argument name", err.Error())
	}
}

func TestValidationBuilder(t *testing.T) {
	var v ValidationBuilder
	v.Add(true, "should not appear")
	if v.HasErrors() {
		t.Error("passing condition should not record an error")
	}
	if v.Build() != nil {
		t.Error("Build() should return nil with no errors")
	}

	v.Add(false, "first problem")
	v.AddErrorf("second problem: %d", 42)
	err := v.Build()
	if err == nil {
		t.Fatal("Build() should return an error")
	}
	if !errors.Is(err, ErrUsage) {
		t.Error("validation error should unwrap to ErrUsage")
	}
	msg := err.Error()
	if !strings.Contains(msg, "first problem") || !strings.Contains(msg, "second problem: 42") {
		t.Errorf("error message %q missing accumulated problems", msg)
	}
}

func TestValidationErrorSingle(t *testing.T) {
	err := (&ValidationError{Errors: []string{"only one"}}).Error()
	if err != "validation failed: only one" {
		t.Errorf("single-error format = %q", err)
	}
}
