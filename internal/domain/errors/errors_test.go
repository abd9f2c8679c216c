package errors

import "testing"

func TestErrorHelpers(t *testing.T) {
	err := NewInvalidArgument("bad")
	if !IsInvalidArgument(err) {
		t.Fatal("expected invalid argument")
	}

	wrapped := WrapInternal(err, "ctx")
	if !IsInternal(wrapped) {
		t.Fatal("expected internal")
	}
	if IsInvalidArgument(wrapped) {
		t.Fatal("internal wrap must not keep the inner sentinel")
	}

	if !IsConfiguration(NewConfiguration("JWT_SECRET_KEY is not set")) {
		t.Fatal("expected configuration")
	}
}
