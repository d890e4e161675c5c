package envutil

import (
	"reflect"
	"testing"
	"time"
)

func TestGetters(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "42")
	t.Setenv("ENVUTIL_BAD_INT", "x")
	t.Setenv("ENVUTIL_BOOL", "off")
	t.Setenv("ENVUTIL_SECS", "90")
	t.Setenv("ENVUTIL_CSV", " a, ,b ,c")
	t.Setenv("ENVUTIL_FLOAT", "0.75")

	if got := Int("ENVUTIL_INT", 1); got != 42 {
		t.Fatalf("Int=%d want 42", got)
	}
	if got := Int("ENVUTIL_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback=%d want 7", got)
	}
	if got := Bool("ENVUTIL_BOOL", true); got {
		t.Fatalf("Bool=%v want false", got)
	}
	if got := Bool("ENVUTIL_MISSING", true); !got {
		t.Fatalf("Bool default not applied")
	}
	if got := Seconds("ENVUTIL_SECS", time.Second); got != 90*time.Second {
		t.Fatalf("Seconds=%v want 90s", got)
	}
	if got := CSV("ENVUTIL_CSV", nil); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("CSV=%v", got)
	}
	if got := Float("ENVUTIL_FLOAT", 0); got != 0.75 {
		t.Fatalf("Float=%v want 0.75", got)
	}
	if got := String("ENVUTIL_MISSING", "dflt"); got != "dflt" {
		t.Fatalf("String=%q want dflt", got)
	}
}
