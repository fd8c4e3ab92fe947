package util

import (
	"reflect"
	"testing"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("KE_TEST_STRING", "gpt-4o-mini")
	t.Setenv("KE_TEST_BLANK", "  ")
	t.Setenv("KE_TEST_FLOAT", "0.25")
	t.Setenv("KE_TEST_INT", " 4 ")
	t.Setenv("KE_TEST_BAD_INT", "four")
	t.Setenv("KE_TEST_BOOL", "true")
	t.Setenv("KE_TEST_BAD_BOOL", "yes")
	t.Setenv("KE_TEST_LIST", ".pdf, .txt,,")

	if got := GetEnvString("KE_TEST_STRING", "x"); got != "gpt-4o-mini" {
		t.Errorf("GetEnvString() = %q", got)
	}
	if got := GetEnvString("KE_TEST_BLANK", "fallback"); got != "fallback" {
		t.Errorf("GetEnvString() on blank = %q, want fallback", got)
	}
	if got := GetEnvString("KE_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnvString() on missing = %q, want fallback", got)
	}
	if got := GetEnvNumeric("KE_TEST_FLOAT", 1); got != 0.25 {
		t.Errorf("GetEnvNumeric() = %v", got)
	}
	if got := GetEnvInt("KE_TEST_INT", 1); got != 4 {
		t.Errorf("GetEnvInt() = %d", got)
	}
	if got := GetEnvInt("KE_TEST_BAD_INT", 1); got != 1 {
		t.Errorf("GetEnvInt() on invalid = %d, want default", got)
	}
	if got := GetEnvBool("KE_TEST_BOOL", false); !got {
		t.Errorf("GetEnvBool() = false")
	}
	if got := GetEnvBool("KE_TEST_BAD_BOOL", false); got {
		t.Errorf("GetEnvBool() on invalid should return default")
	}
	if got := GetEnvList("KE_TEST_LIST", nil); !reflect.DeepEqual(got, []string{".pdf", ".txt"}) {
		t.Errorf("GetEnvList() = %v", got)
	}
	if got := GetEnvList("KE_TEST_MISSING", []string{".pdf"}); !reflect.DeepEqual(got, []string{".pdf"}) {
		t.Errorf("GetEnvList() on missing = %v", got)
	}
}
