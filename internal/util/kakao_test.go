package util

import (
	"strings"
	"testing"
)

func TestApplyKakaoSeeMorePadding(t *testing.T) {
	out := ApplyKakaoSeeMorePadding("body text", "HEADER")
	if !strings.HasPrefix(out, "HEADER") {
		t.Fatalf("instruction missing: %q", out[:20])
	}
	if !strings.HasSuffix(out, "\nbody text") {
		t.Fatalf("body missing: %q", out[len(out)-20:])
	}
	if strings.Count(out, KakaoZeroWidthSpace) != KakaoSeeMorePadding {
		t.Fatalf("padding count: %d", strings.Count(out, KakaoZeroWidthSpace))
	}

	if out := ApplyKakaoSeeMorePadding("   ", "HEADER"); out != "   " {
		t.Fatalf("blank body must pass through: %q", out)
	}
}

func TestStripLeadingHeader(t *testing.T) {
	if got := StripLeadingHeader("HEADER\n\nbody", "HEADER"); got != "body" {
		t.Fatalf("double newline: %q", got)
	}
	if got := StripLeadingHeader("HEADER\nbody", "HEADER"); got != "body" {
		t.Fatalf("single newline: %q", got)
	}
	if got := StripLeadingHeader("body only", "HEADER"); got != "body only" {
		t.Fatalf("no header: %q", got)
	}
}
