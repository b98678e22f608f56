package services

import (
	"strings"
	"testing"
)

func TestBuildMixFilter(t *testing.T) {
	filter := buildMixFilter(900)

	for _, want := range []string{
		"[1:a]volume=0.125[bg]",
		"amix=inputs=2:duration=shortest",
		"afade=t=in:st=0:d=5",
		"afade=t=out:st=895:d=5",
		"loudnorm=I=-16:TP=-1.5:LRA=11",
	} {
		if !strings.Contains(filter, want) {
			t.Fatalf("filter missing %q:\n%s", want, filter)
		}
	}
}

func TestBuildMixFilter_FadeOutNeverNegative(t *testing.T) {
	filter := buildMixFilter(3)
	if !strings.Contains(filter, "afade=t=out:st=0:d=5") {
		t.Fatalf("expected fade-out start clamped to 0:\n%s", filter)
	}
}
