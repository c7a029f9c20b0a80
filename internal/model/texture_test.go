package model

import "testing"

func TestResolveTexture(t *testing.T) {
	textures := map[string]string{
		"end":  "#side",
		"side": "minecraft:block/stone",
		"loop": "#loop",
		"a":    "#b",
		"b":    "#a",
		"hole": "#nowhere",
		"top":  "block/top",
	}
	tests := []struct {
		ref  string
		want string
	}{
		{"#end", "block/stone"},
		{"#side", "block/stone"},
		{"#top", "block/top"},
		{"block/dirt", "block/dirt"},
		{"minecraft:block/dirt", "block/dirt"},
		{"", MissingTexture},
		{"#missing", MissingTexture},
		{"#loop", MissingTexture},
		{"#a", MissingTexture},
		{"#hole", MissingTexture},
	}
	for _, tt := range tests {
		if got := ResolveTexture(tt.ref, textures, 5); got != tt.want {
			t.Errorf("ResolveTexture(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}
