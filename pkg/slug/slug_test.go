// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestFrom covers normalization and truncation.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Backend", "backend"},
		{"spaces", "Mobile App", "mobile-app"},
		{"accents", "Café Backend", "cafe-backend"},
		{"punctuation", "  API (v2) -- Core!! ", "api-v2-core"},
		{"underscores", "data_pipeline", "data-pipeline"},
		{"non_latin", "日本語", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, From(tt.input))
		})
	}

	long := From(strings.Repeat("word ", 40))
	assert.LessOrEqual(t, len(long), MaxLength)
	assert.False(t, strings.HasSuffix(long, "-"))
	assert.True(t, strings.HasSuffix(long, "word"), "cut at a word boundary")
}

/*
TestValid checks slug recognition.
*/
func TestValid(t *testing.T) {
	assert.True(t, Valid("mobile-app"))
	assert.True(t, Valid("v2"))
	assert.False(t, Valid("Mobile-App"))
	assert.False(t, Valid("-leading"))
	assert.False(t, Valid("double--hyphen"))
	assert.False(t, Valid(""))
	assert.False(t, Valid(strings.Repeat("a", MaxLength+1)))
}
