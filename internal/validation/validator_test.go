// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package validation

import (
	"strings"
	"testing"
)

type credentialsRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=1,max=256"`
}

type feedbackRequest struct {
	Movie  string `json:"movie" validate:"required,title"`
	Signal string `json:"signal" validate:"required,oneof=like dislike"`
}

type searchRequest struct {
	Query string `json:"q" validate:"max=100"`
	Limit int    `json:"limit" validate:"gte=0,lte=200"`
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        interface{}
		wantField string
		wantMsg   string
	}{
		{"valid credentials", &credentialsRequest{Username: "ana.b_c-1", Password: "pw"}, "", ""},
		{"missing username", &credentialsRequest{Password: "pw"}, "username", "username is required"},
		{"bad username", &credentialsRequest{Username: "ana smith", Password: "pw"}, "username", "may only contain"},
		{"long username", &credentialsRequest{Username: strings.Repeat("a", 65), Password: "pw"}, "username", "may only contain"},
		{"valid feedback", &feedbackRequest{Movie: "The Matrix", Signal: "like"}, "", ""},
		{"blank title", &feedbackRequest{Movie: "   ", Signal: "like"}, "movie", "non-blank movie title"},
		{"control char title", &feedbackRequest{Movie: "Heat\n", Signal: "like"}, "movie", "non-blank movie title"},
		{"bad signal", &feedbackRequest{Movie: "Heat", Signal: "love"}, "signal", "signal must be one of: like dislike"},
		{"limit too high", &searchRequest{Limit: 500}, "limit", "limit must be less than or equal to 200"},
		{"query too long", &searchRequest{Query: strings.Repeat("q", 101)}, "q", "q must be at most 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(tt.in)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if verr.Fields[0].Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Fields[0].Field, tt.wantField)
			}
			if !strings.Contains(verr.Error(), tt.wantMsg) {
				t.Errorf("Error() = %q, want it to contain %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&feedbackRequest{})
	if verr == nil || len(verr.Fields) != 2 {
		t.Fatalf("ValidateStruct() = %v, want 2 field errors", verr)
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("Error() = %q, want joined messages", verr.Error())
	}
}
