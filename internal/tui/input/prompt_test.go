package input

import (
	"reflect"
	"testing"
)

var testChoices = Choices{
	"instructor": {"Dr. Adams", "Dr. Baker", "Prof. Chen"},
	"room":       {"R101", "R102", "Lab 1"},
}

func TestFilterSuggestions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty lists keys", input: "", want: []string{"instructor=", "room="}},
		{name: "key prefix", input: "ro", want: []string{"room="}},
		{name: "value prefix", input: "instructor=dr", want: []string{"instructor=Dr. Adams", "instructor=Dr. Baker"}},
		{name: "short key", input: "r=R1", want: []string{"room=R101", "room=R102"}},
		{name: "second segment", input: "instructor=Dr. Adams, room=l", want: []string{"room=Lab 1"}},
		{name: "unknown key", input: "day=", want: nil},
		{name: "no match", input: "room=Z", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterSuggestions(tt.input, testChoices)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterSuggestions(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilterAutocomplete(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "key", input: "in", want: "instructor=", wantOK: true},
		{name: "value", input: "instructor=Prof", want: "instructor=Prof. Chen", wantOK: true},
		{name: "keeps earlier segments", input: "instructor=Dr. Adams,ro", want: "instructor=Dr. Adams, room=", wantOK: true},
		{name: "nothing to complete", input: "room=Z", want: "room=Z", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FilterAutocomplete(tt.input, testChoices)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("FilterAutocomplete(%q) = %q, %t; want %q, %t", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
